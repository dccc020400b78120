package cli

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/specialistvlad/miniflow/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const longHelp = `miniflow - evaluate a computational graph over fed input values.

Graph and feed files are HCL (.hcl) or YAML (.yaml, .yml). A graph path may
be a directory, in which case every graph file below it is loaded.

Arguments:
  GRAPH_PATH
    Path to a graph file or a directory of graph files.`

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var (
		graphPaths []string
		feedPath   string
		outputs    []string
		logFormat  string
		logLevel   string
		healthPort int
		watch      bool

		ran        bool
		positional []string
	)

	cmd := &cobra.Command{
		Use:           "miniflow [options] [GRAPH_PATH...]",
		Short:         "Evaluate a computational graph",
		Long:          longHelp,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			ran = true
			positional = args
			return nil
		},
	}
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	flags := cmd.Flags()
	flags.StringArrayVarP(&graphPaths, "graph", "g", nil, "Path to a graph file or directory. May be repeated.")
	flags.StringVarP(&feedPath, "feed", "f", "", "Path to the file holding input values.")
	flags.StringArrayVarP(&outputs, "output", "o", nil, "Node to report after each pass. May be repeated. Defaults to the graph's outputs, or the last evaluated node.")
	flags.StringVar(&logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flags.StringVar(&logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.IntVar(&healthPort, "healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	flags.BoolVar(&watch, "watch", false, "Re-evaluate whenever the feed file changes.")

	if err := cmd.Execute(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if !ran {
		// Help was requested and has been printed.
		return nil, true, nil
	}
	slog.Debug("Arguments parsed successfully.")

	paths := make([]string, 0, len(graphPaths)+len(positional))
	paths = append(append(paths, graphPaths...), positional...)
	if len(paths) == 0 {
		slog.Debug("No graph path provided, printing usage and exiting.")
		_ = cmd.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(app.Config{
		GraphPaths:      paths,
		FeedPath:        feedPath,
		Outputs:         outputs,
		LogFormat:       strings.ToLower(logFormat),
		LogLevel:        strings.ToLower(logLevel),
		HealthcheckPort: healthPort,
		Watch:           watch,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
