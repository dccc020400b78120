package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/miniflow/internal/config"
	"github.com/specialistvlad/miniflow/internal/ctxlog"
	"github.com/specialistvlad/miniflow/internal/graph"
	"github.com/specialistvlad/miniflow/internal/metrics"
	"github.com/specialistvlad/miniflow/internal/ops"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	ctx      context.Context
	config   *Config
	registry *ops.Registry
	loader   config.Loader
	graph    *graph.Graph
	outputs  []string

	promRegistry *prometheus.Registry
	metrics      *metrics.Metrics
	httpServer   *http.Server

	// plan is the most recently compiled evaluation order.
	plan *graph.Plan
}

// NewApp is the constructor for the main application. Results are written
// to outW and logs to logW. It loads and builds the graph, so a malformed
// graph file fails here rather than on the first pass.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...ops.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := ops.NewWith(modules...)
	logger.Debug("All operation modules registered.", "count", len(modules), "kinds", reg.Kinds())

	loader := newLoader()
	if cfg.FeedPath != "" {
		if err := loader.Exclude(cfg.FeedPath); err != nil {
			return nil, err
		}
	}
	model, err := loader.Load(ctx, cfg.GraphPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load graph: %w", err)
	}
	logger.Debug("Graph definition loaded into unified model.", "declarations", len(model.Nodes))

	promRegistry := prometheus.NewRegistry()
	m := metrics.New(promRegistry)

	g, err := graph.Build(ctx, model, reg, graph.WithObserver(m))
	if err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}

	outputs := cfg.Outputs
	if len(outputs) == 0 {
		outputs = model.Outputs
	}
	for _, name := range outputs {
		if _, ok := g.Lookup(name); !ok {
			return nil, fmt.Errorf("requested output '%s' does not name a node", name)
		}
	}

	logger.Info("Graph built.", "nodes", g.Len(), "outputs", outputs)
	return &App{
		outW:         outW,
		logger:       logger,
		ctx:          ctx,
		config:       cfg,
		registry:     reg,
		loader:       loader,
		graph:        g,
		outputs:      outputs,
		promRegistry: promRegistry,
		metrics:      m,
	}, nil
}

// Graph returns the application's graph. This is primarily for testing.
func (a *App) Graph() *graph.Graph {
	return a.graph
}

// Registry returns the application's operation registry.
func (a *App) Registry() *ops.Registry {
	return a.registry
}
