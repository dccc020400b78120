package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/specialistvlad/miniflow/internal/graph"
	"github.com/specialistvlad/miniflow/internal/metrics"
	"github.com/specialistvlad/miniflow/modules/add"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const linearGraph = `
input "x" {}
input "W" {}
input "b" {}

node "linear" "hidden" {
  inputs = [x, W, b]
}

node "sigmoid" "out" {
  inputs = [hidden]
}
`

const linearFeed = `
x = [[1, 2]]
W = [[1], [1]]
b = [0]
`

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(Config{GraphPaths: []string{"g.hcl"}, FeedPath: "f.hcl"})
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)

	tests := []struct {
		name    string
		cfg     Config
		message string
	}{
		{name: "no graph", cfg: Config{FeedPath: "f.hcl"}, message: "GraphPaths is required"},
		{name: "no feed", cfg: Config{GraphPaths: []string{"g.hcl"}}, message: "FeedPath is required"},
		{name: "empty graph path", cfg: Config{GraphPaths: []string{""}, FeedPath: "f.hcl"}, message: "GraphPaths[0] is required"},
		{name: "log format", cfg: Config{GraphPaths: []string{"g"}, FeedPath: "f", LogFormat: "xml"}, message: "LogFormat must be one of [text json]"},
		{name: "log level", cfg: Config{GraphPaths: []string{"g"}, FeedPath: "f", LogLevel: "loud"}, message: "LogLevel must be one of"},
		{name: "port", cfg: Config{GraphPaths: []string{"g"}, FeedPath: "f", HealthcheckPort: 70000}, message: "HealthcheckPort failed 'lte'"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConfig(tc.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestRun_HCL(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{
		GraphPaths: []string{writeFile(t, dir, "graph.hcl", linearGraph)},
		FeedPath:   writeFile(t, dir, "feed.hcl", linearFeed),
		Outputs:    []string{"hidden", "out"},
	}
	a, out, logs := SetupAppTest(t, cfg)

	require.NoError(t, a.Run(context.Background()))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "hidden = [[3]]", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "out = [[0.952574126822"), lines[1])
	assert.Contains(t, logs.String(), "run_id=")
}

func TestRun_YAMLReportsTerminalNode(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{
		GraphPaths: []string{writeFile(t, dir, "graph.yaml", "inputs: [y, a]\nnodes:\n  - {name: cost, kind: mse, inputs: [y, a]}\n")},
		FeedPath:   writeFile(t, dir, "feed.yaml", "y: [1, 2, 3]\na: [1.5, 2, 2.5]\n"),
	}
	a, out, _ := SetupAppTest(t, cfg)

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "cost = 0.16666666666666666\n", out.String())
}

func TestRun_MixedFormatsFromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "inputs.yaml", "inputs: [a, b]\n")
	writeFile(t, dir, "sum.hcl", `
node "add" "sum" {
  inputs = [a, b]
}
outputs = [sum]
`)
	feed := writeFile(t, t.TempDir(), "feed.yaml", "a: 3\nb: 4\n")
	a, out, _ := SetupAppTest(t, &Config{GraphPaths: []string{dir}, FeedPath: feed})

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "sum = 7\n", out.String())
}

func TestRun_FeedInsideGraphDirectory(t *testing.T) {
	for _, feedName := range []string{"feed.yaml", "feed.hcl"} {
		t.Run(feedName, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "graph.hcl", `
input "a" {}
input "b" {}
node "add" "sum" { inputs = [a, b] }
`)
			content := "a: 3\nb: 4\n"
			if filepath.Ext(feedName) == ".hcl" {
				content = "a = 3\nb = 4\n"
			}
			feed := writeFile(t, dir, feedName, content)

			a, out, _ := SetupAppTest(t, &Config{GraphPaths: []string{dir}, FeedPath: feed})
			require.NoError(t, a.Run(context.Background()))
			assert.Equal(t, "sum = 7\n", out.String())
		})
	}
}

func TestPass_ReusesPlanAndRecompiles(t *testing.T) {
	dir := t.TempDir()
	graphPath := writeFile(t, dir, "graph.hcl", `
input "a" {}
input "b" {}
node "add" "sum" { inputs = [a, b] }
node "sigmoid" "sa" { inputs = [a] }
`)
	feedPath := writeFile(t, dir, "feed.hcl", "a = 3\nb = 4\n")
	a, out, logs := SetupAppTest(t, &Config{GraphPaths: []string{graphPath}, FeedPath: feedPath, Outputs: []string{"sum"}})
	ctx := context.Background()

	require.NoError(t, a.Pass(ctx))
	first := a.plan

	writeFile(t, dir, "feed.hcl", "a = 10\nb = 4\n")
	require.NoError(t, a.Pass(ctx))
	assert.Same(t, first, a.plan)
	assert.Contains(t, logs.String(), "Reusing cached evaluation order.")
	assert.Equal(t, "sum = 7\nsum = 14\n", out.String())

	// Dropping b makes sum unreachable and needs a new order.
	writeFile(t, dir, "feed.hcl", "a = 1\n")
	err := a.Pass(ctx)
	require.ErrorIs(t, err, graph.ErrInvalidSeed)
	assert.Equal(t, 1.0, testutil.ToFloat64(a.metrics.PassesTotal.WithLabelValues(metrics.StatusError)))
	assert.Equal(t, 2.0, testutil.ToFloat64(a.metrics.PassesTotal.WithLabelValues(metrics.StatusSuccess)))
}

func TestPass_FeedFailuresCountAsFailedPasses(t *testing.T) {
	dir := t.TempDir()
	graphPath := writeFile(t, dir, "graph.hcl", `
input "a" {}
node "sigmoid" "s" { inputs = [a] }
`)
	feedPath := writeFile(t, dir, "feed.hcl", "a = [\n")
	a, _, _ := SetupAppTest(t, &Config{GraphPaths: []string{graphPath}, FeedPath: feedPath})
	ctx := context.Background()

	assert.ErrorContains(t, a.Pass(ctx), "failed to load feed")
	assert.Equal(t, 1.0, testutil.ToFloat64(a.metrics.PassesTotal.WithLabelValues(metrics.StatusError)))

	writeFile(t, dir, "feed.hcl", "ghost = 1\n")
	assert.ErrorIs(t, a.Pass(ctx), graph.ErrInvalidSeed)
	assert.Equal(t, 2.0, testutil.ToFloat64(a.metrics.PassesTotal.WithLabelValues(metrics.StatusError)))
	assert.Equal(t, 0.0, testutil.ToFloat64(a.metrics.PassesTotal.WithLabelValues(metrics.StatusSuccess)))
}

func TestPass_UnreachableOutput(t *testing.T) {
	dir := t.TempDir()
	graphPath := writeFile(t, dir, "graph.hcl", `
input "a" {}
input "z" {}
node "sigmoid" "sa" { inputs = [a] }
node "sigmoid" "sz" { inputs = [z] }
`)
	feedPath := writeFile(t, dir, "feed.hcl", "a = 0\n")
	a, _, _ := SetupAppTest(t, &Config{GraphPaths: []string{graphPath}, FeedPath: feedPath, Outputs: []string{"sz"}})

	err := a.Pass(context.Background())
	assert.ErrorContains(t, err, "output 'sz' is not reachable")
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	cycle := writeFile(t, dir, "cycle.hcl", `
input "a" {}
node "add" "p" { inputs = [a, q] }
node "sigmoid" "q" { inputs = [p] }
`)
	unknownKind := writeFile(t, dir, "unknown.hcl", `
input "a" {}
node "softmax" "s" { inputs = [a] }
`)
	feed := writeFile(t, dir, "feed.hcl", "a = 1\n")

	a, _, _ := SetupAppTest(t, &Config{GraphPaths: []string{cycle}, FeedPath: feed})
	assert.ErrorIs(t, a.Run(context.Background()), graph.ErrCycleDetected)

	a, _, _ = SetupAppTest(t, &Config{GraphPaths: []string{unknownKind}, FeedPath: feed})
	assert.ErrorIs(t, a.Run(context.Background()), graph.ErrUnimplemented)
}

func TestNewApp_Errors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "graph.hcl", linearGraph)
	tests := []struct {
		name    string
		cfg     *Config
		message string
	}{
		{name: "missing graph", cfg: &Config{GraphPaths: []string{filepath.Join(dir, "nope.hcl")}}, message: "failed to load graph"},
		{name: "unsupported extension", cfg: &Config{GraphPaths: []string{writeFile(t, dir, "graph.txt", "")}}, message: "no loader registered for '.txt'"},
		{name: "bad reference", cfg: &Config{GraphPaths: []string{writeFile(t, dir, "bad.hcl", `node "add" "s" { inputs = [ghost] }`)}}, message: "unknown node 'ghost'"},
		{name: "unknown output", cfg: &Config{GraphPaths: []string{good}, Outputs: []string{"nope"}}, message: "requested output 'nope'"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewApp(&SafeBuffer{}, &SafeBuffer{}, tc.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestNewApp_CustomModules(t *testing.T) {
	dir := t.TempDir()
	graphPath := writeFile(t, dir, "graph.hcl", `
input "a" {}
node "linear" "l" { inputs = [a, a, a] }
`)
	a, _, _ := SetupAppTest(t, &Config{GraphPaths: []string{graphPath}, FeedPath: "unused"}, &add.Module{})
	assert.Equal(t, []string{"add"}, a.Registry().Kinds())

	// The linear kind is unknown to this app, so its arity is not checked.
	id, ok := a.Graph().Lookup("l")
	require.True(t, ok)
	assert.Len(t, a.Graph().Dependencies(id), 3)
}

func TestHandler(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{
		GraphPaths: []string{writeFile(t, dir, "graph.hcl", linearGraph)},
		FeedPath:   writeFile(t, dir, "feed.hcl", linearFeed),
	}
	a, _, _ := SetupAppTest(t, cfg)
	require.NoError(t, a.Pass(context.Background()))

	srv := httptest.NewServer(a.handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `miniflow_passes_total{status="success"} 1`)
	assert.Contains(t, string(body), `miniflow_node_forward_duration_seconds_count{kind="linear"} 1`)
}

func TestWatch_RerunsOnFeedChange(t *testing.T) {
	dir := t.TempDir()
	graphPath := writeFile(t, dir, "graph.hcl", `
input "a" {}
input "b" {}
node "add" "sum" { inputs = [a, b] }
`)
	feedPath := writeFile(t, dir, "feed.hcl", "a = 3\nb = 4\n")
	a, out, logs := SetupAppTest(t, &Config{GraphPaths: []string{graphPath}, FeedPath: feedPath, Watch: true})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "Watching feed for changes.")
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, "sum = 7\n", out.String())

	writeFile(t, dir, "feed.hcl", "a = 10\nb = 4\n")
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "sum = 14")
	}, 5*time.Second, 10*time.Millisecond)

	// A broken feed is logged and the loop keeps going.
	writeFile(t, dir, "feed.hcl", "a = [\n")
	require.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "failed to load feed")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
