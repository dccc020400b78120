package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/miniflow/internal/ctxlog"
	"github.com/specialistvlad/miniflow/internal/graph"
)

// Run evaluates the graph against the configured feed and reports the
// outputs. In watch mode it then keeps re-evaluating on feed changes until
// ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")

	a.healthCheckServer()
	defer func() {
		if err := a.closeHealthCheckServer(); err != nil {
			a.logger.Warn("Health check server did not close cleanly.", "error", err)
		}
	}()

	if err := a.Pass(ctx); err != nil {
		if !a.config.Watch {
			return err
		}
		// A bad feed is expected while editing; keep watching.
		a.logger.Error("Forward pass failed.", "error", err)
	}

	if a.config.Watch {
		return a.Watch(ctx)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// Pass loads the feed, evaluates the graph once and writes the outputs.
func (a *App) Pass(ctx context.Context) error {
	ctx = ctxlog.With(ctx, "run_id", uuid.NewString())
	logger := ctxlog.FromContext(ctx)

	start := time.Now()
	named, err := a.loader.LoadFeed(ctx, a.config.FeedPath)
	if err != nil {
		a.metrics.ObservePass(time.Since(start), err)
		return fmt.Errorf("failed to load feed: %w", err)
	}
	feed, err := a.graph.ResolveFeed(named)
	if err != nil {
		a.metrics.ObservePass(time.Since(start), err)
		return err
	}

	err = a.evaluate(ctx, feed)
	elapsed := time.Since(start)
	a.metrics.ObservePass(elapsed, err)
	if err != nil {
		return fmt.Errorf("forward pass failed: %w", err)
	}
	logger.Info("Forward pass finished.", "nodes", len(a.plan.Order()), "duration", elapsed)

	return a.report()
}

// evaluate reuses the cached Plan when feed seeds the same inputs and
// compiles a new one otherwise.
func (a *App) evaluate(ctx context.Context, feed graph.Feed) error {
	logger := ctxlog.FromContext(ctx)
	if a.plan != nil && a.plan.Covers(feed) {
		logger.Debug("Reusing cached evaluation order.")
		return a.plan.Run(ctx, feed)
	}

	plan, err := a.graph.Compile(ctx, feed)
	if err != nil {
		return err
	}
	a.plan = plan
	logger.Debug("Evaluation order compiled.", "order", len(plan.Order()))
	return a.graph.ForwardPass(ctx, plan.Order())
}

// report writes `name = value` for each output. Without configured outputs
// the terminal node of the order is reported.
func (a *App) report() error {
	order := a.plan.Order()
	evaluated := make(map[graph.NodeID]bool, len(order))
	for _, id := range order {
		evaluated[id] = true
	}

	var ids []graph.NodeID
	for _, name := range a.outputs {
		id, _ := a.graph.Lookup(name)
		if !evaluated[id] {
			return fmt.Errorf("output '%s' is not reachable from the fed inputs", name)
		}
		ids = append(ids, id)
	}
	if len(a.outputs) == 0 {
		id, ok := a.plan.Terminal()
		if !ok {
			a.logger.Warn("Feed is empty; nothing was evaluated.")
			return nil
		}
		ids = append(ids, id)
	}

	for _, id := range ids {
		v, _ := a.graph.Value(id)
		if _, err := fmt.Fprintf(a.outW, "%s = %s\n", a.graph.Name(id), v); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
