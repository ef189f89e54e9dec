package snapshotter

import (
	"context"
	"log/slog"
	"time"

	"github.com/kubetrim/kube-trim/pkg/store"
)

// DefaultInterval is the collection loop period.
const DefaultInterval = time.Second

// DefaultRetention is how long samples are kept before pruning.
const DefaultRetention = 24 * time.Hour

// Runner drives the periodic collection loop: snapshot the cluster, append
// the samples to the store, prune expired samples. Collection errors are
// logged and the loop continues; only context cancellation stops it.
type Runner struct {
	Snapshotter Snapshotter
	Store       store.Store

	// Interval between collection passes. Zero means DefaultInterval.
	Interval time.Duration

	// Retention bounds sample age. Zero means DefaultRetention.
	Retention time.Duration
}

// Run blocks until ctx is canceled, then returns ctx.Err().
func (r *Runner) Run(ctx context.Context) error {
	interval := r.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	retention := r.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("collection loop started",
		"interval", interval.String(),
		"retention", retention.String(),
	)

	for {
		r.collectOnce(ctx, retention)

		select {
		case <-ctx.Done():
			slog.Info("collection loop stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *Runner) collectOnce(ctx context.Context, retention time.Duration) {
	snap, err := r.Snapshotter.Snapshot(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("collection pass failed", "error", err)
		}
		return
	}

	if err := r.Store.AppendNodes(ctx, snap.Nodes); err != nil {
		slog.Warn("failed to store node samples", "error", err)
	}
	if err := r.Store.AppendPods(ctx, snap.Pods); err != nil {
		slog.Warn("failed to store pod samples", "error", err)
	}

	if err := r.Store.Prune(ctx, time.Now().Add(-retention)); err != nil {
		slog.Warn("failed to prune store", "error", err)
	}
}
