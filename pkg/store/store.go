// Package store retains collected utilization samples. Two backends are
// provided: a bounded in-memory store and a SQLite-backed store that
// persists samples across restarts.
package store

import (
	"context"
	"time"

	"github.com/kubetrim/kube-trim/pkg/measurement"
)

// Store is the sample retention interface used by the collection loop and
// the report builder.
type Store interface {
	// AppendNodes adds node samples to the store.
	AppendNodes(ctx context.Context, samples []measurement.NodeSample) error

	// AppendPods adds pod samples to the store.
	AppendPods(ctx context.Context, samples []measurement.PodSample) error

	// Nodes returns all retained node samples in insertion order.
	Nodes(ctx context.Context) ([]measurement.NodeSample, error)

	// Pods returns all retained pod samples in insertion order.
	Pods(ctx context.Context) ([]measurement.PodSample, error)

	// Prune drops samples older than the cutoff.
	Prune(ctx context.Context, cutoff time.Time) error

	// Close releases any resources held by the store.
	Close() error
}
