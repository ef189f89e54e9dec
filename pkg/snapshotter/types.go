package snapshotter

import (
	"context"

	"github.com/kubetrim/kube-trim/pkg/header"
	"github.com/kubetrim/kube-trim/pkg/measurement"
)

// Snapshot is one collection pass over the cluster: node and pod
// utilization samples taken at (approximately) the same instant.
type Snapshot struct {
	header.Header `json:",inline" yaml:",inline"`

	Nodes []measurement.NodeSample `json:"nodes" yaml:"nodes"`
	Pods  []measurement.PodSample  `json:"pods" yaml:"pods"`
}

// NewSnapshot creates an empty snapshot with an initialized header.
func NewSnapshot() *Snapshot {
	return &Snapshot{Header: *header.New()}
}

// Snapshotter produces cluster utilization snapshots.
type Snapshotter interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}
