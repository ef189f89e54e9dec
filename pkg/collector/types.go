// Package collector defines the interfaces for gathering node and pod
// utilization data. Implementations shell out to kubectl (top) or query
// the Kubernetes API (pod spec enrichment).
package collector

import (
	"context"

	k8scollector "github.com/kubetrim/kube-trim/pkg/collector/k8s"
	"github.com/kubetrim/kube-trim/pkg/measurement"
)

// NodeCollector gathers per-node utilization samples.
// All collectors must support context-based cancellation.
type NodeCollector interface {
	CollectNodes(ctx context.Context) ([]measurement.NodeSample, error)
}

// PodCollector gathers per-pod utilization samples across all namespaces.
type PodCollector interface {
	CollectPods(ctx context.Context) ([]measurement.PodSample, error)
}

// PodInfoResolver looks up pod spec attributes (image, resource requests)
// for a namespace/pod pair.
type PodInfoResolver interface {
	Resolve(ctx context.Context, namespace, pod string) (k8scollector.PodInfo, error)
}
