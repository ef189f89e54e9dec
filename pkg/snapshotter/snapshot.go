package snapshotter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kubetrim/kube-trim/pkg/collector"
	k8scollector "github.com/kubetrim/kube-trim/pkg/collector/k8s"
	"github.com/kubetrim/kube-trim/pkg/measurement"
)

// ClusterSnapshotter collects node and pod utilization from the cluster.
// It runs the two top collectors in parallel, then enriches pod samples
// with spec data through the pod info resolver.
type ClusterSnapshotter struct {
	// Version is the kube-trim version recorded in snapshot metadata.
	Version string

	// Factory creates the collectors. Must be set.
	Factory collector.Factory

	// ExcludeNamespaces drops pod samples from matching namespaces.
	// Supports the wildcard patterns of measurement.FilterPods.
	ExcludeNamespaces []string
}

// Snapshot implements Snapshotter. A failure of either top collector fails
// the whole pass; enrichment failures degrade the affected samples to the
// unknown image instead.
func (s *ClusterSnapshotter) Snapshot(ctx context.Context) (*Snapshot, error) {
	slog.Debug("starting cluster snapshot")

	start := time.Now()
	defer func() {
		snapshotCollectionDuration.Observe(time.Since(start).Seconds())
	}()

	snap := NewSnapshot()
	snap.Set(Kind)
	snap.Metadata["snapshot-version"] = s.Version
	snap.Metadata["source-node"] = k8scollector.GetNodeName()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		collectorStart := time.Now()
		defer func() {
			snapshotCollectorDuration.WithLabelValues("node").Observe(time.Since(collectorStart).Seconds())
		}()
		nodes, err := s.Factory.CreateNodeCollector().CollectNodes(gctx)
		if err != nil {
			slog.Error("failed to collect node utilization", slog.String("error", err.Error()))
			return fmt.Errorf("failed to collect node utilization: %w", err)
		}
		snap.Nodes = nodes
		return nil
	})

	g.Go(func() error {
		collectorStart := time.Now()
		defer func() {
			snapshotCollectorDuration.WithLabelValues("pod").Observe(time.Since(collectorStart).Seconds())
		}()
		pods, err := s.Factory.CreatePodCollector().CollectPods(gctx)
		if err != nil {
			slog.Error("failed to collect pod utilization", slog.String("error", err.Error()))
			return fmt.Errorf("failed to collect pod utilization: %w", err)
		}
		snap.Pods = pods
		return nil
	})

	if err := g.Wait(); err != nil {
		snapshotCollectionTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	snap.Pods = measurement.FilterPods(snap.Pods, s.ExcludeNamespaces)
	s.enrichPods(ctx, snap.Pods)

	snapshotCollectionTotal.WithLabelValues("success").Inc()
	snapshotSampleCount.WithLabelValues("node").Set(float64(len(snap.Nodes)))
	snapshotSampleCount.WithLabelValues("pod").Set(float64(len(snap.Pods)))

	slog.Debug("snapshot collection complete",
		slog.Int("nodes", len(snap.Nodes)),
		slog.Int("pods", len(snap.Pods)),
	)

	return snap, nil
}

// enrichPods fills in image and resource request data for each pod sample.
// Lookup failures leave the sample with the unknown image; the collection
// pass still succeeds.
func (s *ClusterSnapshotter) enrichPods(ctx context.Context, pods []measurement.PodSample) {
	if len(pods) == 0 {
		return
	}

	resolver := s.Factory.CreatePodInfoResolver()

	for i := range pods {
		info, err := resolver.Resolve(ctx, pods[i].Namespace, pods[i].Pod)
		if err != nil {
			enrichFailureTotal.Inc()
			slog.Debug("pod spec lookup failed",
				"namespace", pods[i].Namespace,
				"pod", pods[i].Pod,
				"error", err,
			)
			pods[i].Image = measurement.UnknownImage
			continue
		}

		pods[i].Image = info.Image
		pods[i].RequestedCPUMillis = info.RequestedCPUMillis
		pods[i].RequestedMemoryMiB = info.RequestedMemoryMiB
	}
}
