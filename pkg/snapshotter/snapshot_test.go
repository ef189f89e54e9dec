package snapshotter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kubetrim/kube-trim/pkg/collector"
	k8scollector "github.com/kubetrim/kube-trim/pkg/collector/k8s"
	"github.com/kubetrim/kube-trim/pkg/measurement"
	"github.com/kubetrim/kube-trim/pkg/store"
)

type stubNodeCollector struct {
	samples []measurement.NodeSample
	err     error
}

func (s *stubNodeCollector) CollectNodes(context.Context) ([]measurement.NodeSample, error) {
	return s.samples, s.err
}

type stubPodCollector struct {
	samples []measurement.PodSample
	err     error
}

func (s *stubPodCollector) CollectPods(context.Context) ([]measurement.PodSample, error) {
	return s.samples, s.err
}

type stubResolver struct {
	infos map[string]k8scollector.PodInfo
}

func (s *stubResolver) Resolve(_ context.Context, namespace, pod string) (k8scollector.PodInfo, error) {
	info, ok := s.infos[namespace+"/"+pod]
	if !ok {
		return k8scollector.PodInfo{}, errors.New("not found")
	}
	return info, nil
}

type stubFactory struct {
	nodes    *stubNodeCollector
	pods     *stubPodCollector
	resolver *stubResolver
}

func (f *stubFactory) CreateNodeCollector() collector.NodeCollector     { return f.nodes }
func (f *stubFactory) CreatePodCollector() collector.PodCollector       { return f.pods }
func (f *stubFactory) CreatePodInfoResolver() collector.PodInfoResolver { return f.resolver }

func testFactory() *stubFactory {
	return &stubFactory{
		nodes: &stubNodeCollector{
			samples: []measurement.NodeSample{
				{Node: "node-a", CPUMillis: 250, MemoryMiB: 1379},
			},
		},
		pods: &stubPodCollector{
			samples: []measurement.PodSample{
				{Namespace: "default", Pod: "web-0", CPUMillis: 120, MemoryMiB: 256},
				{Namespace: "kube-system", Pod: "coredns-0", CPUMillis: 3, MemoryMiB: 17},
			},
		},
		resolver: &stubResolver{
			infos: map[string]k8scollector.PodInfo{
				"default/web-0": {
					Image:              "registry.example.com/web:v2",
					RequestedCPUMillis: 100,
					RequestedMemoryMiB: 128,
				},
			},
		},
	}
}

func TestSnapshot(t *testing.T) {
	s := &ClusterSnapshotter{
		Version: "test",
		Factory: testFactory(),
	}

	snap, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	if snap.Kind != Kind {
		t.Errorf("Kind = %q, want %q", snap.Kind, Kind)
	}
	if snap.Metadata["snapshot-version"] != "test" {
		t.Errorf("snapshot-version = %q", snap.Metadata["snapshot-version"])
	}

	if len(snap.Nodes) != 1 || snap.Nodes[0].Node != "node-a" {
		t.Errorf("unexpected nodes: %+v", snap.Nodes)
	}
	if len(snap.Pods) != 2 {
		t.Fatalf("got %d pods, want 2", len(snap.Pods))
	}

	web := snap.Pods[0]
	if web.Image != "registry.example.com/web:v2" || web.RequestedMemoryMiB != 128 {
		t.Errorf("enrichment missing: %+v", web)
	}

	// coredns has no resolver entry; it degrades to the unknown image.
	if snap.Pods[1].Image != measurement.UnknownImage {
		t.Errorf("expected unknown image, got %q", snap.Pods[1].Image)
	}
}

func TestSnapshotExcludesNamespaces(t *testing.T) {
	s := &ClusterSnapshotter{
		Factory:           testFactory(),
		ExcludeNamespaces: []string{"kube-*"},
	}

	snap, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	if len(snap.Pods) != 1 || snap.Pods[0].Namespace != "default" {
		t.Errorf("unexpected pods after filtering: %+v", snap.Pods)
	}
}

func TestSnapshotCollectorFailure(t *testing.T) {
	f := testFactory()
	f.pods.err = errors.New("metrics API not available")

	s := &ClusterSnapshotter{Factory: f}

	if _, err := s.Snapshot(context.Background()); err == nil {
		t.Fatal("expected error when a collector fails")
	}
}

func TestRunnerAppendsToStore(t *testing.T) {
	mem := store.NewMemory()
	r := &Runner{
		Snapshotter: &ClusterSnapshotter{Factory: testFactory()},
		Store:       mem,
		Interval:    10 * time.Millisecond,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := r.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run returned %v, want deadline exceeded", err)
	}

	nodes, err := mem.Nodes(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) == 0 {
		t.Error("expected node samples in store after loop ran")
	}

	pods, err := mem.Pods(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(pods) == 0 {
		t.Error("expected pod samples in store after loop ran")
	}
}
