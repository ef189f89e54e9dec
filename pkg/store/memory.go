package store

import (
	"context"
	"sync"
	"time"

	"github.com/kubetrim/kube-trim/pkg/measurement"
)

// DefaultMaxSamples bounds each sample kind in the in-memory store. At the
// default 1s collection interval this retains a bit over an hour of node
// samples on a small cluster.
const DefaultMaxSamples = 100000

// Memory is a mutex-guarded in-memory Store. Appends beyond MaxSamples
// evict the oldest samples of the same kind.
type Memory struct {
	// MaxSamples bounds each sample kind. Zero means DefaultMaxSamples.
	MaxSamples int

	mu    sync.RWMutex
	nodes []measurement.NodeSample
	pods  []measurement.PodSample
}

// NewMemory creates an in-memory store with the default bound.
func NewMemory() *Memory {
	return &Memory{MaxSamples: DefaultMaxSamples}
}

func (m *Memory) limit() int {
	if m.MaxSamples > 0 {
		return m.MaxSamples
	}
	return DefaultMaxSamples
}

// AppendNodes implements Store.
func (m *Memory) AppendNodes(ctx context.Context, samples []measurement.NodeSample) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nodes = append(m.nodes, samples...)
	if over := len(m.nodes) - m.limit(); over > 0 {
		m.nodes = append(m.nodes[:0:0], m.nodes[over:]...)
	}

	storeSamples.WithLabelValues("memory", "node").Set(float64(len(m.nodes)))
	storeAppendTotal.WithLabelValues("memory", "node").Add(float64(len(samples)))
	return nil
}

// AppendPods implements Store.
func (m *Memory) AppendPods(ctx context.Context, samples []measurement.PodSample) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.pods = append(m.pods, samples...)
	if over := len(m.pods) - m.limit(); over > 0 {
		m.pods = append(m.pods[:0:0], m.pods[over:]...)
	}

	storeSamples.WithLabelValues("memory", "pod").Set(float64(len(m.pods)))
	storeAppendTotal.WithLabelValues("memory", "pod").Add(float64(len(samples)))
	return nil
}

// Nodes implements Store.
func (m *Memory) Nodes(ctx context.Context) ([]measurement.NodeSample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]measurement.NodeSample, len(m.nodes))
	copy(out, m.nodes)
	return out, nil
}

// Pods implements Store.
func (m *Memory) Pods(ctx context.Context) ([]measurement.PodSample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]measurement.PodSample, len(m.pods))
	copy(out, m.pods)
	return out, nil
}

// Prune implements Store.
func (m *Memory) Prune(ctx context.Context, cutoff time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	nodes := m.nodes[:0]
	for _, s := range m.nodes {
		if !s.Timestamp.Before(cutoff) {
			nodes = append(nodes, s)
		}
	}
	m.nodes = nodes

	pods := m.pods[:0]
	for _, s := range m.pods {
		if !s.Timestamp.Before(cutoff) {
			pods = append(pods, s)
		}
	}
	m.pods = pods

	storeSamples.WithLabelValues("memory", "node").Set(float64(len(m.nodes)))
	storeSamples.WithLabelValues("memory", "pod").Set(float64(len(m.pods)))
	return nil
}

// Close implements Store. The in-memory store has nothing to release.
func (m *Memory) Close() error {
	return nil
}
