// Package k8s resolves pod spec attributes from the Kubernetes API:
// the container image and declared resource requests used to enrich
// utilization samples.
package k8s

import (
	"context"
	"fmt"
	"sync"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/utils/clock"

	"github.com/kubetrim/kube-trim/pkg/measurement"
)

// PodInfo describes the spec-level attributes of a pod.
type PodInfo struct {
	Image              string
	RequestedCPUMillis int64
	RequestedMemoryMiB int64
}

// Resolver looks up pod specs through the API server and caches results
// for a TTL. Pod specs are effectively immutable for a pod's lifetime, so
// a short TTL keeps API load constant while the collection loop runs every
// second.
type Resolver struct {
	client kubernetes.Interface
	ttl    time.Duration

	// Clock is swappable for tests. Nil means the real clock.
	Clock clock.PassiveClock

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	info    PodInfo
	expires time.Time
}

// NewResolver creates a Resolver with the given cache TTL.
func NewResolver(client kubernetes.Interface, ttl time.Duration) *Resolver {
	return &Resolver{
		client: client,
		ttl:    ttl,
		cache:  make(map[string]cacheEntry),
	}
}

func (r *Resolver) now() time.Time {
	if r.Clock != nil {
		return r.Clock.Now()
	}
	return time.Now()
}

// Resolve returns the pod's first container image and resource requests.
func (r *Resolver) Resolve(ctx context.Context, namespace, pod string) (PodInfo, error) {
	key := namespace + "/" + pod

	r.mu.Lock()
	entry, ok := r.cache[key]
	r.mu.Unlock()
	if ok && r.now().Before(entry.expires) {
		return entry.info, nil
	}

	p, err := r.client.CoreV1().Pods(namespace).Get(ctx, pod, metav1.GetOptions{})
	if err != nil {
		return PodInfo{}, fmt.Errorf("get pod %s: %w", key, err)
	}

	info := infoFromSpec(&p.Spec)

	r.mu.Lock()
	r.cache[key] = cacheEntry{info: info, expires: r.now().Add(r.ttl)}
	r.mu.Unlock()

	return info, nil
}

func infoFromSpec(spec *corev1.PodSpec) PodInfo {
	if len(spec.Containers) == 0 {
		return PodInfo{Image: measurement.UnknownImage}
	}

	c := spec.Containers[0]
	info := PodInfo{Image: c.Image}

	if cpu, ok := c.Resources.Requests[corev1.ResourceCPU]; ok {
		info.RequestedCPUMillis = cpu.MilliValue()
	}
	if mem, ok := c.Resources.Requests[corev1.ResourceMemory]; ok {
		info.RequestedMemoryMiB = mem.Value() / (1 << 20)
	}

	return info
}
