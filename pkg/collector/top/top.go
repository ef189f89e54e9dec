// Package top collects node and pod utilization by invoking kubectl top
// and parsing its tabular output.
package top

import (
	"context"
	"fmt"
	"time"

	"k8s.io/utils/exec"

	"github.com/kubetrim/kube-trim/pkg/measurement"
)

// DefaultKubectl is the binary invoked when no explicit path is configured.
const DefaultKubectl = "kubectl"

// DefaultTimeout bounds a single kubectl invocation.
const DefaultTimeout = 30 * time.Second

// Collector runs kubectl top and parses the output into samples.
type Collector struct {
	// Kubectl is the kubectl binary path. Empty means DefaultKubectl
	// resolved via PATH.
	Kubectl string

	// Execer runs external commands. Nil means the real implementation.
	Execer exec.Interface

	// Timeout bounds each invocation. Zero means DefaultTimeout.
	Timeout time.Duration
}

// CollectNodes runs kubectl top nodes and returns one sample per node,
// stamped with the collection time.
func (c *Collector) CollectNodes(ctx context.Context) ([]measurement.NodeSample, error) {
	out, err := c.run(ctx, "top", "nodes")
	if err != nil {
		return nil, fmt.Errorf("kubectl top nodes: %w", err)
	}
	return parseNodeTop(out, time.Now().UTC()), nil
}

// CollectPods runs kubectl top pods across all namespaces and returns one
// sample per pod. Samples carry no image or request data; enrichment
// happens in the snapshotter via the pod info resolver.
func (c *Collector) CollectPods(ctx context.Context) ([]measurement.PodSample, error) {
	out, err := c.run(ctx, "top", "pods", "--all-namespaces")
	if err != nil {
		return nil, fmt.Errorf("kubectl top pods: %w", err)
	}
	return parsePodTop(out, time.Now().UTC()), nil
}

func (c *Collector) run(ctx context.Context, args ...string) ([]byte, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	execer := c.Execer
	if execer == nil {
		execer = exec.New()
	}
	kubectl := c.Kubectl
	if kubectl == "" {
		kubectl = DefaultKubectl
	}

	out, err := execer.CommandContext(ctx, kubectl, args...).Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return out, nil
}
