// Package report computes per-image right-sizing recommendations and
// per-node utilization summaries from the samples retained by the store,
// and serves them over HTTP.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/distribution/reference"

	"github.com/kubetrim/kube-trim/pkg/measurement"
	"github.com/kubetrim/kube-trim/pkg/store"
)

// utilizationHeadroom is the target utilization of a right-sized workload.
// Recommendations divide observed usage by this factor so the workload runs
// at 90% of its allocation.
const utilizationHeadroom = 0.9

// Option is a functional option for configuring Builder instances.
type Option func(*Builder)

// WithVersion returns an Option that sets the Builder version string.
// The version is included in report metadata for tracking purposes.
func WithVersion(version string) Option {
	return func(b *Builder) {
		b.Version = version
	}
}

// WithStore returns an Option that sets the sample store the Builder
// aggregates over.
func WithStore(s store.Store) Option {
	return func(b *Builder) {
		b.Store = s
	}
}

// Builder aggregates retained pod samples into per-image reports.
type Builder struct {
	Version string
	Store   store.Store
}

// NewBuilder creates a new Builder instance with the provided functional options.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// imageAccumulator carries the running aggregation for one image.
type imageAccumulator struct {
	pods    map[string]struct{}
	samples int

	sumCPU int64
	maxCPU int64
	sumMem int64
	maxMem int64

	requestedCPU int64
	requestedMem int64
}

// nodeAccumulator carries the running aggregation for one node.
type nodeAccumulator struct {
	samples int

	sumCPU int64
	minCPU int64
	maxCPU int64
	sumMem int64
	minMem int64
	maxMem int64
}

// Build aggregates all retained samples into a Report. Pod samples are
// grouped by normalized image name (pods whose spec lookup failed group
// under the unknown image); node samples are summarized per node.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	if b.Store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}

	start := time.Now()
	defer func() {
		reportBuildDuration.Observe(time.Since(start).Seconds())
	}()

	pods, err := b.Store.Pods(ctx)
	if err != nil {
		reportBuildTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to load pod samples: %w", err)
	}

	nodes, err := b.Store.Nodes(ctx)
	if err != nil {
		reportBuildTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to load node samples: %w", err)
	}

	acc := make(map[string]*imageAccumulator)
	for i := range pods {
		sample := &pods[i]
		image := normalizeImage(sample.Image)

		a, ok := acc[image]
		if !ok {
			a = &imageAccumulator{pods: make(map[string]struct{})}
			acc[image] = a
		}

		a.pods[sample.Namespace+"/"+sample.Pod] = struct{}{}
		a.samples++
		a.sumCPU += sample.CPUMillis
		a.sumMem += sample.MemoryMiB
		if sample.CPUMillis > a.maxCPU {
			a.maxCPU = sample.CPUMillis
		}
		if sample.MemoryMiB > a.maxMem {
			a.maxMem = sample.MemoryMiB
		}

		// Samples are stored in insertion order; the last one wins so the
		// report reflects the current resource requests.
		a.requestedCPU = sample.RequestedCPUMillis
		a.requestedMem = sample.RequestedMemoryMiB
	}

	nodeAcc := make(map[string]*nodeAccumulator)
	for i := range nodes {
		sample := &nodes[i]

		a, ok := nodeAcc[sample.Node]
		if !ok {
			a = &nodeAccumulator{
				minCPU: sample.CPUMillis,
				minMem: sample.MemoryMiB,
			}
			nodeAcc[sample.Node] = a
		}

		a.samples++
		a.sumCPU += sample.CPUMillis
		a.sumMem += sample.MemoryMiB
		if sample.CPUMillis < a.minCPU {
			a.minCPU = sample.CPUMillis
		}
		if sample.CPUMillis > a.maxCPU {
			a.maxCPU = sample.CPUMillis
		}
		if sample.MemoryMiB < a.minMem {
			a.minMem = sample.MemoryMiB
		}
		if sample.MemoryMiB > a.maxMem {
			a.maxMem = sample.MemoryMiB
		}
	}

	rep := NewReport()
	rep.Set(Kind)
	rep.Metadata["report-version"] = b.Version
	rep.SampleCount = len(pods)
	rep.NodeSampleCount = len(nodes)
	rep.Images = make([]ImageReport, 0, len(acc))
	rep.Nodes = make([]NodeReport, 0, len(nodeAcc))

	for image, a := range acc {
		rep.Images = append(rep.Images, buildImageReport(image, a))
	}
	sort.Slice(rep.Images, func(i, j int) bool {
		return rep.Images[i].Image < rep.Images[j].Image
	})

	for node, a := range nodeAcc {
		rep.Nodes = append(rep.Nodes, buildNodeReport(node, a))
	}
	sort.Slice(rep.Nodes, func(i, j int) bool {
		return rep.Nodes[i].Node < rep.Nodes[j].Node
	})

	reportBuildTotal.WithLabelValues("success").Inc()
	reportImageCount.Set(float64(len(rep.Images)))

	return rep, nil
}

// buildImageReport derives the recommendation figures for one image. An
// image with zero observed usage gets the minimum recommendation of one
// unit so the over-provisioning ratios stay defined.
func buildImageReport(image string, a *imageAccumulator) ImageReport {
	r := ImageReport{
		Image:              image,
		Pods:               len(a.pods),
		Samples:            a.samples,
		MaxCPUMillis:       a.maxCPU,
		MaxMemoryMiB:       a.maxMem,
		RequestedCPUMillis: a.requestedCPU,
		RequestedMemoryMiB: a.requestedMem,
	}

	if a.samples > 0 {
		r.AvgCPUMillis = float64(a.sumCPU) / float64(a.samples)
		r.AvgMemoryMiB = float64(a.sumMem) / float64(a.samples)
	}

	r.RecommendedCPUMillis = 1
	if r.AvgCPUMillis > 0 {
		r.RecommendedCPUMillis = r.AvgCPUMillis / utilizationHeadroom
	}

	r.RecommendedMemoryMiB = 1
	if r.MaxMemoryMiB > 0 {
		r.RecommendedMemoryMiB = float64(r.MaxMemoryMiB) / utilizationHeadroom
	}

	r.CPUOverProvisionRatio = float64(r.MaxCPUMillis) / r.RecommendedCPUMillis
	r.MemoryOverProvisionRatio = float64(r.RequestedMemoryMiB) / r.RecommendedMemoryMiB

	return r
}

// buildNodeReport derives the utilization range for one node.
func buildNodeReport(node string, a *nodeAccumulator) NodeReport {
	r := NodeReport{
		Node:         node,
		Samples:      a.samples,
		MinCPUMillis: a.minCPU,
		MaxCPUMillis: a.maxCPU,
		MinMemoryMiB: a.minMem,
		MaxMemoryMiB: a.maxMem,
	}

	if a.samples > 0 {
		r.AvgCPUMillis = float64(a.sumCPU) / float64(a.samples)
		r.AvgMemoryMiB = float64(a.sumMem) / float64(a.samples)
	}

	return r
}

// normalizeImage canonicalizes image names so "nginx", "docker.io/nginx",
// and "docker.io/library/nginx:latest" aggregate together. Names that do
// not parse are kept verbatim.
func normalizeImage(image string) string {
	if image == "" || image == measurement.UnknownImage {
		return measurement.UnknownImage
	}

	named, err := reference.ParseNormalizedNamed(image)
	if err != nil {
		return image
	}

	return reference.FamiliarString(reference.TagNameOnly(named))
}
