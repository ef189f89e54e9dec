package report

import (
	"github.com/kubetrim/kube-trim/pkg/header"
)

// Report summarizes the retained utilization samples: per-image
// right-sizing recommendations and per-node utilization ranges.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	// SampleCount is the number of pod samples the report was built from.
	SampleCount int `json:"sampleCount" yaml:"sampleCount"`

	// NodeSampleCount is the number of node samples the report was built from.
	NodeSampleCount int `json:"nodeSampleCount" yaml:"nodeSampleCount"`

	Images []ImageReport `json:"images" yaml:"images"`
	Nodes  []NodeReport  `json:"nodes" yaml:"nodes"`
}

// ImageReport aggregates the observed utilization of all pods running a
// given image and derives sizing recommendations from it.
type ImageReport struct {
	Image string `json:"image" yaml:"image"`

	// Pods is the number of distinct pods observed for this image.
	Pods int `json:"pods" yaml:"pods"`

	// Samples is the number of utilization readings aggregated.
	Samples int `json:"samples" yaml:"samples"`

	AvgCPUMillis float64 `json:"avgCpuMillis" yaml:"avgCpuMillis"`
	MaxCPUMillis int64   `json:"maxCpuMillis" yaml:"maxCpuMillis"`
	AvgMemoryMiB float64 `json:"avgMemoryMiB" yaml:"avgMemoryMiB"`
	MaxMemoryMiB int64   `json:"maxMemoryMiB" yaml:"maxMemoryMiB"`

	// RequestedCPUMillis and RequestedMemoryMiB are the declared resource
	// requests, taken from the most recent sample for the image.
	RequestedCPUMillis int64 `json:"requestedCpuMillis" yaml:"requestedCpuMillis"`
	RequestedMemoryMiB int64 `json:"requestedMemoryMiB" yaml:"requestedMemoryMiB"`

	// RecommendedCPUMillis is the average usage with headroom applied.
	RecommendedCPUMillis float64 `json:"recommendedCpuMillis" yaml:"recommendedCpuMillis"`

	// RecommendedMemoryMiB is the peak usage with headroom applied.
	RecommendedMemoryMiB float64 `json:"recommendedMemoryMiB" yaml:"recommendedMemoryMiB"`

	// CPUOverProvisionRatio is peak usage relative to the CPU
	// recommendation; MemoryOverProvisionRatio is the declared memory
	// request relative to the memory recommendation. A ratio well above 1
	// means the workload is over-provisioned.
	CPUOverProvisionRatio    float64 `json:"cpuOverProvisionRatio" yaml:"cpuOverProvisionRatio"`
	MemoryOverProvisionRatio float64 `json:"memoryOverProvisionRatio" yaml:"memoryOverProvisionRatio"`
}

// NodeReport summarizes the observed utilization range of one node.
type NodeReport struct {
	Node string `json:"node" yaml:"node"`

	// Samples is the number of utilization readings aggregated.
	Samples int `json:"samples" yaml:"samples"`

	MinCPUMillis int64   `json:"minCpuMillis" yaml:"minCpuMillis"`
	MaxCPUMillis int64   `json:"maxCpuMillis" yaml:"maxCpuMillis"`
	AvgCPUMillis float64 `json:"avgCpuMillis" yaml:"avgCpuMillis"`

	MinMemoryMiB int64   `json:"minMemoryMiB" yaml:"minMemoryMiB"`
	MaxMemoryMiB int64   `json:"maxMemoryMiB" yaml:"maxMemoryMiB"`
	AvgMemoryMiB float64 `json:"avgMemoryMiB" yaml:"avgMemoryMiB"`
}

// NewReport creates an empty report with an initialized header.
func NewReport() *Report {
	return &Report{Header: *header.New()}
}
