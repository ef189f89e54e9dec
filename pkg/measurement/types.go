// Package measurement defines the sample types produced by the collectors
// and the unit conversions for kubectl top output.
package measurement

import "time"

// NodeSample is a single node utilization reading.
type NodeSample struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Node      string    `json:"node" yaml:"node"`

	// CPUMillis is the observed CPU usage in millicores.
	CPUMillis int64 `json:"cpuMillis" yaml:"cpuMillis"`

	// MemoryMiB is the observed memory usage in mebibytes.
	MemoryMiB int64 `json:"memoryMiB" yaml:"memoryMiB"`
}

// PodSample is a single pod utilization reading, enriched with the pod's
// container image and declared resource requests.
type PodSample struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Namespace string    `json:"namespace" yaml:"namespace"`
	Pod       string    `json:"pod" yaml:"pod"`

	CPUMillis int64 `json:"cpuMillis" yaml:"cpuMillis"`
	MemoryMiB int64 `json:"memoryMiB" yaml:"memoryMiB"`

	// Image is the image of the pod's first container, or "unknown" when
	// the pod spec could not be resolved.
	Image string `json:"image" yaml:"image"`

	// RequestedCPUMillis and RequestedMemoryMiB are the resource requests
	// declared by the pod's first container. Zero when unset.
	RequestedCPUMillis int64 `json:"requestedCpuMillis" yaml:"requestedCpuMillis"`
	RequestedMemoryMiB int64 `json:"requestedMemoryMiB" yaml:"requestedMemoryMiB"`
}

// UnknownImage is the placeholder image name for pods whose spec lookup failed.
const UnknownImage = "unknown"
