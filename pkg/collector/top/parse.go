package top

import (
	"log/slog"
	"strings"
	"time"

	"github.com/kubetrim/kube-trim/pkg/measurement"
)

// parseNodeTop parses kubectl top nodes output:
//
//	NAME      CPU(cores)  CPU(%)  MEMORY(bytes)  MEMORY(%)
//	node-a    250m        12%     1379Mi         36%
//
// Lines that cannot be parsed (e.g. <unknown> readings from a node whose
// metrics are unavailable) are skipped with a warning.
func parseNodeTop(output []byte, ts time.Time) []measurement.NodeSample {
	var samples []measurement.NodeSample

	for _, line := range dataLines(output) {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}

		cpu, err := measurement.ParseCPUMillis(fields[1])
		if err != nil {
			slog.Warn("skipping unparsable node reading", "node", fields[0], "error", err)
			continue
		}
		mem, err := measurement.ParseMemoryMiB(fields[3])
		if err != nil {
			slog.Warn("skipping unparsable node reading", "node", fields[0], "error", err)
			continue
		}

		samples = append(samples, measurement.NodeSample{
			Timestamp: ts,
			Node:      fields[0],
			CPUMillis: cpu,
			MemoryMiB: mem,
		})
	}

	return samples
}

// parsePodTop parses kubectl top pods --all-namespaces output:
//
//	NAMESPACE    NAME          CPU(cores)  MEMORY(bytes)
//	kube-system  coredns-abcd  3m          17Mi
func parsePodTop(output []byte, ts time.Time) []measurement.PodSample {
	var samples []measurement.PodSample

	for _, line := range dataLines(output) {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}

		cpu, err := measurement.ParseCPUMillis(fields[2])
		if err != nil {
			slog.Warn("skipping unparsable pod reading",
				"namespace", fields[0], "pod", fields[1], "error", err)
			continue
		}
		mem, err := measurement.ParseMemoryMiB(fields[3])
		if err != nil {
			slog.Warn("skipping unparsable pod reading",
				"namespace", fields[0], "pod", fields[1], "error", err)
			continue
		}

		samples = append(samples, measurement.PodSample{
			Timestamp: ts,
			Namespace: fields[0],
			Pod:       fields[1],
			CPUMillis: cpu,
			MemoryMiB: mem,
		})
	}

	return samples
}

// dataLines splits output into lines with the header row removed.
func dataLines(output []byte) []string {
	trimmed := strings.TrimSpace(string(output))
	if trimmed == "" {
		return nil
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "NAME") {
		lines = lines[1:]
	} else if len(lines) > 0 && strings.HasPrefix(lines[0], "NAMESPACE") {
		lines = lines[1:]
	}
	return lines
}
