package top

import (
	"testing"
	"time"
)

var ts = time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

func TestParseNodeTop(t *testing.T) {
	output := []byte(`NAME       CPU(cores)   CPU(%)   MEMORY(bytes)   MEMORY(%)
node-a     250m         12%      1379Mi          36%
node-b     2            50%      2Gi             52%
`)

	samples := parseNodeTop(output, ts)
	if len(samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(samples))
	}

	if samples[0].Node != "node-a" || samples[0].CPUMillis != 250 || samples[0].MemoryMiB != 1379 {
		t.Errorf("unexpected sample: %+v", samples[0])
	}
	if samples[1].Node != "node-b" || samples[1].CPUMillis != 2000 || samples[1].MemoryMiB != 2048 {
		t.Errorf("unexpected sample: %+v", samples[1])
	}
	if !samples[0].Timestamp.Equal(ts) {
		t.Errorf("timestamp = %v, want %v", samples[0].Timestamp, ts)
	}
}

func TestParseNodeTopSkipsUnknownReadings(t *testing.T) {
	output := []byte(`NAME       CPU(cores)   CPU(%)      MEMORY(bytes)   MEMORY(%)
node-a     250m         12%         1379Mi          36%
node-b     <unknown>    <unknown>   <unknown>       <unknown>
`)

	samples := parseNodeTop(output, ts)
	if len(samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(samples))
	}
	if samples[0].Node != "node-a" {
		t.Errorf("unexpected sample: %+v", samples[0])
	}
}

func TestParseNodeTopEmptyOutput(t *testing.T) {
	if samples := parseNodeTop(nil, ts); samples != nil {
		t.Errorf("expected nil samples, got %+v", samples)
	}
	if samples := parseNodeTop([]byte("\n"), ts); samples != nil {
		t.Errorf("expected nil samples, got %+v", samples)
	}
}

func TestParsePodTop(t *testing.T) {
	output := []byte(`NAMESPACE     NAME                        CPU(cores)   MEMORY(bytes)
kube-system   coredns-5d78c9869d-xv6x2    3m           17Mi
kube-system   etcd-control-plane          25m          45Mi
default       web-0                       120m         256Mi
`)

	samples := parsePodTop(output, ts)
	if len(samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(samples))
	}

	first := samples[0]
	if first.Namespace != "kube-system" || first.Pod != "coredns-5d78c9869d-xv6x2" {
		t.Errorf("unexpected sample: %+v", first)
	}
	if first.CPUMillis != 3 || first.MemoryMiB != 17 {
		t.Errorf("unexpected readings: %+v", first)
	}

	last := samples[2]
	if last.Namespace != "default" || last.CPUMillis != 120 || last.MemoryMiB != 256 {
		t.Errorf("unexpected sample: %+v", last)
	}
}

func TestParsePodTopSkipsShortLines(t *testing.T) {
	output := []byte(`NAMESPACE     NAME     CPU(cores)   MEMORY(bytes)
default       web-0    120m         256Mi
garbage line
`)

	samples := parsePodTop(output, ts)
	if len(samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(samples))
	}
}
