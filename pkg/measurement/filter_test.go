package measurement

import "testing"

func TestFilterPods(t *testing.T) {
	samples := []PodSample{
		{Namespace: "kube-system", Pod: "coredns-abc"},
		{Namespace: "kube-public", Pod: "info"},
		{Namespace: "default", Pod: "web"},
		{Namespace: "monitoring", Pod: "prometheus-0"},
		{Namespace: "team-a", Pod: "api"},
	}

	tests := []struct {
		name    string
		exclude []string
		want    []string // expected pod names in order
	}{
		{
			name:    "no patterns keeps all",
			exclude: nil,
			want:    []string{"coredns-abc", "info", "web", "prometheus-0", "api"},
		},
		{
			name:    "exact match",
			exclude: []string{"default"},
			want:    []string{"coredns-abc", "info", "prometheus-0", "api"},
		},
		{
			name:    "prefix wildcard",
			exclude: []string{"kube-*"},
			want:    []string{"web", "prometheus-0", "api"},
		},
		{
			name:    "suffix wildcard",
			exclude: []string{"*-a"},
			want:    []string{"coredns-abc", "info", "web", "prometheus-0"},
		},
		{
			name:    "contains wildcard",
			exclude: []string{"*onitor*"},
			want:    []string{"coredns-abc", "info", "web", "api"},
		},
		{
			name:    "multiple patterns",
			exclude: []string{"kube-*", "monitoring"},
			want:    []string{"web", "api"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterPods(samples, tt.exclude)
			if len(got) != len(tt.want) {
				t.Fatalf("FilterPods() returned %d samples, want %d", len(got), len(tt.want))
			}
			for i, s := range got {
				if s.Pod != tt.want[i] {
					t.Errorf("sample %d = %q, want %q", i, s.Pod, tt.want[i])
				}
			}
		})
	}
}
