package measurement

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/api/resource"
)

// ParseCPUMillis converts a kubectl top CPU column value (e.g. "250m", "2")
// into millicores.
func ParseCPUMillis(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty cpu value")
	}

	q, err := resource.ParseQuantity(s)
	if err != nil {
		return 0, fmt.Errorf("invalid cpu value %q: %w", s, err)
	}
	if q.Sign() < 0 {
		return 0, fmt.Errorf("negative cpu value %q", s)
	}

	return q.MilliValue(), nil
}

// ParseMemoryMiB converts a kubectl top memory column value (e.g. "1379Mi",
// "2Gi", "512Ki") into whole mebibytes. Values below 1Mi truncate to zero.
func ParseMemoryMiB(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty memory value")
	}

	q, err := resource.ParseQuantity(s)
	if err != nil {
		return 0, fmt.Errorf("invalid memory value %q: %w", s, err)
	}
	if q.Sign() < 0 {
		return 0, fmt.Errorf("negative memory value %q", s)
	}

	return q.Value() / (1 << 20), nil
}
