// Package version parses release version strings such as "v1.31.2".
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// versionRe accepts an optional leading "v", three numeric fields, and an
// optional suffix after "-" or "+" (e.g. "v1.33.5-eks-3025e55").
var versionRe = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)(?:[-+].*)?$`)

// Version is a parsed release version.
type Version struct {
	Major int
	Minor int
	Patch int

	// Raw preserves the original string, including any vendor suffix.
	Raw string
}

// ParseVersion parses s into a Version.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	m := versionRe.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("invalid version %q", s)
	}

	major, err := strconv.Atoi(m[1])
	if err != nil {
		return Version{}, fmt.Errorf("invalid major in %q: %w", s, err)
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return Version{}, fmt.Errorf("invalid minor in %q: %w", s, err)
	}
	patch, err := strconv.Atoi(m[3])
	if err != nil {
		return Version{}, fmt.Errorf("invalid patch in %q: %w", s, err)
	}

	return Version{Major: major, Minor: minor, Patch: patch, Raw: s}, nil
}

// String returns the canonical "vMAJOR.MINOR.PATCH" form.
func (v Version) String() string {
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0, or 1 depending on whether v is less than, equal
// to, or greater than o. Vendor suffixes are ignored.
func (v Version) Compare(o Version) int {
	for _, d := range [...]int{v.Major - o.Major, v.Minor - o.Minor, v.Patch - o.Patch} {
		switch {
		case d < 0:
			return -1
		case d > 0:
			return 1
		}
	}
	return 0
}
