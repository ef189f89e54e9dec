// Package serializer handles output formatting for kube-trim documents:
// JSON, YAML, and a flattened table view, written to stdout or files.
package serializer

import (
	"path/filepath"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Format is an output format identifier.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// StdoutURI is the special path indicating output should go to stdout.
const StdoutURI = "-"

// supportedFormats lists the valid formats for suggestion lookups.
var supportedFormats = []Format{FormatJSON, FormatYAML, FormatTable}

// IsUnknown reports whether f is not one of the supported formats.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	}
	return true
}

func (f Format) String() string {
	return string(f)
}

// SupportedFormats returns the supported format names.
func SupportedFormats() []string {
	out := make([]string, 0, len(supportedFormats))
	for _, f := range supportedFormats {
		out = append(out, f.String())
	}
	return out
}

// Suggest returns the supported format closest to s by edit distance, or
// an empty string when nothing is reasonably close.
func Suggest(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	best, bestDist := "", 3 // more than two edits away is not a typo
	for _, f := range supportedFormats {
		if d := levenshtein.ComputeDistance(s, f.String()); d < bestDist {
			best, bestDist = f.String(), d
		}
	}
	return best
}

// FormatFromPath infers the format from a file extension. Unknown
// extensions default to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	}
	return FormatJSON
}
