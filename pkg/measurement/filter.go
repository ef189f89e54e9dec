package measurement

import "strings"

// FilterPods returns the pod samples whose namespace does not match any of
// the provided patterns. Supports wildcard patterns:
//   - "prefix*" matches namespaces starting with "prefix"
//   - "*suffix" matches namespaces ending with "suffix"
//   - "*contains*" matches namespaces containing "contains"
//   - "exact" matches namespaces exactly
func FilterPods(samples []PodSample, exclude []string) []PodSample {
	if len(exclude) == 0 {
		return samples
	}

	result := make([]PodSample, 0, len(samples))

	for _, s := range samples {
		omit := false
		for _, pattern := range exclude {
			if matchesPattern(s.Namespace, pattern) {
				omit = true
				break
			}
		}
		if !omit {
			result = append(result, s)
		}
	}

	return result
}

// matchesPattern checks if a name matches a wildcard pattern.
func matchesPattern(name, pattern string) bool {
	// No wildcard - exact match
	if !strings.Contains(pattern, "*") {
		return name == pattern
	}

	// *contains* - contains match
	if strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*") {
		substr := strings.Trim(pattern, "*")
		return strings.Contains(name, substr)
	}

	// *suffix - ends with match
	if strings.HasPrefix(pattern, "*") {
		suffix := strings.TrimPrefix(pattern, "*")
		return strings.HasSuffix(name, suffix)
	}

	// prefix* - starts with match
	if strings.HasSuffix(pattern, "*") {
		prefix := strings.TrimSuffix(pattern, "*")
		return strings.HasPrefix(name, prefix)
	}

	return false
}
