package server

import (
	"net/http"
	"strings"
)

// DefaultAPIVersion is served when the client does not ask for a specific
// version through the Accept header.
const DefaultAPIVersion = "v1"

const vendorMediaPrefix = "application/vnd.kubetrim."

var supportedAPIVersions = map[string]bool{
	"v1": true,
}

// negotiateAPIVersion extracts the requested API version from a vendor
// media type such as "application/vnd.kubetrim.v1+json". Anything missing,
// malformed, or unsupported falls back to DefaultAPIVersion.
func negotiateAPIVersion(r *http.Request) string {
	for _, accept := range r.Header.Values("Accept") {
		for _, part := range strings.Split(accept, ",") {
			mediaType := strings.TrimSpace(part)
			if i := strings.IndexByte(mediaType, ';'); i >= 0 {
				mediaType = strings.TrimSpace(mediaType[:i])
			}
			if !strings.HasPrefix(mediaType, vendorMediaPrefix) {
				continue
			}
			version := strings.TrimPrefix(mediaType, vendorMediaPrefix)
			if i := strings.IndexByte(version, '+'); i >= 0 {
				version = version[:i]
			}
			if isValidAPIVersion(version) {
				return version
			}
		}
	}
	return DefaultAPIVersion
}

func isValidAPIVersion(version string) bool {
	return supportedAPIVersions[version]
}
