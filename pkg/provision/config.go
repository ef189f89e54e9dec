package provision

import (
	"io/fs"
	"net/http"
	"time"
)

const (
	// DefaultStableURL publishes the current stable kubectl version tag.
	DefaultStableURL = "https://dl.k8s.io/release/stable.txt"

	// DefaultReleaseBaseURL is the root of the kubectl release downloads.
	DefaultReleaseBaseURL = "https://dl.k8s.io/release"

	// DefaultInstallDir is where the binary is installed.
	DefaultInstallDir = "/usr/local/bin"

	// DefaultBinaryName is the name of the installed binary.
	DefaultBinaryName = "kubectl"

	// DefaultMode is the file mode of the installed binary.
	DefaultMode fs.FileMode = 0o755

	// DefaultOS and DefaultArch select the release platform. Provisioning
	// targets the container image platform, not the build host.
	DefaultOS   = "linux"
	DefaultArch = "amd64"

	// DefaultTimeout bounds each HTTP request of the provisioning pipeline.
	DefaultTimeout = 5 * time.Minute
)

// Config holds provisioner configuration. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	// Version pins the kubectl version to install, e.g. "v1.31.2". When
	// empty the provisioner resolves the current stable tag from StableURL,
	// which drifts over time as new releases are published.
	Version string

	StableURL      string
	ReleaseBaseURL string

	// OS and Arch select the release platform.
	OS   string
	Arch string

	InstallDir string
	BinaryName string
	Mode       fs.FileMode

	// HTTPClient performs the downloads. Tests point it at local servers.
	HTTPClient *http.Client

	// Timeout bounds each HTTP request.
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		StableURL:      DefaultStableURL,
		ReleaseBaseURL: DefaultReleaseBaseURL,
		OS:             DefaultOS,
		Arch:           DefaultArch,
		InstallDir:     DefaultInstallDir,
		BinaryName:     DefaultBinaryName,
		Mode:           DefaultMode,
		HTTPClient:     &http.Client{},
		Timeout:        DefaultTimeout,
	}
}
