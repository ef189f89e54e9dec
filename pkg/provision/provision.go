// Package provision installs kubectl into the runtime environment: it
// resolves the version to install, downloads the release binary with
// checksum verification, installs it atomically, and verifies the installed
// binary runs. Steps are strictly ordered and fail fast; there is no retry.
package provision

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"k8s.io/utils/exec"

	kuberrors "github.com/kubetrim/kube-trim/pkg/errors"
	"github.com/kubetrim/kube-trim/pkg/version"
)

// Result describes a completed provisioning run.
type Result struct {
	// Version is the kubectl version that was installed.
	Version string `json:"version" yaml:"version"`

	// Path is the absolute path of the installed binary.
	Path string `json:"path" yaml:"path"`

	// Pinned reports whether the version was pinned in configuration or
	// resolved from the stable channel.
	Pinned bool `json:"pinned" yaml:"pinned"`
}

// Provisioner runs the kubectl provisioning pipeline.
type Provisioner struct {
	cfg    *Config
	execer exec.Interface
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithConfig replaces the default configuration.
func WithConfig(cfg *Config) Option {
	return func(p *Provisioner) {
		if cfg != nil {
			p.cfg = cfg
		}
	}
}

// WithExecer replaces the command runner used for verification.
func WithExecer(execer exec.Interface) Option {
	return func(p *Provisioner) {
		p.execer = execer
	}
}

// New creates a Provisioner with the given options.
func New(opts ...Option) *Provisioner {
	p := &Provisioner{
		cfg:    DefaultConfig(),
		execer: exec.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Provision runs the full pipeline: resolve, download, install, verify.
// The first failing step aborts the run with a wrapped error.
func (p *Provisioner) Provision(ctx context.Context) (*Result, error) {
	start := time.Now()

	resolved, err := p.Resolve(ctx)
	if err != nil {
		provisionTotal.WithLabelValues("error").Inc()
		return nil, kuberrors.Wrap(kuberrors.ErrCodeProvisionFailed, "failed to resolve kubectl version", err)
	}

	binary, checksum, err := p.download(ctx, resolved)
	if err != nil {
		provisionTotal.WithLabelValues("error").Inc()
		return nil, kuberrors.Wrap(kuberrors.ErrCodeProvisionFailed,
			fmt.Sprintf("failed to download kubectl %s", resolved), err)
	}

	path, err := p.install(binary, checksum)
	if err != nil {
		provisionTotal.WithLabelValues("error").Inc()
		return nil, kuberrors.Wrap(kuberrors.ErrCodeProvisionFailed, "failed to install kubectl", err)
	}

	if err := p.verify(ctx, path, resolved); err != nil {
		provisionTotal.WithLabelValues("error").Inc()
		return nil, kuberrors.Wrap(kuberrors.ErrCodeProvisionFailed, "installed kubectl failed verification", err)
	}

	provisionTotal.WithLabelValues("success").Inc()
	provisionDuration.Observe(time.Since(start).Seconds())

	slog.Info("kubectl provisioned",
		"version", resolved,
		"path", path,
		"pinned", p.cfg.Version != "",
		"duration", time.Since(start).String(),
	)

	return &Result{
		Version: resolved,
		Path:    path,
		Pinned:  p.cfg.Version != "",
	}, nil
}

// Resolve returns the kubectl version to install. A pinned version is
// validated and used as-is without touching the network; otherwise the
// current stable tag is fetched from the stable channel.
func (p *Provisioner) Resolve(ctx context.Context) (string, error) {
	if p.cfg.Version != "" {
		v, err := version.ParseVersion(p.cfg.Version)
		if err != nil {
			return "", fmt.Errorf("pinned version %q is not a valid version: %w", p.cfg.Version, err)
		}
		// Keep the pinned string verbatim, vendor suffix included; the
		// canonical form would point the release URL and verification at a
		// different build than the one pinned.
		pinned := v.Raw
		if !strings.HasPrefix(pinned, "v") {
			pinned = "v" + pinned
		}
		return pinned, nil
	}

	slog.Warn("no kubectl version pinned, resolving stable channel; the resolved version drifts with upstream releases",
		"url", p.cfg.StableURL,
	)

	start := time.Now()
	defer func() {
		stepDuration.WithLabelValues("resolve").Observe(time.Since(start).Seconds())
	}()

	body, err := p.get(ctx, p.cfg.StableURL)
	if err != nil {
		return "", err
	}

	tag := strings.TrimSpace(string(body))
	v, err := version.ParseVersion(tag)
	if err != nil {
		return "", fmt.Errorf("stable channel returned invalid version %q: %w", tag, err)
	}

	slog.Info("resolved stable kubectl version", "version", v.String())
	return v.String(), nil
}

// binaryURL and checksumURL locate the release artifacts for a version.
func (p *Provisioner) binaryURL(v string) string {
	return fmt.Sprintf("%s/%s/bin/%s/%s/%s",
		p.cfg.ReleaseBaseURL, v, p.cfg.OS, p.cfg.Arch, p.cfg.BinaryName)
}

func (p *Provisioner) checksumURL(v string) string {
	return p.binaryURL(v) + ".sha256"
}

// download fetches the release binary and its published SHA-256 checksum.
func (p *Provisioner) download(ctx context.Context, v string) (binary []byte, checksum string, err error) {
	start := time.Now()
	defer func() {
		stepDuration.WithLabelValues("download").Observe(time.Since(start).Seconds())
	}()

	sumBody, err := p.get(ctx, p.checksumURL(v))
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch checksum: %w", err)
	}

	// The published file is the bare hex digest; tolerate the
	// "<digest>  <filename>" form of sha256sum output too.
	checksum = strings.Fields(strings.TrimSpace(string(sumBody)))[0]
	if len(checksum) != 64 {
		return nil, "", fmt.Errorf("checksum file is malformed: %q", strings.TrimSpace(string(sumBody)))
	}

	binary, err = p.get(ctx, p.binaryURL(v))
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch binary: %w", err)
	}

	slog.Debug("downloaded kubectl release",
		"version", v,
		"bytes", len(binary),
		"checksum", checksum,
	)

	return binary, checksum, nil
}

// verify runs the installed binary and confirms it reports the version
// that was just installed.
func (p *Provisioner) verify(ctx context.Context, path, wantVersion string) error {
	start := time.Now()
	defer func() {
		stepDuration.WithLabelValues("verify").Observe(time.Since(start).Seconds())
	}()

	out, err := p.execer.CommandContext(ctx, path, "version", "--client").CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s version --client failed: %w: %s", path, err, strings.TrimSpace(string(out)))
	}

	if !strings.Contains(string(out), wantVersion) {
		return fmt.Errorf("installed binary reports %q, expected version %s",
			strings.TrimSpace(string(out)), wantVersion)
	}

	slog.Debug("verified installed kubectl", "path", path, "version", wantVersion)
	return nil
}

// get performs one bounded GET and returns the response body.
func (p *Provisioner) get(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	resp, err := p.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}

	return body, nil
}
