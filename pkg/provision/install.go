package provision

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// install verifies the binary against its checksum and installs it
// atomically: the bytes land in a temp file in the install dir, then a
// rename moves them into place. Concurrent provisioner runs are serialized
// with a file lock so two processes never interleave their writes.
func (p *Provisioner) install(binary []byte, checksum string) (string, error) {
	start := time.Now()
	defer func() {
		stepDuration.WithLabelValues("install").Observe(time.Since(start).Seconds())
	}()

	sum := sha256.Sum256(binary)
	if got := hex.EncodeToString(sum[:]); got != checksum {
		return "", fmt.Errorf("checksum mismatch: downloaded %s, published %s", got, checksum)
	}

	if err := os.MkdirAll(p.cfg.InstallDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create install dir %s: %w", p.cfg.InstallDir, err)
	}

	lock := flock.New(filepath.Join(p.cfg.InstallDir, "."+p.cfg.BinaryName+".lock"))
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("failed to acquire install lock: %w", err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("failed to release install lock", "error", err)
		}
	}()

	target := filepath.Join(p.cfg.InstallDir, p.cfg.BinaryName)

	tmp, err := os.CreateTemp(p.cfg.InstallDir, "."+p.cfg.BinaryName+"-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// Best effort; gone already after a successful rename.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(binary); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(p.cfg.Mode); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		return "", fmt.Errorf("failed to move binary into place: %w", err)
	}

	slog.Debug("installed binary",
		"path", target,
		"mode", p.cfg.Mode.String(),
		"bytes", len(binary),
	)

	return target, nil
}
