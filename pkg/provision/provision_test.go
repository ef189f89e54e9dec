package provision

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"k8s.io/utils/exec"
	fakeexec "k8s.io/utils/exec/testing"
)

const testVersion = "v1.31.2"

var testBinary = []byte("#!/bin/sh\necho fake kubectl\n")

func testChecksum() string {
	sum := sha256.Sum256(testBinary)
	return hex.EncodeToString(sum[:])
}

// releaseServer fakes dl.k8s.io: stable channel plus release artifacts.
// The returned counter tracks how many requests were served.
func releaseServer(t *testing.T, checksum string) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var hits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/stable.txt", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprintln(w, testVersion)
	})
	mux.HandleFunc("/"+testVersion+"/bin/linux/amd64/kubectl", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write(testBinary)
	})
	mux.HandleFunc("/"+testVersion+"/bin/linux/amd64/kubectl.sha256", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprintln(w, checksum)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func verifyingExecer(t *testing.T, output string, runErr error) *fakeexec.FakeExec {
	t.Helper()

	fcmd := &fakeexec.FakeCmd{
		CombinedOutputScript: []fakeexec.FakeAction{
			func() ([]byte, []byte, error) { return []byte(output), nil, runErr },
		},
	}
	return &fakeexec.FakeExec{
		CommandScript: []fakeexec.FakeCommandAction{
			func(cmd string, args ...string) exec.Cmd {
				return fakeexec.InitFakeCmd(fcmd, cmd, args...)
			},
		},
	}
}

func testConfig(t *testing.T, srv *httptest.Server) *Config {
	t.Helper()

	cfg := DefaultConfig()
	cfg.StableURL = srv.URL + "/stable.txt"
	cfg.ReleaseBaseURL = srv.URL
	cfg.InstallDir = t.TempDir()
	cfg.HTTPClient = srv.Client()
	return cfg
}

func TestResolvePinnedSkipsNetwork(t *testing.T) {
	srv, hits := releaseServer(t, testChecksum())

	cfg := testConfig(t, srv)
	cfg.Version = "1.31.2"

	p := New(WithConfig(cfg))

	got, err := p.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != testVersion {
		t.Errorf("Resolve() = %q, want %q", got, testVersion)
	}
	if hits.Load() != 0 {
		t.Errorf("pinned resolve made %d network requests, want 0", hits.Load())
	}
}

func TestResolvePinnedKeepsVendorSuffix(t *testing.T) {
	srv, hits := releaseServer(t, testChecksum())

	cfg := testConfig(t, srv)
	cfg.Version = "v1.33.5-eks-3025e55"

	p := New(WithConfig(cfg))

	got, err := p.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "v1.33.5-eks-3025e55" {
		t.Errorf("Resolve() = %q, want the pinned version verbatim", got)
	}
	if hits.Load() != 0 {
		t.Errorf("pinned resolve made %d network requests, want 0", hits.Load())
	}
}

func TestResolvePinnedInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Version = "not-a-version"

	p := New(WithConfig(cfg))

	if _, err := p.Resolve(context.Background()); err == nil {
		t.Fatal("expected error for invalid pinned version")
	}
}

func TestResolveStableChannel(t *testing.T) {
	srv, _ := releaseServer(t, testChecksum())

	p := New(WithConfig(testConfig(t, srv)))

	got, err := p.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != testVersion {
		t.Errorf("Resolve() = %q, want %q", got, testVersion)
	}
}

func TestProvisionInstallsBinary(t *testing.T) {
	srv, _ := releaseServer(t, testChecksum())
	cfg := testConfig(t, srv)

	p := New(
		WithConfig(cfg),
		WithExecer(verifyingExecer(t, "Client Version: "+testVersion+"\n", nil)),
	)

	res, err := p.Provision(context.Background())
	if err != nil {
		t.Fatalf("Provision failed: %v", err)
	}

	if res.Version != testVersion {
		t.Errorf("Version = %q, want %q", res.Version, testVersion)
	}
	if res.Pinned {
		t.Error("Pinned = true for stable-channel resolve")
	}

	wantPath := filepath.Join(cfg.InstallDir, "kubectl")
	if res.Path != wantPath {
		t.Errorf("Path = %q, want %q", res.Path, wantPath)
	}

	info, err := os.Stat(wantPath)
	if err != nil {
		t.Fatalf("installed binary missing: %v", err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}

	installed, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(installed) != string(testBinary) {
		t.Error("installed bytes differ from downloaded bytes")
	}
}

func TestProvisionChecksumMismatch(t *testing.T) {
	srv, _ := releaseServer(t, "0000000000000000000000000000000000000000000000000000000000000000")
	cfg := testConfig(t, srv)

	p := New(WithConfig(cfg), WithExecer(verifyingExecer(t, "", nil)))

	if _, err := p.Provision(context.Background()); err == nil {
		t.Fatal("expected checksum mismatch error")
	}

	if _, err := os.Stat(filepath.Join(cfg.InstallDir, "kubectl")); !errors.Is(err, os.ErrNotExist) {
		t.Error("binary must not be installed after checksum mismatch")
	}
}

func TestProvisionResolveFailureShortCircuits(t *testing.T) {
	var downloads atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/stable.txt", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		downloads.Add(1)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	p := New(WithConfig(testConfig(t, srv)))

	if _, err := p.Provision(context.Background()); err == nil {
		t.Fatal("expected resolve failure")
	}
	if downloads.Load() != 0 {
		t.Errorf("resolve failure still issued %d downloads, want 0", downloads.Load())
	}
}

func TestProvisionVerifyVersionMismatch(t *testing.T) {
	srv, _ := releaseServer(t, testChecksum())

	p := New(
		WithConfig(testConfig(t, srv)),
		WithExecer(verifyingExecer(t, "Client Version: v1.19.0\n", nil)),
	)

	if _, err := p.Provision(context.Background()); err == nil {
		t.Fatal("expected verification mismatch error")
	}
}

func TestProvisionVerifyCommandFailure(t *testing.T) {
	srv, _ := releaseServer(t, testChecksum())

	p := New(
		WithConfig(testConfig(t, srv)),
		WithExecer(verifyingExecer(t, "exec format error", errors.New("exit status 1"))),
	)

	if _, err := p.Provision(context.Background()); err == nil {
		t.Fatal("expected verification failure")
	}
}
