package oci

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"oras.land/oras-go/v2/content/file"
)

func TestPackFiles(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "report.json")
	if err := os.WriteFile(reportPath, []byte(`{"images":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := file.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	desc, err := packFiles(ctx, store, "v1", []string{reportPath})
	if err != nil {
		t.Fatalf("packFiles failed: %v", err)
	}

	if desc.ArtifactType != ArtifactType {
		t.Errorf("artifact type = %q, want %q", desc.ArtifactType, ArtifactType)
	}

	resolved, err := store.Resolve(ctx, "v1")
	if err != nil {
		t.Fatalf("tag was not recorded: %v", err)
	}
	if resolved.Digest != desc.Digest {
		t.Errorf("resolved digest %s, want %s", resolved.Digest, desc.Digest)
	}
}

func TestPackFilesMissingFile(t *testing.T) {
	store, err := file.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = store.Close() }()

	if _, err := packFiles(context.Background(), store, "v1", []string{"/does/not/exist.json"}); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestPushValidation(t *testing.T) {
	tests := []struct {
		name   string
		pusher Pusher
		paths  []string
	}{
		{"missing registry", Pusher{Repository: "kubetrim/reports"}, []string{"report.json"}},
		{"missing repository", Pusher{Registry: "registry.example.com"}, []string{"report.json"}},
		{"no files", Pusher{Registry: "registry.example.com", Repository: "kubetrim/reports"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.pusher.Push(context.Background(), tt.paths); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestMediaTypeFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"report.json", "application/vnd.kubetrim.content.v1+json"},
		{"snapshot.yaml", "application/vnd.kubetrim.content.v1+yaml"},
		{"snapshot.YML", "application/vnd.kubetrim.content.v1+yaml"},
		{"kubectl", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := mediaTypeFor(tt.path); got != tt.want {
			t.Errorf("mediaTypeFor(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
