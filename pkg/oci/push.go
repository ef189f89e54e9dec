// Package oci publishes kube-trim artifacts (reports, snapshots) to an OCI
// registry so they can be versioned and pulled like any other image.
package oci

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/retry"
)

// ArtifactType marks manifests produced by kube-trim.
const ArtifactType = "application/vnd.kubetrim.artifact.v1"

// DefaultTag is used when no tag is configured.
const DefaultTag = "latest"

// Pusher publishes files as a single OCI artifact.
type Pusher struct {
	// Registry is the registry host, e.g. "registry.example.com:5000".
	Registry string

	// Repository is the repository within the registry, e.g. "kubetrim/reports".
	Repository string

	// Tag defaults to DefaultTag.
	Tag string

	// Username and Password authenticate against the registry. Empty means
	// anonymous access.
	Username string
	Password string

	// PlainHTTP disables TLS, for local registries.
	PlainHTTP bool
}

// Push packages the given files into an OCI artifact and copies it to the
// registry. It returns the digest of the pushed manifest.
func (p *Pusher) Push(ctx context.Context, paths []string) (string, error) {
	if p.Registry == "" {
		return "", fmt.Errorf("registry must be set")
	}
	if p.Repository == "" {
		return "", fmt.Errorf("repository must be set")
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("nothing to push")
	}

	tag := p.Tag
	if tag == "" {
		tag = DefaultTag
	}

	store, err := file.New("")
	if err != nil {
		return "", fmt.Errorf("failed to create file store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("failed to close file store", "error", closeErr)
		}
	}()

	desc, err := packFiles(ctx, store, tag, paths)
	if err != nil {
		return "", err
	}

	repo, err := remote.NewRepository(p.Registry + "/" + p.Repository)
	if err != nil {
		return "", fmt.Errorf("invalid repository reference: %w", err)
	}
	repo.PlainHTTP = p.PlainHTTP
	repo.Client = &auth.Client{
		Client: retry.DefaultClient,
		Cache:  auth.NewCache(),
		Credential: auth.StaticCredential(p.Registry, auth.Credential{
			Username: p.Username,
			Password: p.Password,
		}),
	}

	if _, err := oras.Copy(ctx, store, tag, repo, tag, oras.DefaultCopyOptions); err != nil {
		return "", fmt.Errorf("failed to push to %s/%s:%s: %w", p.Registry, p.Repository, tag, err)
	}

	slog.Info("pushed artifact",
		"registry", p.Registry,
		"repository", p.Repository,
		"tag", tag,
		"digest", desc.Digest.String(),
		"files", len(paths),
	)

	return desc.Digest.String(), nil
}

// packFiles adds each file as a layer, packs a manifest around them, and
// tags it in the store.
func packFiles(ctx context.Context, store *file.Store, tag string, paths []string) (ocispec.Descriptor, error) {
	layers := make([]ocispec.Descriptor, 0, len(paths))
	for _, path := range paths {
		desc, err := store.Add(ctx, filepath.Base(path), mediaTypeFor(path), path)
		if err != nil {
			return ocispec.Descriptor{}, fmt.Errorf("failed to add %s: %w", path, err)
		}
		layers = append(layers, desc)
	}

	desc, err := oras.PackManifest(ctx, store, oras.PackManifestVersion1_1, ArtifactType,
		oras.PackManifestOptions{Layers: layers})
	if err != nil {
		return ocispec.Descriptor{}, fmt.Errorf("failed to pack manifest: %w", err)
	}

	if err := store.Tag(ctx, desc, tag); err != nil {
		return ocispec.Descriptor{}, fmt.Errorf("failed to tag manifest: %w", err)
	}

	return desc, nil
}

// mediaTypeFor derives the layer media type from the file extension.
func mediaTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "application/vnd.kubetrim.content.v1+json"
	case ".yaml", ".yml":
		return "application/vnd.kubetrim.content.v1+yaml"
	default:
		return "application/octet-stream"
	}
}
