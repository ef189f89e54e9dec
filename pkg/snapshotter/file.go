package snapshotter

import (
	"fmt"
	"log/slog"

	"github.com/kubetrim/kube-trim/pkg/serializer"
)

// SnapshotFromFile loads a Snapshot from the specified file path. The
// format is inferred from the file extension.
func SnapshotFromFile(path string) (*Snapshot, error) {
	fileFormat := serializer.FormatFromPath(path)

	ser, err := serializer.NewFileReader(fileFormat, path)
	if err != nil {
		return nil, fmt.Errorf("failed to create serializer for %q: %w", path, err)
	}
	defer func() {
		if closeErr := ser.Close(); closeErr != nil {
			slog.Warn("failed to close serializer", "error", closeErr)
		}
	}()

	var snap Snapshot
	if err := ser.Deserialize(&snap); err != nil {
		return nil, fmt.Errorf("failed to deserialize snapshot from %q: %w", path, err)
	}

	slog.Debug("loaded snapshot from file",
		slog.String("path", path),
		slog.String("kind", snap.Kind),
		slog.Int("nodes", len(snap.Nodes)),
		slog.Int("pods", len(snap.Pods)),
	)

	return &snap, nil
}
