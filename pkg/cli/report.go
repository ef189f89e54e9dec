package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/kubetrim/kube-trim/pkg/oci"
	"github.com/kubetrim/kube-trim/pkg/report"
	"github.com/kubetrim/kube-trim/pkg/serializer"
	"github.com/kubetrim/kube-trim/pkg/snapshotter"
	"github.com/kubetrim/kube-trim/pkg/store"
)

func reportCmd() *cli.Command {
	return &cli.Command{
		Name:                  "report",
		Aliases:               []string{"rep"},
		EnableShellCompletion: true,
		Usage:                 "Build a right-sizing report from captured snapshots",
		Description: `Builds the per-image right-sizing report offline, from one or more
snapshot files captured with 'kubetrim snapshot'. For each image the report
shows observed average and peak usage, the declared requests, recommended
settings, and how over-provisioned the workload is; each node gets its
observed utilization range.

# Examples

Report over one snapshot:
  kubetrim report --snapshot snap.json

Aggregate several snapshots and publish the result:
  kubetrim report -f morning.json -f evening.json --output report.json \
    --push --registry ghcr.io --repository acme/kubetrim-reports --tag nightly`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "snapshot",
				Aliases:  []string{"f"},
				Required: true,
				Usage:    "snapshot file path (can be repeated)",
			},
			outputFlag,
			formatFlag,
			// OCI push flags
			&cli.BoolFlag{
				Name:  "push",
				Usage: "Push the report as an OCI artifact to a registry",
			},
			&cli.StringFlag{
				Name:  "registry",
				Usage: "OCI registry host (e.g., ghcr.io, localhost:5000)",
			},
			&cli.StringFlag{
				Name:  "repository",
				Usage: "OCI repository path (e.g., acme/kubetrim-reports)",
			},
			&cli.StringFlag{
				Name:  "tag",
				Usage: "OCI artifact tag (default: latest)",
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP instead of HTTPS for the OCI registry (for local development)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			pushEnabled := cmd.Bool("push")
			output := cmd.String("output")
			if pushEnabled {
				if cmd.String("registry") == "" {
					return fmt.Errorf("--registry is required when --push is enabled")
				}
				if cmd.String("repository") == "" {
					return fmt.Errorf("--repository is required when --push is enabled")
				}
				if output == "" || output == serializer.StdoutURI {
					return fmt.Errorf("--output must be a file when --push is enabled")
				}
			}

			samples := store.NewMemory()
			defer func() {
				_ = samples.Close()
			}()

			for _, path := range cmd.StringSlice("snapshot") {
				snap, err := snapshotter.SnapshotFromFile(path)
				if err != nil {
					return fmt.Errorf("failed to load snapshot from %q: %w", path, err)
				}
				if err := samples.AppendPods(ctx, snap.Pods); err != nil {
					return err
				}
				if err := samples.AppendNodes(ctx, snap.Nodes); err != nil {
					return err
				}
			}

			builder := report.NewBuilder(
				report.WithVersion(version),
				report.WithStore(samples),
			)

			rep, err := builder.Build(ctx)
			if err != nil {
				return fmt.Errorf("failed to build report: %w", err)
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, output)
			if err := ser.Serialize(rep); err != nil {
				_ = ser.Close()
				return err
			}
			if err := ser.Close(); err != nil {
				return err
			}

			if !pushEnabled {
				return nil
			}

			pusher := &oci.Pusher{
				Registry:   cmd.String("registry"),
				Repository: cmd.String("repository"),
				Tag:        cmd.String("tag"),
				PlainHTTP:  cmd.Bool("plain-http"),
			}

			digest, err := pusher.Push(ctx, []string{output})
			if err != nil {
				return fmt.Errorf("failed to push report: %w", err)
			}

			slog.Info("report pushed",
				"registry", pusher.Registry,
				"repository", pusher.Repository,
				"digest", digest,
			)

			return nil
		},
	}
}
