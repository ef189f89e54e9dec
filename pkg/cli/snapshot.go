package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/kubetrim/kube-trim/pkg/collector"
	"github.com/kubetrim/kube-trim/pkg/k8s/client"
	"github.com/kubetrim/kube-trim/pkg/serializer"
	"github.com/kubetrim/kube-trim/pkg/snapshotter"
)

func snapshotCmd() *cli.Command {
	return &cli.Command{
		Name:                  "snapshot",
		Aliases:               []string{"snap"},
		EnableShellCompletion: true,
		Usage:                 "Capture one cluster utilization snapshot",
		Description: `Collects a single snapshot of node and pod utilization via kubectl top,
enriched with container images and resource requests from the cluster API.

The snapshot can be output in JSON, YAML, or table format, and fed to
'kubetrim report --snapshot' for offline analysis.

# Examples

Print a snapshot to stdout:
  kubetrim snapshot

Write a snapshot for later reporting, skipping system namespaces:
  kubetrim snapshot --exclude-namespace 'kube-*' --output snap.json`,
		Flags: []cli.Flag{
			excludeNamespacesFlag,
			kubeconfigFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			kubeClient, _, err := client.BuildKubeClient(cmd.String("kubeconfig"))
			if err != nil {
				return fmt.Errorf("failed to build kubernetes client: %w", err)
			}

			s := &snapshotter.ClusterSnapshotter{
				Version:           version,
				Factory:           collector.NewDefaultFactory(kubeClient),
				ExcludeNamespaces: cmd.StringSlice("exclude-namespace"),
			}

			snap, err := s.Snapshot(ctx)
			if err != nil {
				return fmt.Errorf("failed to collect snapshot: %w", err)
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer func() {
				if err := ser.Close(); err != nil {
					slog.Warn("failed to close serializer", "error", err)
				}
			}()

			return ser.Serialize(snap)
		},
	}
}
