package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/kubetrim/kube-trim/pkg/provision"
	"github.com/kubetrim/kube-trim/pkg/serializer"
)

func provisionCmd() *cli.Command {
	return &cli.Command{
		Name:                  "provision",
		EnableShellCompletion: true,
		Usage:                 "Install kubectl into the runtime environment",
		Description: `Installs kubectl: resolves the version, downloads the release binary with
checksum verification, installs it atomically, and verifies it runs.

Without --kubectl-version the current stable tag is resolved from the
release channel, so what gets installed drifts as upstream publishes new
releases. Pin the version for reproducible images.

# Examples

Install the current stable kubectl:
  kubetrim provision

Pin the version and install dir:
  kubetrim provision --kubectl-version v1.31.2 --install-dir /usr/local/bin`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "kubectl-version",
				Usage: "kubectl version to install (default: resolve the stable channel)",
			},
			&cli.StringFlag{
				Name:  "install-dir",
				Value: provision.DefaultInstallDir,
				Usage: "directory to install kubectl into",
			},
			&cli.StringFlag{
				Name:  "os",
				Value: provision.DefaultOS,
				Usage: "target operating system of the release binary",
			},
			&cli.StringFlag{
				Name:  "arch",
				Value: provision.DefaultArch,
				Usage: "target architecture of the release binary",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			cfg := provision.DefaultConfig()
			cfg.Version = cmd.String("kubectl-version")
			cfg.InstallDir = cmd.String("install-dir")
			cfg.OS = cmd.String("os")
			cfg.Arch = cmd.String("arch")

			res, err := provision.New(provision.WithConfig(cfg)).Provision(ctx)
			if err != nil {
				return err
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer func() {
				if err := ser.Close(); err != nil {
					slog.Warn("failed to close serializer", "error", err)
				}
			}()

			return ser.Serialize(res)
		},
	}
}
