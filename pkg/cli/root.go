package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/kubetrim/kube-trim/pkg/logging"
)

const name = "kubetrim"

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/kubetrim/kube-trim/pkg/cli.version=1.0.0"
	version = "dev"
)

// New builds the root command with all subcommands attached.
func New() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Right-size Kubernetes workloads from observed utilization",
		Version:               version,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Output logs in JSON format",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultLogger(name, version, cmd.Bool("log-json"), cmd.Bool("debug"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			serveCmd(),
			provisionCmd(),
			snapshotCmd(),
			reportCmd(),
		},
	}
}
