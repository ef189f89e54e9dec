package cli

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/kubetrim/kube-trim/pkg/api"
	"github.com/kubetrim/kube-trim/pkg/provision"
	"github.com/kubetrim/kube-trim/pkg/server"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "serve",
		EnableShellCompletion: true,
		Usage:                 "Run the collection loop and serve the right-sizing API",
		Description: `Runs the kube-trim service: optionally provisions kubectl into the
container, then collects node and pod utilization every interval and serves
the aggregated right-sizing report.

# Endpoints

  GET /            service info and routes
  GET /v1/report   per-image right-sizing report
  GET /v1/samples  raw retained samples
  GET /health      liveness probe
  GET /ready       readiness probe
  GET /metrics     Prometheus metrics

# Examples

Serve with in-memory retention on the default port:
  kubetrim serve

Provision kubectl first, pinning the version:
  kubetrim serve --provision --kubectl-version v1.31.2

Persist samples across restarts:
  kubetrim serve --store /var/lib/kubetrim/samples.db`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "address",
				Value: "",
				Usage: "listen address (default: all interfaces)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   0,
				Usage:   "listen port (default: 8069, or PORT)",
			},
			&cli.StringFlag{
				Name:  "store",
				Value: "",
				Usage: "SQLite database path for persistent sample retention (default: in-memory)",
			},
			&cli.DurationFlag{
				Name:  "interval",
				Value: time.Second,
				Usage: "collection loop interval",
			},
			&cli.DurationFlag{
				Name:  "retention",
				Value: 24 * time.Hour,
				Usage: "how long samples are retained",
			},
			excludeNamespacesFlag,
			// Provisioning flags
			&cli.BoolFlag{
				Name:  "provision",
				Usage: "Provision kubectl before serving",
			},
			&cli.StringFlag{
				Name:  "kubectl-version",
				Usage: "kubectl version to install (default: resolve the stable channel)",
			},
			&cli.StringFlag{
				Name:  "install-dir",
				Value: provision.DefaultInstallDir,
				Usage: "directory to install kubectl into",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := server.DefaultConfig()
			if address := cmd.String("address"); address != "" {
				cfg.Address = address
			}
			if port := cmd.Int("port"); port != 0 {
				cfg.Port = int(port)
			}

			opts := api.Options{
				Provision:         cmd.Bool("provision"),
				StorePath:         cmd.String("store"),
				Interval:          cmd.Duration("interval"),
				Retention:         cmd.Duration("retention"),
				ExcludeNamespaces: cmd.StringSlice("exclude-namespace"),
				ServerConfig:      cfg,
			}

			if opts.Provision {
				provCfg := provision.DefaultConfig()
				provCfg.Version = cmd.String("kubectl-version")
				provCfg.InstallDir = cmd.String("install-dir")
				opts.ProvisionConfig = provCfg
			}

			return api.Serve(ctx, opts)
		},
	}
}
