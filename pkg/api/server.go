// Package api wires the kube-trim service together: provisioning, sample
// collection, the report builder, and the HTTP server.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kubetrim/kube-trim/pkg/collector"
	"github.com/kubetrim/kube-trim/pkg/k8s/client"
	"github.com/kubetrim/kube-trim/pkg/lifecycle"
	"github.com/kubetrim/kube-trim/pkg/logging"
	"github.com/kubetrim/kube-trim/pkg/provision"
	"github.com/kubetrim/kube-trim/pkg/report"
	"github.com/kubetrim/kube-trim/pkg/server"
	"github.com/kubetrim/kube-trim/pkg/snapshotter"
	"github.com/kubetrim/kube-trim/pkg/store"
)

const (
	name           = "kube-trim"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/kubetrim/kube-trim/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Version returns the build version string.
func Version() string {
	return version
}

// Options configures Serve.
type Options struct {
	// Provision runs the kubectl provisioning pipeline before serving.
	Provision bool

	// ProvisionConfig overrides the provisioner defaults. Nil uses them.
	ProvisionConfig *provision.Config

	// StorePath selects the SQLite sample store at the given path. Empty
	// keeps samples in memory only.
	StorePath string

	// Interval and Retention tune the collection loop. Zero values use the
	// loop defaults.
	Interval  time.Duration
	Retention time.Duration

	// ExcludeNamespaces drops pod samples from matching namespaces.
	ExcludeNamespaces []string

	// ServerConfig overrides the server defaults. Nil uses them.
	ServerConfig *server.Config
}

// Serve runs the service until shutdown: it provisions the environment,
// starts the collection loop, and serves the API. Returns an error if any
// part of the bootstrap fails or the server exits abnormally.
func Serve(ctx context.Context, opts Options) error {
	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	srv := buildServer(opts)

	machine := lifecycle.New(lifecycle.WithOnChange(func(s lifecycle.State) {
		srv.SetReady(s == lifecycle.StateReady || s == lifecycle.StateRunning)
	}))

	if opts.Provision {
		if err := machine.To(lifecycle.StateProvisioning); err != nil {
			return err
		}

		provOpts := []provision.Option{}
		if opts.ProvisionConfig != nil {
			provOpts = append(provOpts, provision.WithConfig(opts.ProvisionConfig))
		}
		if _, err := provision.New(provOpts...).Provision(ctx); err != nil {
			machine.Fail(err)
			return err
		}
	}

	samples, err := openStore(ctx, opts.StorePath)
	if err != nil {
		machine.Fail(err)
		return err
	}
	defer func() {
		if closeErr := samples.Close(); closeErr != nil {
			slog.Warn("failed to close sample store", "error", closeErr)
		}
	}()

	kubeClient, _, err := client.GetKubeClient()
	if err != nil {
		machine.Fail(err)
		return err
	}

	runner := &snapshotter.Runner{
		Snapshotter: &snapshotter.ClusterSnapshotter{
			Version:           version,
			Factory:           collector.NewDefaultFactory(kubeClient),
			ExcludeNamespaces: opts.ExcludeNamespaces,
		},
		Store:     samples,
		Interval:  opts.Interval,
		Retention: opts.Retention,
	}

	builder := report.NewBuilder(
		report.WithVersion(version),
		report.WithStore(samples),
	)

	registerHandlers(srv, builder)

	if err := machine.To(lifecycle.StateReady); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		// The loop only ever returns its context error; the service keeps
		// running through individual collection failures.
		if err := runner.Run(gctx); err != nil && gctx.Err() == nil {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := machine.To(lifecycle.StateRunning); err != nil {
			return err
		}
		defer cancel()
		return srv.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		machine.Fail(err)
		slog.Error("server exited with error", "error", err)
		return err
	}

	if err := machine.To(lifecycle.StateStopped); err != nil {
		return err
	}
	return nil
}

// buildServer creates the HTTP server shell; handlers are registered once
// their dependencies exist.
func buildServer(opts Options) *server.Server {
	srvOpts := []server.Option{
		server.WithName(name),
		server.WithVersion(version),
	}
	if opts.ServerConfig != nil {
		srvOpts = append(srvOpts, server.WithConfig(opts.ServerConfig))
	}
	return server.New(srvOpts...)
}

func registerHandlers(srv *server.Server, builder *report.Builder) {
	server.WithHandler(map[string]http.HandlerFunc{
		"/v1/report":  builder.HandleReport,
		"/v1/samples": builder.HandleSamples,
	})(srv)
}

// openStore selects the sample store backend.
func openStore(ctx context.Context, path string) (store.Store, error) {
	if path == "" {
		slog.Info("using in-memory sample store")
		return store.NewMemory(), nil
	}

	slog.Info("using sqlite sample store", "path", path)
	return store.OpenSQLite(ctx, path)
}
