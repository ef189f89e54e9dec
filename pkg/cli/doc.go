// Package cli implements the command-line interface for the kubetrim tool.
//
// # Commands
//
// serve - Run the service (the container entry point):
//
//	kubetrim serve [--provision] [--port 8069] [--store /var/lib/kubetrim/samples.db]
//
// Optionally provisions kubectl, then collects node and pod utilization
// every interval and serves the right-sizing API on 0.0.0.0:8069.
//
// provision - Install kubectl:
//
//	kubetrim provision [--kubectl-version v1.31.2] [--install-dir /usr/local/bin]
//
// Resolves the version (stable channel unless pinned), downloads the release
// binary with checksum verification, installs it atomically, and verifies it.
//
// snapshot - Capture one utilization snapshot:
//
//	kubetrim snapshot [--exclude-namespace 'kube-*'] [--output snap.json]
//
// report - Build a right-sizing report offline:
//
//	kubetrim report --snapshot snap.json [--format table]
//	kubetrim report -f snap.json --output report.json --push --registry ghcr.io --repository acme/reports
//
// # Global Flags
//
//	--debug        Enable debug logging
//	--log-json     Output logs in JSON format
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Environment Variables
//
//	PORT                   Override the listen port
//	LOG_LEVEL              Set logging verbosity (debug, info, warn, error)
//	NODE_NAME              Override node name recorded in snapshots
//	KUBERNETES_NODE_NAME   Fallback node name if NODE_NAME not set
//	HOSTNAME               Final fallback for node name
//	KUBECONFIG             Path to kubeconfig file
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, execution failure)
//	2  Context canceled or timeout
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/kubetrim/kube-trim/pkg/cli.version=1.0.0'"
package cli
