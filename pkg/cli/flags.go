package cli

import "github.com/urfave/cli/v3"

// Flags shared by multiple commands.
var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Value:   "",
		Usage:   "output file path (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   "json",
		Usage:   "output format (json, yaml, table)",
	}

	kubeconfigFlag = &cli.StringFlag{
		Name:  "kubeconfig",
		Value: "",
		Usage: "path to the kubeconfig file (default: KUBECONFIG, then ~/.kube/config, then in-cluster)",
	}

	excludeNamespacesFlag = &cli.StringSliceFlag{
		Name:  "exclude-namespace",
		Usage: "namespace to exclude from collection, supports '*' wildcards (can be repeated)",
	}
)
