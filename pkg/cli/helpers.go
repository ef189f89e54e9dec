package cli

import (
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/kubetrim/kube-trim/pkg/serializer"
)

// parseOutputFormat extracts and validates the output format from CLI flags.
// Returns the validated format or an error if the format is unknown.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		if suggestion := serializer.Suggest(outFormat.String()); suggestion != "" {
			return "", fmt.Errorf("unknown output format: %q, did you mean %q?", outFormat, suggestion)
		}
		return "", fmt.Errorf("unknown output format: %q, valid formats are: %v", outFormat, serializer.SupportedFormats())
	}
	return outFormat, nil
}
