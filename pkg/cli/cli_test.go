package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/kubetrim/kube-trim/pkg/report"
	"github.com/kubetrim/kube-trim/pkg/serializer"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		want      serializer.Format
		wantError bool
		errMsg    string
	}{
		{"json", "json", serializer.FormatJSON, false, ""},
		{"yaml", "yaml", serializer.FormatYAML, false, ""},
		{"table", "table", serializer.FormatTable, false, ""},
		{"typo suggests", "jsno", "", true, "did you mean"},
		{"garbage lists formats", "zzzzzz", "", true, "valid formats"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{formatFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					got, err := parseOutputFormat(cmd)
					if tt.wantError {
						if err == nil {
							t.Fatalf("expected error for %q", tt.format)
						}
						if !strings.Contains(err.Error(), tt.errMsg) {
							t.Fatalf("error %q does not contain %q", err, tt.errMsg)
						}
						return nil
					}
					if err != nil {
						t.Fatalf("parseOutputFormat failed: %v", err)
					}
					if got != tt.want {
						t.Fatalf("parseOutputFormat = %q, want %q", got, tt.want)
					}
					return nil
				},
			}

			if err := cmd.Run(context.Background(), []string{"cmd", "--format", tt.format}); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestRootListsCommands(t *testing.T) {
	root := New()

	for _, want := range []string{"serve", "provision", "snapshot", "report"} {
		found := false
		for _, cmd := range root.Commands {
			if cmd.Name == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command is missing %q", want)
		}
	}
}

func TestReportCommandFromSnapshotFile(t *testing.T) {
	dir := t.TempDir()

	snapPath := filepath.Join(dir, "snap.json")
	snapData := `{
		"kind": "Snapshot",
		"apiVersion": "snapshot.kubetrim.io/v1alpha1",
		"nodes": [{"node": "node-a", "cpuMillis": 250, "memoryMiB": 1379}],
		"pods": [
			{"namespace": "default", "pod": "web-0", "image": "registry.example.com/web:v2",
			 "cpuMillis": 90, "memoryMiB": 180, "requestedMemoryMiB": 512}
		]
	}`
	if err := os.WriteFile(snapPath, []byte(snapData), 0o644); err != nil {
		t.Fatal(err)
	}

	outPath := filepath.Join(dir, "report.json")

	root := New()
	err := root.Run(context.Background(), []string{
		"kubetrim", "report", "--snapshot", snapPath, "--output", outPath,
	})
	if err != nil {
		t.Fatalf("report command failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("report output missing: %v", err)
	}

	var rep report.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("report output is not valid JSON: %v", err)
	}
	if len(rep.Images) != 1 || rep.Images[0].Image != "registry.example.com/web:v2" {
		t.Errorf("unexpected report images: %+v", rep.Images)
	}
	if len(rep.Nodes) != 1 || rep.Nodes[0].Node != "node-a" || rep.Nodes[0].MaxCPUMillis != 250 {
		t.Errorf("unexpected report nodes: %+v", rep.Nodes)
	}
}

func TestReportCommandPushRequiresRegistry(t *testing.T) {
	dir := t.TempDir()
	snapPath := filepath.Join(dir, "snap.json")
	if err := os.WriteFile(snapPath, []byte(`{"nodes":[],"pods":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	root := New()
	err := root.Run(context.Background(), []string{
		"kubetrim", "report", "--snapshot", snapPath, "--push",
	})
	if err == nil || !strings.Contains(err.Error(), "--registry") {
		t.Fatalf("expected --registry error, got %v", err)
	}
}

func TestReportCommandUnknownFormat(t *testing.T) {
	root := New()
	err := root.Run(context.Background(), []string{
		"kubetrim", "report", "--snapshot", "ignored.json", "--format", "xml",
	})
	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Fatalf("expected format error, got %v", err)
	}
}
