package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/mclantax/content-pipeline/pkg/config"
)

// executeCommand runs the root command with args and returns everything it printed
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	resetHelpFlags(cmd)
	return buf.String(), err
}

// resetHelpFlags clears --help so a later run of the same command executes it
func resetHelpFlags(c *cobra.Command) {
	if f := c.Flags().Lookup("help"); f != nil {
		_ = f.Value.Set("false")
		f.Changed = false
	}
	for _, sub := range c.Commands() {
		resetHelpFlags(sub)
	}
}

// useTempStores points every on-disk store at a fresh temp dir
func useTempStores(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()

	config.Set("store.backend", backend)
	config.Set("store.json_path", filepath.Join(dir, "videos.json"))
	config.Set("database.path", filepath.Join(dir, "pipeline.db"))
	config.Set("storage.work_dir", filepath.Join(dir, "tmp"))
	config.Set("storage.output_dir", filepath.Join(dir, "videos"))
	config.Set("providers.mock", true)

	t.Cleanup(func() {
		config.Set("store.backend", "sql")
		config.Set("providers.mock", false)
	})
	return dir
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		wantErr        bool
		expectedOutput string
	}{
		{
			name:           "root command without args shows help",
			args:           []string{},
			wantErr:        false,
			expectedOutput: "Content Pipeline",
		},
		{
			name:           "root command with --help",
			args:           []string{"--help"},
			wantErr:        false,
			expectedOutput: "Available Commands:",
		},
		{
			name:    "root command with invalid flag",
			args:    []string{"--invalid-flag"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.expectedOutput != "" && !strings.Contains(out, tt.expectedOutput) {
				t.Errorf("Expected output to contain %q, got %q", tt.expectedOutput, out)
			}
		})
	}
}

func TestRootSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	for _, name := range []string{"serve", "run", "config", "migrate", "seed", "version"} {
		found, _, err := cmd.Find([]string{name})
		if err != nil || found.Name() != name {
			t.Errorf("Expected %q subcommand to be registered", name)
		}
	}
}

func TestLogFlags(t *testing.T) {
	cmd := NewRootCmd()

	logFlag := cmd.PersistentFlags().Lookup("log-level")
	if logFlag == nil {
		t.Fatal("Expected log-level flag to be registered")
	}
	if logFlag.DefValue != "" {
		t.Errorf("Expected log-level to default to the configured level, got %q", logFlag.DefValue)
	}

	if cmd.PersistentFlags().Lookup("json-logs") == nil {
		t.Error("Expected json-logs flag to be registered")
	}

	verbose := cmd.PersistentFlags().ShorthandLookup("v")
	if verbose == nil || verbose.Name != "verbose" {
		t.Error("Expected -v to be the verbose shorthand")
	}
}
