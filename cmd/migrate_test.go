package cmd

import (
	"strings"
	"testing"
)

func TestMigrateCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		expectedOutput string
	}{
		{
			name:           "migrate command with help",
			args:           []string{"migrate", "--help"},
			expectedOutput: "Manage database migrations",
		},
		{
			name:           "migrate up subcommand",
			args:           []string{"migrate", "up", "--help"},
			expectedOutput: "Apply all pending database migrations",
		},
		{
			name:           "migrate status subcommand",
			args:           []string{"migrate", "status", "--help"},
			expectedOutput: "Display the current status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, tt.args...)
			if err != nil {
				t.Errorf("Execute() error = %v", err)
			}
			if !strings.Contains(out, tt.expectedOutput) {
				t.Errorf("Expected output to contain %q, got %q", tt.expectedOutput, out)
			}
		})
	}
}

func TestMigrateCommandSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	migrateCmd, _, err := cmd.Find([]string{"migrate"})
	if err != nil {
		t.Fatalf("Failed to find migrate command: %v", err)
	}

	expectedSubcommands := []string{"up", "status"}
	for _, subCmd := range expectedSubcommands {
		found := false
		for _, child := range migrateCmd.Commands() {
			if child.Name() == subCmd {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected migrate command to have %q subcommand", subCmd)
		}
	}
}

func TestMigrateLifecycle(t *testing.T) {
	useTempStores(t, "sql")
	t.Cleanup(func() { migrateCmd.PersistentFlags().Set("dry-run", "false") })

	steps := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name:     "status before migrating",
			args:     []string{"migrate", "status"},
			contains: []string{"videos", "jobs", "pending"},
		},
		{
			name:     "dry run lists tables",
			args:     []string{"migrate", "up", "--dry-run"},
			contains: []string{"Dry run mode", "Would create: videos, jobs"},
		},
		{
			name:     "apply",
			args:     []string{"migrate", "up", "--dry-run=false"},
			contains: []string{"Migrations applied (2 new tables)"},
		},
		{
			name:     "status after migrating",
			args:     []string{"migrate", "status"},
			contains: []string{"applied"},
		},
	}

	for _, step := range steps {
		out, err := executeCommand(t, step.args...)
		if err != nil {
			t.Fatalf("%s: Execute() error = %v", step.name, err)
		}
		for _, want := range step.contains {
			if !strings.Contains(out, want) {
				t.Errorf("%s: expected output to contain %q, got %q", step.name, want, out)
			}
		}
	}
}
