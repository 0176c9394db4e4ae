package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mclantax/content-pipeline/internal/database"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Manage database migrations for the Content Pipeline.

The schema is owned by GORM models; migrations create the videos and jobs
tables and add any missing columns and indexes.

Available subcommands:
  up      - Apply all pending migrations
  status  - Show current migration status`,
}

// migrateUpCmd applies pending migrations
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Long: `Apply all pending database migrations.

Creates missing tables and columns for every model, bringing the schema
up to date. Existing data is never dropped.`,
	RunE: runMigrateUp,
}

// migrateStatusCmd shows migration status
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	Long: `Display the current status of database migrations.

Lists every table the service owns and whether it exists yet.`,
	RunE: runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateCmd.PersistentFlags().Bool("dry-run", false, "show what would be done without making changes")
}

func openDatabase(cmd *cobra.Command) (*database.DB, error) {
	if err := loadConfig(cmd); err != nil {
		return nil, err
	}
	db, err := database.Open(appConfig.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	db, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	pending := db.PendingMigrations()
	if dryRun {
		fmt.Fprintln(out, "Dry run mode - no changes will be made")
		if len(pending) == 0 {
			fmt.Fprintln(out, "No tables to create, columns will be reconciled")
			return nil
		}
		fmt.Fprintf(out, "Would create: %s\n", strings.Join(pending, ", "))
		return nil
	}

	if err := db.AutoMigrate(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrations applied (%d new tables)\n", len(pending))
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	db, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	pending := make(map[string]bool)
	for _, table := range db.PendingMigrations() {
		pending[table] = true
	}

	fmt.Fprintln(out, "Database Migration Status")
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintf(out, "Driver: %s\n\n", appConfig.Database.Driver)
	for _, table := range database.TableNames(db) {
		status := successStyle.Render("applied")
		if pending[table] {
			status = warnStyle.Render("pending")
		}
		fmt.Fprintf(out, "  %-10s %s\n", table, status)
	}
	return nil
}
