package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample videos for review",
	Long: `Insert the sample review records into the configured store.

Nothing is written when the store already holds videos.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}
	defer appLog.Sync()

	app, err := newApp(cmd.Context(), appConfig, appLog, appOptions{})
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Close()

	n, err := app.Videos.Seed(cmd.Context())
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), warnStyle.Render("Store is not empty, nothing seeded"))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Seeded %d sample videos", n)))
	return nil
}
