package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mclantax/content-pipeline/pkg/config"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

var (
	appConfig *config.Config
	appLog    *logger.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "content-pipeline",
	Short: "Branded short-form video pipeline",
	Long: `Content Pipeline - turns trending topics into branded short videos

Each run goes through six stages:
  • research   find a trending topic
  • script     write a short branded script
  • render     generate the video
  • caption    burn in word-timed captions
  • copy       write per-platform post copy
  • publish    hold for review, or post to TikTok, Instagram and YouTube Shorts

Providers without credentials run in mock mode, so the whole pipeline can be
exercised offline.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd returns the root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging including SQL statements")
}

// loadConfig initializes configuration and logging for commands that need them
func loadConfig(cmd *cobra.Command) error {
	if err := config.Init(); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		config.Set("database.verbose", true)
		config.Set("logging.level", "debug")
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		config.Set("logging.level", level)
	}
	if jsonLogs, _ := cmd.Flags().GetBool("json-logs"); jsonLogs {
		config.Set("logging.format", "json")
	}

	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format == "json")
	if err != nil {
		return err
	}

	appConfig = cfg
	appLog = log
	return nil
}
