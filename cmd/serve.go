package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mclantax/content-pipeline/api"
	"github.com/mclantax/content-pipeline/api/types"
	"github.com/mclantax/content-pipeline/internal/services/cleanup"
	"github.com/mclantax/content-pipeline/internal/services/workers"
	"github.com/mclantax/content-pipeline/internal/telemetry"
)

var (
	serverHost string
	serverPort int
	serveSeed  bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the review dashboard API",
	Long: `Start the Content Pipeline API server with the configured settings.

The server exposes the review queue for generated videos, accepts pipeline
runs as background jobs and reports job progress. Background workers and
the temp file janitor run in the same process.

Example:
  content-pipeline serve
  content-pipeline serve --port 9090
  content-pipeline serve --host 0.0.0.0 --port 8080 --seed`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
	serveCmd.Flags().BoolVar(&serveSeed, "seed", false, "insert sample videos when the store is empty")
}

func runServer(cmd *cobra.Command, args []string) error {
	if serverPort < 0 || serverPort > 65535 {
		return fmt.Errorf("invalid port: %d", serverPort)
	}
	if err := loadConfig(cmd); err != nil {
		return err
	}
	defer appLog.Sync()

	if serverHost == "" {
		serverHost = appConfig.Server.Host
	}
	if serverPort == 0 {
		serverPort = appConfig.Server.Port
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.Init(ctx, appConfig.Monitoring, appConfig.Environment, Version, appLog)

	app, err := newApp(ctx, appConfig, appLog, appOptions{withQueue: true})
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Close()
	app.ReportMode()

	if serveSeed {
		n, err := app.Videos.Seed(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed videos: %w", err)
		}
		appLog.Info("Seeded sample videos", "count", n)
	}

	pool := workers.NewWorkerPool(app.Jobs, appConfig.Processing.Workers, appConfig.Processing.PollInterval, appConfig.Processing.JobTimeout, appLog)
	pool.RegisterProcessor(workers.NewPipelineProcessor(app.Jobs, app.Pipeline, app.Videos, appLog))
	pool.RegisterProcessor(workers.NewPublishProcessor(app.Jobs, app.Videos, appLog))
	if err := pool.Start(ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}

	janitor := cleanup.NewService(
		appConfig.Storage.WorkDir,
		appConfig.Storage.MaxTempAge,
		appConfig.Storage.CleanupInterval,
		app.Jobs,
		appConfig.Processing.JobRetentionDays,
		appLog,
	)
	janitor.Start(ctx)

	addr := fmt.Sprintf("%s:%d", serverHost, serverPort)
	server := api.NewServer(addr, appConfig)
	server.SetDependencies(&types.Dependencies{
		DB:           app.DB,
		VideoService: app.Videos,
		JobService:   app.Jobs,
		Pipeline:     app.Pipeline,
		Cache:        app.Cache,
		Logger:       appLog,
		Mode:         app.Mode(),
		Version:      Version,
	})
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	appLog.Info("Server is ready to handle requests", "addr", addr, "mode", app.Mode())

	var runErr error
	select {
	case <-ctx.Done():
		appLog.Info("Shutting down server")
	case runErr = <-serverErr:
		appLog.Error("Server stopped unexpectedly", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Server forced to shutdown", "error", err)
		runErr = errors.Join(runErr, err)
	}
	pool.Stop()
	janitor.Stop()
	if err := shutdownTracing(shutdownCtx); err != nil {
		appLog.Warn("Failed to flush traces", "error", err)
	}

	appLog.Info("Server gracefully stopped")
	return runErr
}
