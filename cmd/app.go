package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mclantax/content-pipeline/api/types"
	"github.com/mclantax/content-pipeline/internal/database"
	"github.com/mclantax/content-pipeline/internal/services/cache"
	"github.com/mclantax/content-pipeline/internal/services/captions"
	"github.com/mclantax/content-pipeline/internal/services/copywriter"
	"github.com/mclantax/content-pipeline/internal/services/jobs"
	"github.com/mclantax/content-pipeline/internal/services/llm"
	"github.com/mclantax/content-pipeline/internal/services/pipeline"
	"github.com/mclantax/content-pipeline/internal/services/publisher"
	"github.com/mclantax/content-pipeline/internal/services/render"
	"github.com/mclantax/content-pipeline/internal/services/scripts"
	"github.com/mclantax/content-pipeline/internal/services/storage"
	"github.com/mclantax/content-pipeline/internal/services/trends"
	"github.com/mclantax/content-pipeline/internal/services/videos"
	"github.com/mclantax/content-pipeline/pkg/config"
	"github.com/mclantax/content-pipeline/pkg/download"
	"github.com/mclantax/content-pipeline/pkg/ffmpeg"
	"github.com/mclantax/content-pipeline/pkg/logger"
	"github.com/mclantax/content-pipeline/pkg/prompts"
)

// App wires every component from one configuration
type App struct {
	Config   *config.Config
	Log      *logger.Logger
	DB       *database.DB
	Videos   *videos.Service
	Jobs     jobs.Service
	Pipeline *pipeline.Orchestrator
	Cache    cache.Cache

	closers []func() error
}

// appOptions select the optional parts of the App
type appOptions struct {
	// withQueue opens the database even when the review store is a JSON file
	withQueue bool
}

// newApp builds the application. Providers without credentials are replaced
// by their mock implementation here and nowhere else.
func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger, opts appOptions) (*App, error) {
	app := &App{Config: cfg, Log: log}

	useSQL := cfg.Store.Backend != "json"
	if useSQL || opts.withQueue {
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, db.Close)
		if err := db.AutoMigrate(); err != nil {
			app.Close()
			return nil, err
		}
		app.DB = db
		app.Jobs = jobs.NewService(jobs.NewRepository(db.DB), log.With("component", "jobs"))
	}

	var repo videos.Repository
	if useSQL {
		repo = videos.NewGormRepository(app.DB.DB)
	} else {
		fileRepo, err := videos.NewFileRepository(cfg.Store.JSONPath)
		if err != nil {
			app.Close()
			return nil, err
		}
		repo = fileRepo
	}

	deps, err := app.stages(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	live := publisher.New(cfg, cfg.Providers.HasHeldra(), log)
	if cfg.Publishing.HoldForReview {
		deps.Publisher = publisher.NewHoldForReview(cfg.Pipeline.Platforms)
	} else {
		deps.Publisher = live
	}

	app.Videos = videos.NewService(repo, live, log.With("component", "videos"))
	app.Pipeline = pipeline.New(deps, pipeline.Options{
		Query:        cfg.Pipeline.TrendQuery,
		Voice:        cfg.Pipeline.DefaultVoice,
		Visual:       cfg.Pipeline.DefaultVisual,
		CaptionStyle: cfg.Pipeline.DefaultCaptionStyle,
		RunTimeout:   cfg.Pipeline.RunTimeout,
	}, log)

	return app, nil
}

// stages builds the first five stage implementations
func (a *App) stages(ctx context.Context) (pipeline.Dependencies, error) {
	cfg, log := a.Config, a.Log

	trendCache, err := cache.New(ctx, cfg.Cache, log)
	if err != nil {
		return pipeline.Dependencies{}, fmt.Errorf("creating cache: %w", err)
	}
	a.closers = append(a.closers, trendCache.Close)
	a.Cache = trendCache

	p, err := prompts.LoadFrom(cfg.Pipeline.PromptsFile)
	if err != nil {
		return pipeline.Dependencies{}, err
	}

	policy := scripts.Policy{
		Brand:       cfg.Brand.Name,
		MinDuration: cfg.Pipeline.MinDuration,
		MaxDuration: cfg.Pipeline.MaxDuration,
	}
	brand := copywriter.Brand{Name: cfg.Brand.Name, Handle: cfg.Brand.Handle}

	deps := pipeline.Dependencies{
		Trends:   trends.New(cfg, trendCache, log),
		Scripts:  scripts.NewTemplateComposer(policy, log.With("component", "scripts")),
		Renderer: render.New(cfg, log),
		Captions: captions.NewMockOverlay(log.With("component", "captions")),
		Copy:     copywriter.NewTemplateGenerator(brand, cfg.Pipeline.Platforms, log.With("component", "copy")),
	}

	if cfg.Providers.HasLLM() {
		completer, err := llm.New(cfg.Providers.LLM)
		if err != nil {
			log.Warn("LLM unavailable, using templates", "provider", cfg.Providers.LLM.Provider, "error", err)
		} else {
			deps.Scripts = scripts.NewLLMComposer(completer, p, policy, log.With("component", "scripts"))
			deps.Copy = copywriter.NewLLMGenerator(completer, p, brand, cfg.Pipeline.Platforms, log.With("component", "copy"))
		}
	}

	if cfg.Providers.HasHeldra() {
		overlay, err := a.ffmpegOverlay(ctx)
		if err != nil {
			return pipeline.Dependencies{}, err
		}
		deps.Captions = overlay
	}

	return deps, nil
}

func (a *App) ffmpegOverlay(ctx context.Context) (*captions.FFmpegOverlay, error) {
	cfg, log := a.Config, a.Log.With("component", "captions")

	ff := ffmpeg.New(cfg.Processing.FFmpegPath, cfg.Processing.FFprobePath, cfg.Processing.FFmpegTimeout)
	if err := ff.ValidateBinaries(); err != nil {
		return nil, err
	}

	dlOpts := download.DefaultOptions()
	dlOpts.TempDir = cfg.Storage.WorkDir
	if cfg.Storage.MaxDownloadSize > 0 {
		dlOpts.MaxSize = cfg.Storage.MaxDownloadSize
	}

	store, err := newObjectStore(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.Close)

	return captions.NewFFmpegOverlay(ff, download.NewDownloader(dlOpts), store, cfg.Storage.WorkDir, log), nil
}

func newObjectStore(ctx context.Context, cfg config.StorageConfig) (storage.ObjectStore, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "local":
		store, err := storage.NewLocalStore(cfg.OutputDir, cfg.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "gcs":
		store, err := storage.NewGCSStore(ctx, cfg.Bucket, cfg.Prefix, cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %q", cfg.Backend)
	}
}

// Mode reports whether any provider runs mocked
func (a *App) Mode() string {
	if len(a.Config.Providers.MissingKeys()) > 0 {
		return types.ModeDemo
	}
	return types.ModeLive
}

// ReportMode logs which providers run in mock mode
func (a *App) ReportMode() {
	missing := a.Config.Providers.MissingKeys()
	if len(missing) == 0 {
		a.Log.Info("All providers configured, running live")
		return
	}
	a.Log.Warn("Running in demo mode, missing keys fall back to mocks", "missing", strings.Join(missing, ", "))
}

// Close releases resources in reverse order of acquisition
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
