package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to every configuration key when read from the environment
	EnvPrefix = "PIPELINE"

	defaultConfigPath = "./config/settings.yaml"
)

var (
	once    sync.Once
	initErr error
)

// envAliases binds the short, unprefixed environment names operators already use.
var envAliases = map[string]string{
	"brand.name":                       "BRAND_NAME",
	"brand.handle":                     "BRAND_HANDLE",
	"brand.posts_per_day":              "POSTS_PER_DAY",
	"providers.llm.openai_api_key":     "OPENAI_API_KEY",
	"providers.llm.groq_api_key":       "GROQ_API_KEY",
	"providers.heldra.api_key":         "HELDRA_API_KEY",
	"providers.heldra.base_url":        "HELDRA_API_URL",
	"providers.serpapi.api_key":        "SERPAPI_API_KEY",
	"providers.tiktok.access_token":    "TIKTOK_ACCESS_TOKEN",
	"providers.instagram.access_token": "INSTAGRAM_ACCESS_TOKEN",
	"providers.youtube.access_token":   "YOUTUBE_API_KEY",
}

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		initErr = load(defaultConfigPath)
	})
	return initErr
}

func load(configPath string) error {
	// A missing .env is the normal case outside local development
	_ = godotenv.Load()

	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for key, alias := range envAliases {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := viper.BindEnv(key, prefixed, alias); err != nil {
			return fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	configPath = filepath.Clean(configPath)
	if _, err := os.Stat(configPath); err == nil {
		viper.SetConfigFile(configPath)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error reading config file %s: %w", configPath, err)
	}

	if err := validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// Set overrides a value at runtime, used by CLI flags
func Set(key string, value any) {
	viper.Set(key, value)
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	minDur := viper.GetFloat64("pipeline.min_duration")
	maxDur := viper.GetFloat64("pipeline.max_duration")
	if minDur <= 0 || maxDur < minDur {
		return fmt.Errorf("invalid duration bounds: [%v, %v]", minDur, maxDur)
	}

	if len(viper.GetStringSlice("pipeline.platforms")) == 0 {
		return fmt.Errorf("at least one platform must be configured")
	}

	switch viper.GetString("store.backend") {
	case "sql", "json":
	default:
		return fmt.Errorf("unknown store backend: %q", viper.GetString("store.backend"))
	}

	env := viper.GetString("environment")
	if (env == "production" || env == "prod") && !viper.GetBool("providers.mock") {
		var cfg Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return err
		}
		if missing := cfg.Providers.MissingKeys(); len(missing) > 0 {
			return fmt.Errorf("missing credentials in production: %s", strings.Join(missing, ", "))
		}
	}

	// Auto-correct invalid worker count
	if viper.GetInt("processing.workers") <= 0 {
		viper.Set("processing.workers", 2)
	}
	if viper.GetInt("render.max_attempts") <= 0 {
		viper.Set("render.max_attempts", 60)
	}
	if viper.GetInt("publishing.max_attempts") <= 0 {
		viper.Set("publishing.max_attempts", 3)
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Pipeline.MinDuration <= 0 || c.Pipeline.MaxDuration < c.Pipeline.MinDuration {
		return fmt.Errorf("invalid duration bounds: [%v, %v]", c.Pipeline.MinDuration, c.Pipeline.MaxDuration)
	}
	if len(c.Pipeline.Platforms) == 0 {
		return fmt.Errorf("at least one platform must be configured")
	}
	if c.Processing.Workers <= 0 {
		c.Processing.Workers = 2
	}
	if c.Render.MaxAttempts <= 0 {
		c.Render.MaxAttempts = 60
	}
	if c.Publishing.MaxAttempts <= 0 {
		c.Publishing.MaxAttempts = 3
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("environment", "development")

	// Brand defaults
	viper.SetDefault("brand.name", "McLan Tax")
	viper.SetDefault("brand.handle", "@mclantax")
	viper.SetDefault("brand.posts_per_day", 3)

	// Pipeline defaults
	viper.SetDefault("pipeline.platforms", []string{"tiktok", "instagram", "youtube_shorts"})
	viper.SetDefault("pipeline.content_topics", []string{"finance", "lifestyle", "controversy", "taxes", "trending_topics"})
	viper.SetDefault("pipeline.trend_query", "finance trending topics")
	viper.SetDefault("pipeline.min_duration", 3.0)
	viper.SetDefault("pipeline.max_duration", 45.0)
	viper.SetDefault("pipeline.default_voice", "baby")
	viper.SetDefault("pipeline.default_visual", "cute_baby")
	viper.SetDefault("pipeline.default_caption_style", "viral_meme")
	viper.SetDefault("pipeline.run_timeout", 10*time.Minute)
	viper.SetDefault("pipeline.prompts_file", "")

	// Provider defaults
	viper.SetDefault("providers.mock", false)
	viper.SetDefault("providers.llm.provider", "openai")
	viper.SetDefault("providers.llm.openai_api_key", "")
	viper.SetDefault("providers.llm.openai_base_url", "")
	viper.SetDefault("providers.llm.openai_model", "gpt-4o-mini")
	viper.SetDefault("providers.llm.groq_api_key", "")
	viper.SetDefault("providers.llm.groq_model", "llama-3.3-70b-versatile")
	viper.SetDefault("providers.llm.timeout", 60*time.Second)
	viper.SetDefault("providers.heldra.api_key", "")
	viper.SetDefault("providers.heldra.base_url", "https://api.heldra.com/v1")
	viper.SetDefault("providers.heldra.timeout", 30*time.Second)
	viper.SetDefault("providers.serpapi.api_key", "")
	viper.SetDefault("providers.serpapi.base_url", "https://serpapi.com/search")
	viper.SetDefault("providers.serpapi.timeout", 15*time.Second)
	viper.SetDefault("providers.tiktok.access_token", "")
	viper.SetDefault("providers.tiktok.base_url", "https://open-api.tiktok.com")
	viper.SetDefault("providers.instagram.access_token", "")
	viper.SetDefault("providers.instagram.base_url", "https://graph.instagram.com/v17.0")
	viper.SetDefault("providers.youtube.access_token", "")
	viper.SetDefault("providers.youtube.base_url", "https://www.googleapis.com/upload/youtube/v3/videos")

	// Stage defaults
	viper.SetDefault("trends.cache_ttl", 1*time.Hour)
	viper.SetDefault("trends.max_results", 5)
	viper.SetDefault("render.poll_interval", 5*time.Second)
	viper.SetDefault("render.max_attempts", 60)
	viper.SetDefault("captions.words_per_segment", 3)
	viper.SetDefault("publishing.max_attempts", 3)
	viper.SetDefault("publishing.backoff", 2*time.Second)
	viper.SetDefault("publishing.rate_per_minute", 30)
	viper.SetDefault("publishing.timeout", 2*time.Minute)
	viper.SetDefault("publishing.hold_for_review", true)

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)
	viper.SetDefault("server.max_body_bytes", 1048576)

	// Database defaults
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.path", "./data/pipeline.db")
	viper.SetDefault("database.dsn", "")
	viper.SetDefault("database.max_connections", 10)
	viper.SetDefault("database.max_idle_connections", 5)
	viper.SetDefault("database.connection_max_lifetime", 1*time.Hour)
	viper.SetDefault("database.verbose", false)

	// Review store defaults
	viper.SetDefault("store.backend", "sql")
	viper.SetDefault("store.json_path", "./data/videos.json")

	// Processing defaults
	viper.SetDefault("processing.workers", 2)
	viper.SetDefault("processing.poll_interval", 2*time.Second)
	viper.SetDefault("processing.job_timeout", 15*time.Minute)
	viper.SetDefault("processing.max_retries", 1)
	viper.SetDefault("processing.job_retention_days", 7)
	viper.SetDefault("processing.ffmpeg_path", "ffmpeg")
	viper.SetDefault("processing.ffprobe_path", "ffprobe")
	viper.SetDefault("processing.ffmpeg_timeout", 5*time.Minute)

	// Storage defaults
	viper.SetDefault("storage.backend", "local")
	viper.SetDefault("storage.work_dir", "./tmp")
	viper.SetDefault("storage.output_dir", "./data/videos")
	viper.SetDefault("storage.public_base_url", "")
	viper.SetDefault("storage.bucket", "")
	viper.SetDefault("storage.prefix", "captioned/")
	viper.SetDefault("storage.credentials_file", "")
	viper.SetDefault("storage.max_temp_age", 24*time.Hour)
	viper.SetDefault("storage.cleanup_interval", 1*time.Hour)
	viper.SetDefault("storage.max_download_size", int64(500*1024*1024))

	// Cache defaults
	viper.SetDefault("cache.backend", "memory")
	viper.SetDefault("cache.redis_addr", "localhost:6379")
	viper.SetDefault("cache.redis_password", "")
	viper.SetDefault("cache.redis_db", 0)
	viper.SetDefault("cache.cleanup_interval", 5*time.Minute)
	viper.SetDefault("cache.response_ttl", 5*time.Second)

	// Rate limiting defaults
	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.endpoints", map[string]int{
		"review":   60,
		"generate": 2,
		"default":  120,
	})

	// Security defaults
	viper.SetDefault("security.enable_cors", true)
	viper.SetDefault("security.cors_origins", []string{"*"})
	viper.SetDefault("security.cors_methods", []string{"GET", "POST", "OPTIONS"})
	viper.SetDefault("security.cors_headers", []string{"Content-Type", "Authorization", "X-Request-Id"})

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")

	// Monitoring defaults
	viper.SetDefault("monitoring.tracing_enabled", false)
	viper.SetDefault("monitoring.service_name", "content-pipeline")
	viper.SetDefault("monitoring.otlp_endpoint", "")
	viper.SetDefault("monitoring.otlp_insecure", true)
	viper.SetDefault("monitoring.sample_ratio", 1.0)
}
