package config

import "time"

// Config holds all application configuration
type Config struct {
	Environment string           `mapstructure:"environment"`
	Brand       BrandConfig      `mapstructure:"brand"`
	Pipeline    PipelineConfig   `mapstructure:"pipeline"`
	Providers   ProvidersConfig  `mapstructure:"providers"`
	Trends      TrendsConfig     `mapstructure:"trends"`
	Render      RenderConfig     `mapstructure:"render"`
	Captions    CaptionsConfig   `mapstructure:"captions"`
	Publishing  PublishingConfig `mapstructure:"publishing"`
	Server      ServerConfig     `mapstructure:"server"`
	Database    DatabaseConfig   `mapstructure:"database"`
	Store       StoreConfig      `mapstructure:"store"`
	Processing  ProcessingConfig `mapstructure:"processing"`
	Storage     StorageConfig    `mapstructure:"storage"`
	Cache       CacheConfig      `mapstructure:"cache"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limiting"`
	Security    SecurityConfig   `mapstructure:"security"`
	Logging     LoggingConfig    `mapstructure:"logging"`
	Monitoring  MonitoringConfig `mapstructure:"monitoring"`
}

// BrandConfig identifies who the content is made for
type BrandConfig struct {
	Name        string `mapstructure:"name"`
	Handle      string `mapstructure:"handle"`
	PostsPerDay int    `mapstructure:"posts_per_day"`
}

// PipelineConfig controls a single content pipeline run
type PipelineConfig struct {
	Platforms           []string      `mapstructure:"platforms"`
	ContentTopics       []string      `mapstructure:"content_topics"`
	TrendQuery          string        `mapstructure:"trend_query"`
	MinDuration         float64       `mapstructure:"min_duration"`
	MaxDuration         float64       `mapstructure:"max_duration"`
	DefaultVoice        string        `mapstructure:"default_voice"`
	DefaultVisual       string        `mapstructure:"default_visual"`
	DefaultCaptionStyle string        `mapstructure:"default_caption_style"`
	RunTimeout          time.Duration `mapstructure:"run_timeout"`
	PromptsFile         string        `mapstructure:"prompts_file"`
}

// ProvidersConfig holds credentials and endpoints for external services
type ProvidersConfig struct {
	LLM       LLMConfig     `mapstructure:"llm"`
	Heldra    HeldraConfig  `mapstructure:"heldra"`
	SerpAPI   SerpAPIConfig `mapstructure:"serpapi"`
	TikTok    PlatformAuth  `mapstructure:"tiktok"`
	Instagram PlatformAuth  `mapstructure:"instagram"`
	YouTube   PlatformAuth  `mapstructure:"youtube"`
	Mock      bool          `mapstructure:"mock"`
}

// LLMConfig selects and configures the text generation backend
type LLMConfig struct {
	Provider      string        `mapstructure:"provider"`
	OpenAIAPIKey  string        `mapstructure:"openai_api_key"`
	OpenAIBaseURL string        `mapstructure:"openai_base_url"`
	OpenAIModel   string        `mapstructure:"openai_model"`
	GroqAPIKey    string        `mapstructure:"groq_api_key"`
	GroqModel     string        `mapstructure:"groq_model"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// HeldraConfig configures the video generation API
type HeldraConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SerpAPIConfig configures the web search API
type SerpAPIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// PlatformAuth is an access token plus an optional endpoint override
type PlatformAuth struct {
	AccessToken string `mapstructure:"access_token"`
	BaseURL     string `mapstructure:"base_url"`
}

// TrendsConfig configures trend research
type TrendsConfig struct {
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
	MaxResults int           `mapstructure:"max_results"`
}

// RenderConfig configures the generate-then-poll loop
type RenderConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
}

// CaptionsConfig configures subtitle burn-in
type CaptionsConfig struct {
	WordsPerSegment int `mapstructure:"words_per_segment"`
}

// PublishingConfig configures per-platform posting
type PublishingConfig struct {
	MaxAttempts   int           `mapstructure:"max_attempts"`
	Backoff       time.Duration `mapstructure:"backoff"`
	RatePerMin    int           `mapstructure:"rate_per_minute"`
	Timeout       time.Duration `mapstructure:"timeout"`
	HoldForReview bool          `mapstructure:"hold_for_review"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	DSN             string        `mapstructure:"dsn"`
	MaxConnections  int           `mapstructure:"max_connections"`
	MaxIdle         int           `mapstructure:"max_idle_connections"`
	ConnMaxLifetime time.Duration `mapstructure:"connection_max_lifetime"`
	Verbose         bool          `mapstructure:"verbose"`
}

// StoreConfig selects the review store backend
type StoreConfig struct {
	Backend  string `mapstructure:"backend"`
	JSONPath string `mapstructure:"json_path"`
}

// ProcessingConfig holds job processing configuration
type ProcessingConfig struct {
	Workers          int           `mapstructure:"workers"`
	PollInterval     time.Duration `mapstructure:"poll_interval"`
	JobTimeout       time.Duration `mapstructure:"job_timeout"`
	MaxRetries       int           `mapstructure:"max_retries"`
	JobRetentionDays int           `mapstructure:"job_retention_days"`
	FFmpegPath       string        `mapstructure:"ffmpeg_path"`
	FFprobePath      string        `mapstructure:"ffprobe_path"`
	FFmpegTimeout    time.Duration `mapstructure:"ffmpeg_timeout"`
}

// StorageConfig controls where media artifacts live
type StorageConfig struct {
	Backend         string        `mapstructure:"backend"`
	WorkDir         string        `mapstructure:"work_dir"`
	OutputDir       string        `mapstructure:"output_dir"`
	PublicBaseURL   string        `mapstructure:"public_base_url"`
	Bucket          string        `mapstructure:"bucket"`
	Prefix          string        `mapstructure:"prefix"`
	CredentialsFile string        `mapstructure:"credentials_file"`
	MaxTempAge      time.Duration `mapstructure:"max_temp_age"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	MaxDownloadSize int64         `mapstructure:"max_download_size"`
}

// CacheConfig selects the cache backend
type CacheConfig struct {
	Backend         string        `mapstructure:"backend"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	ResponseTTL     time.Duration `mapstructure:"response_ttl"`
}

// RateLimitConfig holds per-client API rate limits
type RateLimitConfig struct {
	Enabled   bool           `mapstructure:"enabled"`
	Endpoints map[string]int `mapstructure:"endpoints"`
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	EnableCORS  bool     `mapstructure:"enable_cors"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	CORSMethods []string `mapstructure:"cors_methods"`
	CORSHeaders []string `mapstructure:"cors_headers"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MonitoringConfig holds tracing configuration
type MonitoringConfig struct {
	TracingEnabled bool              `mapstructure:"tracing_enabled"`
	ServiceName    string            `mapstructure:"service_name"`
	OTLPEndpoint   string            `mapstructure:"otlp_endpoint"`
	OTLPInsecure   bool              `mapstructure:"otlp_insecure"`
	OTLPHeaders    map[string]string `mapstructure:"otlp_headers"`
	SampleRatio    float64           `mapstructure:"sample_ratio"`
}
