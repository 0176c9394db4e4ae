package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/mclantax/content-pipeline/api/types"
	"github.com/mclantax/content-pipeline/pkg/config"
)

// Server represents the HTTP server
type Server struct {
	engine       *gin.Engine
	httpServer   *http.Server
	cfg          *config.Config
	rateLimiters *RateLimiters

	// Dependencies for handlers
	dependencies *types.Dependencies
}

// NewServer creates a new HTTP server
func NewServer(address string, cfg *config.Config) *Server {
	// Create Gin engine with recovery middleware only
	engine := gin.New()
	engine.Use(gin.Recovery())

	if cfg == nil {
		cfg = &config.Config{}
	}

	return &Server{
		engine:       engine,
		cfg:          cfg,
		rateLimiters: NewRateLimiters(),
		httpServer: &http.Server{
			Addr:           address,
			Handler:        engine,
			ReadTimeout:    orDefault(cfg.Server.ReadTimeout, 30*time.Second),
			WriteTimeout:   orDefault(cfg.Server.WriteTimeout, 30*time.Second),
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: orDefaultInt(cfg.Server.MaxHeaderBytes, 1<<20),
		},
	}
}

// SetDependencies sets all handler dependencies
func (s *Server) SetDependencies(deps *types.Dependencies) {
	s.dependencies = deps
}

// Engine returns the Gin engine for testing
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Initialize sets up middleware and routes
func (s *Server) Initialize() error {
	s.setupMiddleware()
	return RegisterRoutes(s.engine, s.dependencies, s.cfg, s.rateLimiters)
}

// setupMiddleware configures global middleware
func (s *Server) setupMiddleware() {
	s.engine.Use(RequestID())

	if s.cfg.Monitoring.TracingEnabled {
		s.engine.Use(otelgin.Middleware(s.cfg.Monitoring.ServiceName))
	}

	s.engine.Use(gin.Logger())

	if s.cfg.Security.EnableCORS {
		s.engine.Use(CORS(s.cfg.Security))
	}

	maxBody := s.cfg.Server.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	s.engine.Use(RequestSizeLimitWithSize(maxBody))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiters.Stop()
	return s.httpServer.Shutdown(ctx)
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

func orDefaultInt(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	return n
}
