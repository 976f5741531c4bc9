package server

import (
	"time"

	"skillparse/internal/ai"
	"skillparse/internal/config"
	skillparseErrors "skillparse/internal/errors"
	"skillparse/internal/pipeline"
	"skillparse/internal/store"
)

// ErrorResponse represents an error response body
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ProcessResponse is the response body for a processed resume
type ProcessResponse struct {
	store.StoredCandidate
	UsedFallback bool `json:"used_fallback"`
}

// CandidatesResponse is the response body for a candidate query
type CandidatesResponse struct {
	Candidates []store.StoredCandidate `json:"candidates"`
	Count      int                     `json:"count"`
}

// Server holds configuration and collaborators for the HTTP server.
// The AI service, pipeline and store are created once at startup and
// shared across requests.
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Upload size limit
	MaxUploadSize int64

	// Rate limiting. The settings themselves come from the live config
	// snapshot (AppConfig.RateLimitSnapshot) so file reloads take effect
	// per request; the limiter buckets are built once at startup.
	RateLimiter *RateLimiter

	// Processing collaborators
	AIService *ai.Service
	Pipeline  *pipeline.Pipeline
	Store     *store.CandidateStore

	// Logger
	Logger *skillparseErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host          string
	Port          string
	Version       string
	APIKeys       []string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	MaxUploadSize int64
}

// NewServer creates a new Server instance
func NewServer(appCfg *config.Config, cfg ServerConfig, aiService *ai.Service, candidateStore *store.CandidateStore, logger *skillparseErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	// The limiter is built whenever a sustained rate is configured, even if
	// rate limiting starts out disabled, so a config reload can switch it on
	// without a restart. Rate and burst themselves are fixed at startup.
	var rateLimiter *RateLimiter
	if rl := appCfg.Server.RateLimit; rl.RequestsPerMin > 0 {
		rateLimiter = NewRateLimiter(rl.RequestsPerMin, rl.BurstCapacity, logger)
	}

	return &Server{
		Host:          cfg.Host,
		Port:          cfg.Port,
		Version:       cfg.Version,
		AppConfig:     appCfg,
		APIKeys:       apiKeyMap,
		ReadTimeout:   cfg.ReadTimeout,
		WriteTimeout:  cfg.WriteTimeout,
		IdleTimeout:   cfg.IdleTimeout,
		MaxUploadSize: cfg.MaxUploadSize,
		RateLimiter:   rateLimiter,
		AIService:     aiService,
		Pipeline:      pipeline.New(aiService.Provider, logger),
		Store:         candidateStore,
		Logger:        logger,
	}
}
