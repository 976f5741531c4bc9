package server

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"skillparse/internal/config"
	"skillparse/internal/errors"
)

func newRateLimitedServer(rl config.RateLimitConfig) *Server {
	logger := errors.NewLogger(slog.LevelError)
	cfg := &config.Config{}
	cfg.Server.RateLimit = rl

	return &Server{
		AppConfig:   cfg,
		RateLimiter: NewRateLimiter(rl.RequestsPerMin, rl.BurstCapacity, logger),
		Logger:      logger,
	}
}

func rateLimitedHandler(s *Server) http.HandlerFunc {
	return s.rateLimitMiddleware()(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddlewareEnforcesBurst(t *testing.T) {
	s := newRateLimitedServer(config.RateLimitConfig{
		Enabled:        true,
		RequestsPerMin: 1,
		BurstCapacity:  1,
		ByIP:           true,
	})
	defer s.RateLimiter.Close()
	handler := rateLimitedHandler(s)

	req := httptest.NewRequest(http.MethodPost, "/api/process", nil)

	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", rec.Code)
	}
}

func TestRateLimitMiddlewareDisabled(t *testing.T) {
	s := newRateLimitedServer(config.RateLimitConfig{
		Enabled:        false,
		RequestsPerMin: 1,
		BurstCapacity:  1,
		ByIP:           true,
	})
	defer s.RateLimiter.Close()
	handler := rateLimitedHandler(s)

	req := httptest.NewRequest(http.MethodPost, "/api/process", nil)
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200 while disabled", i, rec.Code)
		}
	}
}

func TestRateLimitMiddlewareReadsSettingsPerRequest(t *testing.T) {
	// The middleware consults the config snapshot on every request, so a
	// settings change takes effect without rebuilding the handler chain.
	s := newRateLimitedServer(config.RateLimitConfig{
		Enabled:        false,
		RequestsPerMin: 1,
		BurstCapacity:  1,
		ByIP:           true,
	})
	defer s.RateLimiter.Close()
	handler := rateLimitedHandler(s)

	req := httptest.NewRequest(http.MethodPost, "/api/process", nil)

	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 before enabling", rec.Code)
	}

	s.AppConfig.Server.RateLimit.Enabled = true

	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for first limited request", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429 after enabling at runtime", rec.Code)
	}
}

func TestRateLimitMiddlewareNilLimiter(t *testing.T) {
	logger := errors.NewLogger(slog.LevelError)
	cfg := &config.Config{}
	cfg.Server.RateLimit.Enabled = true
	s := &Server{AppConfig: cfg, Logger: logger}
	handler := rateLimitedHandler(s)

	req := httptest.NewRequest(http.MethodPost, "/api/process", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 when no limiter was built", rec.Code)
	}
}
