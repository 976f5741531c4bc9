package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
)

// healthHandler provides a health check covering the AI model, circuit
// breakers and database connectivity.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.AppConfig.Observability.HealthCheck.Timeout)
	defer cancel()

	response := map[string]any{
		"status":  "healthy",
		"service": "skillparse",
		"version": s.Version,
	}

	overallHealthy := true

	modelInfo := s.AIService.GetModelInfo(ctx)
	response["ai_model"] = modelInfo
	if !modelInfo.Available {
		overallHealthy = false
	}

	breakerStats := s.AIService.Provider.GetCircuitBreakerStats()
	response["circuit_breakers"] = breakerStats
	if healthy, ok := breakerStats["overall_healthy"].(bool); ok && !healthy {
		overallHealthy = false
	}

	database := map[string]any{"healthy": true}
	if err := s.Store.Ping(ctx); err != nil {
		database["healthy"] = false
		database["error"] = err.Error()
		overallHealthy = false
	}
	response["database"] = database

	if !overallHealthy {
		response["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode health response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// statsHandler provides server statistics including stored candidate counts
// and rate limiting info.
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "skillparse",
		"version": s.Version,
		"server": map[string]any{
			"max_upload_size_bytes": s.MaxUploadSize,
		},
	}

	candidates := map[string]any{}
	if count, err := s.Store.Count(r.Context()); err == nil {
		candidates["stored_total"] = count
	} else {
		candidates["error"] = err.Error()
	}
	response["candidates"] = candidates

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	rl := s.AppConfig.RateLimitSnapshot()
	response["rate_limit_config"] = map[string]any{
		"enabled":          rl.Enabled,
		"requests_per_min": rl.RequestsPerMin,
		"burst_capacity":   rl.BurstCapacity,
		"by_ip":            rl.ByIP,
		"by_api_key":       rl.ByAPIKey,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
