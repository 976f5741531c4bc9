package ai

import (
	"testing"
	"time"

	"skillparse/internal/config"

	"google.golang.org/genai"
)

func TestCircuitBreakerConfigurationMapping(t *testing.T) {
	cfg := config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      10,
		Interval:         120 * time.Second,
		Timeout:          90 * time.Second,
		MinRequests:      5,
		FailureThreshold: 0.8,
	}

	cb := NewExtractionCircuitBreaker(cfg, nil)
	if cb == nil {
		t.Fatal("Circuit breaker should not be nil")
	}

	stats := cb.GetStats()

	name, ok := stats["name"].(string)
	if !ok {
		t.Fatal("Circuit breaker name not found")
	}
	if name != "AI-Extract" {
		t.Errorf("Expected circuit breaker name 'AI-Extract', got '%s'", name)
	}

	state, ok := stats["state"].(string)
	if !ok {
		t.Fatal("Circuit breaker state not found")
	}
	if state != "closed" {
		t.Errorf("Expected initial state 'closed', got '%s'", state)
	}

	if !cb.IsHealthy() {
		t.Error("Circuit breaker should be healthy initially")
	}
}

func TestCircuitBreakerDisabled(t *testing.T) {
	cfg := config.CircuitBreakerConfig{Enabled: false}

	cb := NewExtractionCircuitBreaker(cfg, nil)
	if cb != nil {
		t.Fatal("Circuit breaker should be nil when disabled")
	}

	// A nil breaker must still pass calls through and report healthy.
	called := false
	_, err := cb.Execute(func() (*genai.GenerateContentResponse, error) {
		called = true
		return nil, nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !called {
		t.Error("Execute should invoke the function when breaker is disabled")
	}
	if !cb.IsHealthy() {
		t.Error("Disabled breaker should report healthy")
	}

	stats := cb.GetStats()
	if enabled, _ := stats["enabled"].(bool); enabled {
		t.Error("Disabled breaker stats should report enabled=false")
	}
}

func TestModelCircuitBreakerDisabled(t *testing.T) {
	cb := NewModelCircuitBreaker(config.CircuitBreakerConfig{Enabled: false}, nil)
	if cb != nil {
		t.Fatal("Model circuit breaker should be nil when disabled")
	}
	if !cb.IsModelHealthy() {
		t.Error("Disabled model breaker should report healthy")
	}
}
