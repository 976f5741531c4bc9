package ai

import (
	"context"

	"skillparse/internal/types"
)

// CandidateExtractor is the interface for model-backed candidate extraction.
// Implementations return token usage alongside the result; callers can
// ignore it if not needed.
type CandidateExtractor interface {
	ExtractCandidate(ctx context.Context, resumeText string) (types.RawCandidate, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	GetCircuitBreakerStats() map[string]any
	Close() error
}
