// Package pipeline wires PDF text extraction, model-backed candidate
// extraction and the rule-based fallback into a single processing flow.
// The flow never fails once readable text exists: any model-side error
// degrades to the deterministic fallback parser.
package pipeline

import (
	"context"
	"strings"

	"skillparse/internal/ai"
	"skillparse/internal/errors"
	"skillparse/internal/extract"
	"skillparse/internal/pdf"
	"skillparse/internal/types"
)

// Result carries the processed candidate plus processing metadata used for
// metrics and response headers.
type Result struct {
	Record       types.CandidateRecord
	TokenUsage   *ai.TokenUsage
	UsedFallback bool
}

// Pipeline processes resume documents into candidate records
type Pipeline struct {
	extractor   ai.CandidateExtractor
	extractText func(data []byte) (string, error)
	logger      *errors.Logger
}

// New creates a pipeline around the given extractor
func New(extractor ai.CandidateExtractor, logger *errors.Logger) *Pipeline {
	return &Pipeline{
		extractor:   extractor,
		extractText: pdf.ExtractText,
		logger:      logger,
	}
}

// ProcessResume converts raw PDF bytes into a candidate record.
// Text extraction failures are the only fatal path; everything after a
// successful text read degrades gracefully.
func (p *Pipeline) ProcessResume(ctx context.Context, data []byte) (Result, error) {
	text, err := p.extractText(data)
	if err != nil {
		return Result{}, err
	}

	return p.ProcessText(ctx, text)
}

// ProcessText runs model extraction with rule-based fallback over resume text
func (p *Pipeline) ProcessText(ctx context.Context, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, errors.NewIOError(errors.ErrCodeTextExtraction,
			"Resume text is empty", nil)
	}

	raw, tokenUsage, err := p.extractor.ExtractCandidate(ctx, text)
	if err != nil {
		p.logger.Warn("Model extraction failed, using rule-based fallback",
			"error", err.Error())
		return Result{
			Record:       extract.Fallback(text),
			UsedFallback: true,
		}, nil
	}

	return Result{
		Record:     extract.Normalize(raw),
		TokenUsage: tokenUsage,
	}, nil
}
