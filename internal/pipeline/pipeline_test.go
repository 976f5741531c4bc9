package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"skillparse/internal/ai"
	"skillparse/internal/errors"
	"skillparse/internal/extract"
	"skillparse/internal/types"
)

type fakeExtractor struct {
	raw types.RawCandidate
	err error
}

func (f *fakeExtractor) ExtractCandidate(ctx context.Context, resumeText string) (types.RawCandidate, *ai.TokenUsage, error) {
	if f.err != nil {
		return types.RawCandidate{}, nil, f.err
	}
	return f.raw, &ai.TokenUsage{InputTokens: 100, OutputTokens: 20, TotalTokens: 120}, nil
}

func (f *fakeExtractor) GetModelInfo(ctx context.Context) *ai.ModelInfo {
	return &ai.ModelInfo{Name: "fake", Available: f.err == nil}
}

func (f *fakeExtractor) GetCircuitBreakerStats() map[string]any { return map[string]any{} }

func (f *fakeExtractor) Close() error { return nil }

func newTestPipeline(extractor ai.CandidateExtractor) *Pipeline {
	return New(extractor, errors.NewLogger(slog.LevelError))
}

const resumeText = "Jane Doe\nSenior Frontend Engineer\nSkills: React, TypeScript, AWS"

func TestProcessTextModelPath(t *testing.T) {
	p := newTestPipeline(&fakeExtractor{raw: types.RawCandidate{
		Name:          "Jane Doe",
		Skills:        []any{"React", "TypeScript", "AWS"},
		Seniority:     "senior",
		Qualification: "masters",
	}})

	result, err := p.ProcessText(context.Background(), resumeText)
	if err != nil {
		t.Fatalf("ProcessText() error = %v", err)
	}

	if result.UsedFallback {
		t.Error("model path should not report fallback")
	}
	if result.TokenUsage == nil || result.TokenUsage.TotalTokens != 120 {
		t.Errorf("TokenUsage = %+v, want total 120", result.TokenUsage)
	}
	if result.Record.Name != "Jane Doe" {
		t.Errorf("Name = %q", result.Record.Name)
	}
	if result.Record.Seniority != types.SenioritySenior {
		t.Errorf("Seniority = %q", result.Record.Seniority)
	}
	if result.Record.Qualification != types.QualificationMasters {
		t.Errorf("Qualification = %q", result.Record.Qualification)
	}
}

func TestProcessTextFallbackOnModelError(t *testing.T) {
	p := newTestPipeline(&fakeExtractor{err: fmt.Errorf("connection refused")})

	result, err := p.ProcessText(context.Background(), resumeText)
	if err != nil {
		t.Fatalf("ProcessText() error = %v, want graceful fallback", err)
	}

	if !result.UsedFallback {
		t.Fatal("expected fallback path")
	}
	if result.TokenUsage != nil {
		t.Error("fallback path should carry no token usage")
	}

	// The degraded result must match the deterministic parser exactly.
	want := extract.Fallback(resumeText)
	if !reflect.DeepEqual(result.Record, want) {
		t.Errorf("Record = %+v, want %+v", result.Record, want)
	}
}

// blockingExtractor stalls until the call context expires, the way a hung
// model call behaves once the provider's timeout fires.
type blockingExtractor struct {
	fakeExtractor
}

func (b *blockingExtractor) ExtractCandidate(ctx context.Context, resumeText string) (types.RawCandidate, *ai.TokenUsage, error) {
	<-ctx.Done()
	return types.RawCandidate{}, nil, ctx.Err()
}

func TestProcessTextTimeoutDegradesToFallback(t *testing.T) {
	p := newTestPipeline(&blockingExtractor{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	result, err := p.ProcessText(ctx, resumeText)
	if err != nil {
		t.Fatalf("ProcessText() error = %v, want graceful fallback", err)
	}

	if !result.UsedFallback {
		t.Fatal("expected fallback after the model call deadline expired")
	}
	want := extract.Fallback(resumeText)
	if !reflect.DeepEqual(result.Record, want) {
		t.Errorf("Record = %+v, want %+v", result.Record, want)
	}
}

func TestProcessTextEmptyText(t *testing.T) {
	p := newTestPipeline(&fakeExtractor{})

	for _, text := range []string{"", "   \n\t  "} {
		_, err := p.ProcessText(context.Background(), text)
		if err == nil {
			t.Fatalf("ProcessText(%q) expected an error", text)
		}
		if !errors.IsTextExtraction(err) {
			t.Errorf("ProcessText(%q) error = %v, want TEXT_EXTRACTION_FAILED", text, err)
		}
	}
}

func TestProcessResumeUnreadableDocument(t *testing.T) {
	p := newTestPipeline(&fakeExtractor{})

	_, err := p.ProcessResume(context.Background(), []byte("not a pdf"))
	if err == nil {
		t.Fatal("expected an error for unreadable bytes")
	}
	if !errors.IsTextExtraction(err) {
		t.Errorf("error = %v, want TEXT_EXTRACTION_FAILED", err)
	}
}
