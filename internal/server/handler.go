package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"skillparse/internal/errors"
	"skillparse/internal/observability"
	"skillparse/internal/pipeline"
	"skillparse/internal/store"
	"skillparse/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// createProcessHandler handles resume uploads: multipart PDF in, candidate
// record out. The record is persisted before the response is written.
func (s *Server) createProcessHandler(om *observability.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("skillparse.api")
		ctx, span := tracer.Start(ctx, "api.process")
		defer span.End()

		if r.Method != http.MethodPost {
			writeErrorResponse(w, "Method not allowed", "Use POST with a multipart file upload", http.StatusMethodNotAllowed)
			return
		}

		data, err := s.readUploadedPDF(r)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid upload", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.file_size", len(data)),
			attribute.String("operation", "process"),
		)

		metrics := om.GetMetrics()
		var result pipeline.Result
		err = metrics.TrackPipeline(ctx, func(ctx context.Context) *observability.PipelineResult {
			var pipeErr error
			result, pipeErr = s.Pipeline.ProcessResume(ctx, data)
			return &observability.PipelineResult{
				Error:        pipeErr,
				TokenUsage:   (*observability.TokenUsage)(result.TokenUsage),
				UsedFallback: result.UsedFallback,
			}
		})
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "resume_processed", false,
				attribute.String("error", err.Error()))
			if errors.IsTextExtraction(err) {
				span.SetAttributes(attribute.String("error.type", "text_extraction"))
				writeErrorResponse(w, "Unreadable document", "No text could be extracted from the uploaded PDF", http.StatusUnprocessableEntity)
				return
			}
			span.SetAttributes(attribute.String("error.type", "processing"))
			writeErrorResponse(w, "Failed to process resume", err.Error(), http.StatusInternalServerError)
			return
		}

		stored, err := s.Store.Save(ctx, result.Record)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "storage"))
			metrics.RecordBusinessMetric(ctx, "candidate_stored", false)
			writeErrorResponse(w, "Failed to store candidate", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "resume_processed", true,
			attribute.Bool("used_fallback", result.UsedFallback))
		metrics.RecordBusinessMetric(ctx, "candidate_stored", true)

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Bool("used_fallback", result.UsedFallback),
			attribute.Int("response.skills_count", len(result.Record.Skills)),
		)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(ProcessResponse{
			StoredCandidate: stored,
			UsedFallback:    result.UsedFallback,
		}); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// readUploadedPDF extracts and validates the uploaded file from a multipart
// request. Only .pdf uploads under the configured size limit are accepted.
func (s *Server) readUploadedPDF(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(s.MaxUploadSize); err != nil {
		return nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("missing file upload: 'file' form field is required")
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		return nil, fmt.Errorf("unsupported file type %q: only .pdf uploads are accepted", filepath.Ext(header.Filename))
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("uploaded file is empty")
	}

	return data, nil
}

// createCandidatesHandler serves filtered candidate queries
func (s *Server) createCandidatesHandler(om *observability.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("skillparse.api")
		ctx, span := tracer.Start(ctx, "api.candidates")
		defer span.End()

		if r.Method != http.MethodGet {
			writeErrorResponse(w, "Method not allowed", "Use GET with query parameters", http.StatusMethodNotAllowed)
			return
		}

		filter, err := parseCandidateFilter(r.URL.Query())
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid query", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("filter.skills_count", len(filter.Skills)),
			attribute.String("filter.seniority", filter.Seniority),
			attribute.String("filter.qualification", filter.Qualification),
			attribute.String("operation", "candidates"),
		)

		metrics := om.GetMetrics()
		candidates, err := s.Store.Query(ctx, filter)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "storage"))
			metrics.RecordBusinessMetric(ctx, "candidates_queried", false)
			writeErrorResponse(w, "Failed to query candidates", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "candidates_queried", true,
			attribute.Int("result_count", len(candidates)))
		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.count", len(candidates)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(CandidatesResponse{
			Candidates: candidates,
			Count:      len(candidates),
		}); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// parseCandidateFilter builds a store filter from query parameters.
// Recognized parameters: skill (repeatable), seniority, qualification,
// fe_score_min, be_score_min.
func parseCandidateFilter(query url.Values) (store.Filter, error) {
	var filter store.Filter

	for _, skill := range query["skill"] {
		skill = strings.TrimSpace(skill)
		if skill != "" {
			filter.Skills = append(filter.Skills, skill)
		}
	}

	if raw := strings.TrimSpace(query.Get("seniority")); raw != "" {
		seniority, ok := types.ParseSeniority(raw)
		if !ok {
			return store.Filter{}, fmt.Errorf("invalid seniority %q", raw)
		}
		filter.Seniority = string(seniority)
	}

	if raw := strings.TrimSpace(query.Get("qualification")); raw != "" {
		qualification, ok := types.ParseQualification(raw)
		if !ok {
			return store.Filter{}, fmt.Errorf("invalid qualification %q", raw)
		}
		filter.Qualification = string(qualification)
	}

	for param, target := range map[string]**int{
		"fe_score_min": &filter.MinFEScore,
		"be_score_min": &filter.MinBEScore,
	} {
		raw := strings.TrimSpace(query.Get(param))
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return store.Filter{}, fmt.Errorf("invalid %s %q: must be an integer", param, raw)
		}
		if value < 0 || value > 100 {
			return store.Filter{}, fmt.Errorf("invalid %s %d: must be between 0 and 100", param, value)
		}
		*target = &value
	}

	return filter, nil
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.Manager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
