// Package observability wires OpenTelemetry tracing and metrics for the
// resume processing pipeline, with optional console, OTLP and Prometheus
// exporters.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"skillparse/internal/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Metrics holds all custom metrics for the resume pipeline
type Metrics struct {
	// Pipeline metrics
	PipelineDuration metric.Float64Histogram
	PipelineRequests metric.Int64Counter
	PipelineErrors   metric.Int64Counter
	TokenUsage       metric.Int64Histogram

	// Business metrics
	ResumesProcessed    metric.Int64Counter
	FallbackExtractions metric.Int64Counter
	CandidatesStored    metric.Int64Counter
	CandidateQueries    metric.Int64Counter

	// Rate limiting metrics
	RateLimitHits metric.Int64Counter
}

// Manager manages the OpenTelemetry setup
type Manager struct {
	cfg            config.ObservabilityConfig
	tracerProvider *trace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	metrics        *Metrics
	shutdownFuncs  []func(context.Context) error
}

// NewManager creates a new observability manager. A disabled configuration
// yields an inert manager whose middleware and tracer are no-ops.
func NewManager(cfg config.ObservabilityConfig) (*Manager, error) {
	if !cfg.Enabled {
		return &Manager{cfg: cfg}, nil
	}

	m := &Manager{
		cfg:           cfg,
		shutdownFuncs: make([]func(context.Context) error, 0),
	}

	if err := m.initTracing(); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := m.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return m, nil
}

// createResource creates the OpenTelemetry resource describing this service
func (m *Manager) createResource() (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(m.cfg.ServiceName),
			semconv.ServiceVersion(m.cfg.ServiceVersion),
			attribute.String("service.instance.id", m.cfg.ServiceInstance),
		),
	)
}

// initTracing sets up OpenTelemetry tracing
func (m *Manager) initTracing() error {
	var exporter trace.SpanExporter
	var err error

	switch {
	case m.cfg.ConsoleOutput:
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case m.cfg.OTLP.Enabled:
		exporter, err = m.createOTLPTraceExporter()
	default:
		exporter = &noOpSpanExporter{}
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := m.createResource()
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.TraceIDRatioBased(m.cfg.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	m.tracerProvider = tp
	m.shutdownFuncs = append(m.shutdownFuncs, tp.Shutdown)

	return nil
}

// initMetrics sets up OpenTelemetry metrics
func (m *Manager) initMetrics() error {
	readers, err := m.setupMetricReaders()
	if err != nil {
		return err
	}

	res, err := m.createResource()
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	options := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, reader := range readers {
		options = append(options, sdkmetric.WithReader(reader))
	}

	mp := sdkmetric.NewMeterProvider(options...)
	otel.SetMeterProvider(mp)
	m.meterProvider = mp
	m.shutdownFuncs = append(m.shutdownFuncs, mp.Shutdown)

	return m.initCustomMetrics()
}

// setupMetricReaders sets up all metric readers based on configuration
func (m *Manager) setupMetricReaders() ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader

	if m.cfg.ConsoleOutput {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(m.cfg.Metrics.CollectionInterval)))
	}

	if m.cfg.OTLP.Enabled {
		reader, err := m.createOTLPMetricsReader()
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics reader: %w", err)
		}
		readers = append(readers, reader)
	}

	if m.cfg.Prometheus.Enabled {
		reader, mux, err := SetupPrometheusExporter(m.cfg.Prometheus)
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		if reader != nil {
			readers = append(readers, reader)
			if err := StartPrometheusServer(mux, m.cfg.Prometheus.Port); err != nil {
				return nil, fmt.Errorf("failed to start Prometheus server: %w", err)
			}
		}
	}

	// Manual reader fallback so instruments always have a home
	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}

	return readers, nil
}

// initCustomMetrics creates all custom metrics
func (m *Manager) initCustomMetrics() error {
	meter := m.meterProvider.Meter(m.cfg.ServiceName)
	m.metrics = &Metrics{}

	var err error

	m.metrics.PipelineDuration, err = meter.Float64Histogram(
		"skillparse_pipeline_duration_seconds",
		metric.WithDescription("Time spent processing a resume end to end"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline duration metric: %w", err)
	}

	m.metrics.PipelineRequests, err = meter.Int64Counter(
		"skillparse_pipeline_requests_total",
		metric.WithDescription("Total number of resume processing requests"),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline request count metric: %w", err)
	}

	m.metrics.PipelineErrors, err = meter.Int64Counter(
		"skillparse_pipeline_errors_total",
		metric.WithDescription("Total number of resume processing errors"),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline error count metric: %w", err)
	}

	m.metrics.TokenUsage, err = meter.Int64Histogram(
		"skillparse_ai_token_usage_total",
		metric.WithDescription("Token usage for extraction requests (input, output, total)"),
		metric.WithUnit("tokens"),
	)
	if err != nil {
		return fmt.Errorf("failed to create token usage metric: %w", err)
	}

	m.metrics.ResumesProcessed, err = meter.Int64Counter(
		"skillparse_resumes_processed_total",
		metric.WithDescription("Total number of resumes processed"),
	)
	if err != nil {
		return fmt.Errorf("failed to create resumes processed metric: %w", err)
	}

	m.metrics.FallbackExtractions, err = meter.Int64Counter(
		"skillparse_fallback_extractions_total",
		metric.WithDescription("Total number of extractions served by the rule-based fallback"),
	)
	if err != nil {
		return fmt.Errorf("failed to create fallback extraction metric: %w", err)
	}

	m.metrics.CandidatesStored, err = meter.Int64Counter(
		"skillparse_candidates_stored_total",
		metric.WithDescription("Total number of candidates persisted"),
	)
	if err != nil {
		return fmt.Errorf("failed to create candidates stored metric: %w", err)
	}

	m.metrics.CandidateQueries, err = meter.Int64Counter(
		"skillparse_candidate_queries_total",
		metric.WithDescription("Total number of candidate queries served"),
	)
	if err != nil {
		return fmt.Errorf("failed to create candidate queries metric: %w", err)
	}

	m.metrics.RateLimitHits, err = meter.Int64Counter(
		"skillparse_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	return nil
}

// GetMetrics returns the metrics instance
func (m *Manager) GetMetrics() *Metrics {
	if m.metrics == nil {
		return &Metrics{}
	}
	return m.metrics
}

// HTTPMiddleware returns HTTP middleware with OpenTelemetry instrumentation
func (m *Manager) HTTPMiddleware() func(http.Handler) http.Handler {
	if !m.cfg.Enabled {
		return func(h http.Handler) http.Handler { return h }
	}

	return otelhttp.NewMiddleware(
		m.cfg.ServiceName,
		otelhttp.WithTracerProvider(m.tracerProvider),
		otelhttp.WithMeterProvider(m.meterProvider),
	)
}

// Tracer returns a tracer for the service
func (m *Manager) Tracer(name string) oteltrace.Tracer {
	if !m.cfg.Enabled {
		return noop.NewTracerProvider().Tracer(name)
	}
	return otel.Tracer(name)
}

// Shutdown gracefully shuts down all observability components
func (m *Manager) Shutdown(ctx context.Context) error {
	for _, shutdown := range m.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

// TokenUsage mirrors the AI package's token accounting for metric recording
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// PipelineResult carries the outcome of a tracked pipeline run
type PipelineResult struct {
	Error        error
	TokenUsage   *TokenUsage
	UsedFallback bool
}

// TrackPipeline instruments a resume processing run with tracing and metrics
func (mt *Metrics) TrackPipeline(ctx context.Context, fn func(context.Context) *PipelineResult) error {
	if mt.PipelineDuration == nil {
		// Metrics not initialized, just run the function
		result := fn(ctx)
		if result != nil {
			return result.Error
		}
		return nil
	}

	tracer := otel.Tracer("skillparse.pipeline")
	ctx, span := tracer.Start(ctx, "pipeline.process_resume")
	defer span.End()

	start := time.Now()
	result := fn(ctx)
	duration := time.Since(start).Seconds()

	var err error
	usedFallback := false
	if result != nil {
		err = result.Error
		usedFallback = result.UsedFallback
	}

	attrs := []attribute.KeyValue{
		attribute.Bool("success", err == nil),
		attribute.Bool("used_fallback", usedFallback),
	}

	mt.PipelineDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
	mt.PipelineRequests.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err != nil {
		mt.PipelineErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("error", true))
	}
	if usedFallback {
		mt.FallbackExtractions.Add(ctx, 1)
	}

	mt.recordTokenUsage(ctx, result, span)
	span.SetAttributes(attrs...)

	return err
}

// recordTokenUsage records token usage metrics and span attributes
func (mt *Metrics) recordTokenUsage(ctx context.Context, result *PipelineResult, span oteltrace.Span) {
	if result == nil || result.TokenUsage == nil || mt.TokenUsage == nil {
		return
	}

	usage := result.TokenUsage
	for _, tt := range []struct {
		tokenType string
		value     int64
	}{
		{"input", usage.InputTokens},
		{"output", usage.OutputTokens},
		{"total", usage.TotalTokens},
	} {
		mt.TokenUsage.Record(ctx, tt.value,
			metric.WithAttributes(attribute.String("token_type", tt.tokenType)))
	}

	span.SetAttributes(
		attribute.Int64("ai.tokens.input", usage.InputTokens),
		attribute.Int64("ai.tokens.output", usage.OutputTokens),
		attribute.Int64("ai.tokens.total", usage.TotalTokens),
	)
}

// RecordBusinessMetric records business-specific counters
func (mt *Metrics) RecordBusinessMetric(ctx context.Context, metricType string, success bool, attributes ...attribute.KeyValue) {
	attrs := append([]attribute.KeyValue{
		attribute.Bool("success", success),
	}, attributes...)

	var counter metric.Int64Counter
	switch metricType {
	case "resume_processed":
		counter = mt.ResumesProcessed
	case "candidate_stored":
		counter = mt.CandidatesStored
	case "candidates_queried":
		counter = mt.CandidateQueries
	case "rate_limit_hit":
		counter = mt.RateLimitHits
	}

	if counter != nil {
		counter.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// noOpSpanExporter is used when neither console nor OTLP output is configured
type noOpSpanExporter struct{}

func (n *noOpSpanExporter) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	return nil
}

func (n *noOpSpanExporter) Shutdown(ctx context.Context) error {
	return nil
}

// createOTLPTraceExporter creates an OTLP HTTP trace exporter
func (m *Manager) createOTLPTraceExporter() (trace.SpanExporter, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(m.cfg.OTLP.Endpoint),
	}
	if m.cfg.OTLP.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(m.cfg.OTLP.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(m.cfg.OTLP.Headers))
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	return exporter, nil
}

// createOTLPMetricsReader creates an OTLP HTTP metrics reader
func (m *Manager) createOTLPMetricsReader() (sdkmetric.Reader, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpointURL(m.cfg.OTLP.Endpoint),
	}
	if m.cfg.OTLP.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(m.cfg.OTLP.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(m.cfg.OTLP.Headers))
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	return sdkmetric.NewPeriodicReader(exporter,
		sdkmetric.WithInterval(m.cfg.Metrics.CollectionInterval)), nil
}
