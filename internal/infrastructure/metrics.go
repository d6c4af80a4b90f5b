package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Analysis outcomes used as the "outcome" metric attribute.
const (
	OutcomeSuccess      = "success"
	OutcomeInvalidInput = "invalid_input"
	OutcomeError        = "error"
)

// Metrics holds the instruments of the service
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	// Analysis metrics
	AnalysesTotal    metric.Int64Counter
	AnalysisDuration metric.Float64Histogram
	RowsProcessed    metric.Int64Counter
	AbsentValues     metric.Int64Counter
	UploadBytes      metric.Int64Counter
}

// NewMetrics creates the service instruments on meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.AnalysesTotal, err = meter.Int64Counter(
		"ageheap_analyses_total",
		metric.WithDescription("Total number of age-heaping analyses by outcome"),
	); err != nil {
		return nil, err
	}

	if m.AnalysisDuration, err = meter.Float64Histogram(
		"ageheap_analysis_duration_seconds",
		metric.WithDescription("Duration of an analysis from input to indices"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.RowsProcessed, err = meter.Int64Counter(
		"ageheap_rows_processed_total",
		metric.WithDescription("Age rows kept after normalization"),
	); err != nil {
		return nil, err
	}

	if m.AbsentValues, err = meter.Int64Counter(
		"ageheap_absent_values_total",
		metric.WithDescription("Index values that could not be computed"),
	); err != nil {
		return nil, err
	}

	if m.UploadBytes, err = meter.Int64Counter(
		"ageheap_upload_bytes_total",
		metric.WithDescription("Bytes of uploaded workbooks"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}

	return &m, nil
}

// RecordAnalysis records one finished analysis. Safe on a nil receiver.
func (m *Metrics) RecordAnalysis(ctx context.Context, source, outcome string, duration time.Duration, rows, absent int) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("outcome", outcome),
	)
	m.AnalysesTotal.Add(ctx, 1, attrs)
	m.AnalysisDuration.Record(ctx, duration.Seconds(), attrs)

	if outcome != OutcomeSuccess {
		return
	}
	src := metric.WithAttributes(attribute.String("source", source))
	m.RowsProcessed.Add(ctx, int64(rows), src)
	m.AbsentValues.Add(ctx, int64(absent), src)
}

// RecordUpload records the size of an accepted upload. Safe on a nil receiver.
func (m *Metrics) RecordUpload(ctx context.Context, size int64) {
	if m == nil {
		return
	}
	m.UploadBytes.Add(ctx, size)
}
