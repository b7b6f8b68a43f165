package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/reconcile"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
)

var (
	// parseTotal counts parse runs by outcome: ok, warnings or failed.
	parseTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedcheck_parse_total",
		Help: "Total number of feed parses by outcome",
	}, []string{"outcome"})

	parseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "feedcheck_parse_duration_seconds",
		Help:    "Time taken to parse and content-check a feed",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	parsedRows = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "feedcheck_parse_rows_count",
		Help:    "Number of data rows per parsed feed",
		Buckets: []float64{1, 10, 100, 1000, 10000, 100000},
	})

	// structuralIssues counts structural errors and warnings by type.
	structuralIssues = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedcheck_structural_issues_total",
		Help: "Total number of structural issues by type",
	}, []string{"type"})

	validationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "feedcheck_validation_duration_seconds",
		Help:    "Time taken by the merchant validator",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"validator"})

	validationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedcheck_validation_errors_total",
		Help: "Total number of failed merchant validation calls",
	}, []string{"validator"})

	// reconciledIssues counts issues removed or synthesized by reconciliation.
	reconciledIssues = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedcheck_reconciled_issues_total",
		Help: "Issues removed or added by reconciliation",
	}, []string{"action"})
)

// MetricsRecorder records pipeline metrics
type MetricsRecorder struct{}

// NewMetricsRecorder creates a new metrics recorder
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// RecordParse records the outcome of one parse
func (m *MetricsRecorder) RecordParse(result *types.ParseResult, duration time.Duration) {
	outcome := "ok"
	switch {
	case result.Failed():
		outcome = "failed"
	case len(result.Warnings) > 0:
		outcome = "warnings"
	}
	parseTotal.WithLabelValues(outcome).Inc()
	parseDuration.Observe(duration.Seconds())
	parsedRows.Observe(float64(len(result.Rows)))

	for _, issue := range result.Errors {
		structuralIssues.WithLabelValues(string(issue.Type)).Inc()
	}
	for _, issue := range result.Warnings {
		structuralIssues.WithLabelValues(string(issue.Type)).Inc()
	}
}

// RecordValidation records one merchant validation call
func (m *MetricsRecorder) RecordValidation(validator string, duration time.Duration, err error) {
	validationDuration.WithLabelValues(validator).Observe(duration.Seconds())
	if err != nil {
		validationErrors.WithLabelValues(validator).Inc()
	}
}

// RecordSweep records a full-table reconciliation pass
func (m *MetricsRecorder) RecordSweep(report reconcile.SweepReport) {
	reconciledIssues.WithLabelValues("removed").Add(float64(report.Removed))
	reconciledIssues.WithLabelValues("added").Add(float64(report.Added))
}

// RecordRetracted records issues removed after a live edit
func (m *MetricsRecorder) RecordRetracted(n int) {
	if n > 0 {
		reconciledIssues.WithLabelValues("retracted").Add(float64(n))
	}
}
