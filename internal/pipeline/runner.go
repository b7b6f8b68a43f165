package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/history"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/merchant"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/parsers/charset"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/parsers/xlsx"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/pkg/feedid"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/reconcile"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/storage"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/validators"
)

// ErrParseFailed is returned by Validate when the parse produced fatal errors
var ErrParseFailed = errors.New("feed has structural errors")

// Config holds runner settings
type Config struct {
	// RequiredHeaders defaults to the csv package defaults when nil
	RequiredHeaders []string
	// Sheet selects the workbook sheet for xlsx uploads; empty means first
	Sheet  string
	Policy reconcile.LengthPolicy
	Source types.FeedSource
}

// DefaultConfig returns default runner settings
func DefaultConfig() Config {
	return Config{
		Policy: reconcile.DefaultLengthPolicy(),
		Source: types.SourceCLI,
	}
}

// Runner composes parsing, merchant validation, reconciliation and history
type Runner struct {
	config    Config
	registry  *validators.Registry
	validator merchant.Validator
	storage   storage.Storage
	history   history.Store
	metrics   *MetricsRecorder
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithStorage archives raw uploads
func WithStorage(s storage.Storage) RunnerOption {
	return func(r *Runner) {
		r.storage = s
	}
}

// WithHistory persists a record for every validation run
func WithHistory(h history.Store) RunnerOption {
	return func(r *Runner) {
		r.history = h
	}
}

// WithMetrics overrides the metrics recorder
func WithMetrics(m *MetricsRecorder) RunnerOption {
	return func(r *Runner) {
		r.metrics = m
	}
}

// NewRunner creates a runner. A nil registry means the default rule set.
func NewRunner(config Config, registry *validators.Registry, validator merchant.Validator, opts ...RunnerOption) *Runner {
	if registry == nil {
		registry = validators.NewRegistry()
	}
	r := &Runner{
		config:    config,
		registry:  registry,
		validator: validator,
		metrics:   NewMetricsRecorder(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the content rule registry
func (r *Runner) Registry() *validators.Registry {
	return r.registry
}

// Policy returns the length windows used for reconciliation
func (r *Runner) Policy() reconcile.LengthPolicy {
	return r.config.Policy
}

// Input is one uploaded feed
type Input struct {
	FileName string
	Content  []byte
	// FeedID is generated when empty
	FeedID string
}

// Parsed is the outcome of the upload step
type Parsed struct {
	FeedID   string
	FileName string
	Encoding string
	Result   *types.ParseResult
}

// Parse converts workbooks to CSV text, archives the raw upload and parses it.
// A result with structural errors is returned without an error.
func (r *Runner) Parse(ctx context.Context, in Input) (*Parsed, error) {
	ctx, span := tracer.Start(ctx, "pipeline.upload")
	defer span.End()

	feedID := in.FeedID
	if feedID == "" {
		feedID = feedid.New()
	}
	span.SetAttributes(attribute.String("feed.id", feedID))

	content := in.Content
	encoding := string(charset.DetectEncoding(content))
	if xlsx.IsWorkbook(in.FileName, content) {
		text, err := xlsx.ToCSV(content, r.config.Sheet)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "workbook conversion failed")
			return nil, fmt.Errorf("failed to read workbook %s: %w", in.FileName, err)
		}
		content = []byte(text)
		encoding = "xlsx"
	}

	if r.storage != nil {
		meta := &storage.Metadata{
			ContentType:  "text/csv",
			OriginalName: in.FileName,
			FeedID:       feedID,
			Encoding:     encoding,
			Source:       string(r.config.Source),
			UploadedAt:   time.Now().UTC(),
		}
		if err := r.storage.Put(ctx, storage.FeedKey(feedID, in.FileName), in.Content, meta); err != nil {
			log.Warn().Err(err).Str("feed_id", feedID).Msg("Failed to archive feed upload")
		}
	}

	result, err := ParseFeed(ctx, content, ParseOptions{
		RequiredHeaders: r.config.RequiredHeaders,
		Registry:        r.registry,
		Metrics:         r.metrics,
	})
	if err != nil {
		return nil, err
	}

	return &Parsed{
		FeedID:   feedID,
		FileName: in.FileName,
		Encoding: encoding,
		Result:   result,
	}, nil
}

// ValidateInput is the validation step of a parsed feed
type ValidateInput struct {
	FeedID   string
	FileName string
	Headers  []string
	Rows     []types.Row
	// Engine already holding Rows; a new one is built when nil
	Engine *reconcile.Engine
}

// Validated is the outcome of the validation step
type Validated struct {
	Results *types.ValidationResults
	Sweep   reconcile.SweepReport
	Engine  *reconcile.Engine
	Record  *types.FeedRecord
}

// Validate sends rows to the merchant validator, reconciles the returned
// issues against the current field contents and records the run.
func (r *Runner) Validate(ctx context.Context, in ValidateInput) (*Validated, error) {
	ctx, span := tracer.Start(ctx, "pipeline.validate")
	defer span.End()
	span.SetAttributes(
		attribute.String("feed.id", in.FeedID),
		attribute.Int("feed.rows", len(in.Rows)),
	)

	name := validatorName(r.validator)
	start := time.Now()
	results, err := r.validator.Validate(ctx, in.FeedID, in.Headers, in.Rows)
	r.metrics.RecordValidation(name, time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "merchant validation failed")
		return nil, fmt.Errorf("merchant validation of feed %s failed: %w", in.FeedID, err)
	}

	engine := in.Engine
	if engine == nil {
		engine = reconcile.NewEngine(reconcile.WithPolicy(r.config.Policy))
		engine.LoadRows(in.Rows)
	}
	engine.ApplyResults(results)
	report := engine.AddMissingValidationIssues()
	r.metrics.RecordSweep(report)

	reconciled := engine.Results()
	merchant.Summarize(reconciled, len(in.Rows))

	out := &Validated{
		Results: reconciled,
		Sweep:   report,
		Engine:  engine,
	}

	if r.history != nil {
		record := types.NewFeedRecord(reconciled, in.FileName, r.config.Source)
		if err := r.history.Save(ctx, record); err != nil {
			return out, fmt.Errorf("failed to save history for feed %s: %w", in.FeedID, err)
		}
		out.Record = &record
	}

	log.Info().
		Str("feed_id", in.FeedID).
		Str("validator", name).
		Bool("valid", reconciled.IsValid).
		Int("issues", len(reconciled.Issues)).
		Int("removed", report.Removed).
		Int("added", report.Added).
		Msg("Validated feed")

	return out, nil
}

// RunResult is the outcome of a full run
type RunResult struct {
	*Parsed
	*Validated
}

// Run parses and validates one feed. When the parse fails the result carries
// the structural errors and ErrParseFailed is returned.
func (r *Runner) Run(ctx context.Context, in Input) (*RunResult, error) {
	parsed, err := r.Parse(ctx, in)
	if err != nil {
		return nil, err
	}
	run := &RunResult{Parsed: parsed}
	if parsed.Result.Failed() {
		return run, ErrParseFailed
	}

	validated, err := r.Validate(ctx, ValidateInput{
		FeedID:   parsed.FeedID,
		FileName: parsed.FileName,
		Headers:  parsed.Result.Headers,
		Rows:     parsed.Result.Rows,
	})
	run.Validated = validated
	return run, err
}

func validatorName(v merchant.Validator) string {
	if named, ok := v.(interface{ Name() string }); ok {
		return named.Name()
	}
	return fmt.Sprintf("%T", v)
}
