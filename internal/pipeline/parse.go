// Package pipeline wires parsing, content checks, merchant validation,
// reconciliation and history into one flow.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/parsers/csv"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/telemetry"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/validators"
)

var tracer = telemetry.Tracer("pipeline")

// ParseOptions configures ParseFeed
type ParseOptions struct {
	// RequiredHeaders defaults to csv.DefaultRequiredHeaders when nil
	RequiredHeaders []string
	// Registry supplies the content rules; nil disables content checks
	Registry *validators.Registry
	Metrics  *MetricsRecorder
}

// ParseFeed decodes content and parses it with the content registry wired in
// as the row validator. Structural problems are reported in the result; the
// error is only set when the bytes cannot be decoded. Callers must not show
// rows of a result whose Failed method reports true.
func ParseFeed(ctx context.Context, content []byte, opts ParseOptions) (*types.ParseResult, error) {
	_, span := tracer.Start(ctx, "pipeline.parse")
	defer span.End()

	parserOpts := csv.DefaultOptions()
	if opts.RequiredHeaders != nil {
		parserOpts.RequiredHeaders = opts.RequiredHeaders
	}
	if opts.Registry != nil {
		parserOpts.ContentValidator = opts.Registry
	}

	start := time.Now()
	result, err := csv.NewParser(parserOpts).ParseBytes(content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}
	duration := time.Since(start)

	span.SetAttributes(
		attribute.Int("feed.bytes", len(content)),
		attribute.Int("feed.rows", len(result.Rows)),
		attribute.Int("feed.errors", len(result.Errors)),
		attribute.Int("feed.warnings", len(result.Warnings)),
	)
	if result.Failed() {
		span.SetStatus(codes.Error, string(result.Errors[0].Type))
	}

	if opts.Metrics != nil {
		opts.Metrics.RecordParse(result, duration)
	}

	event := log.Info()
	if result.Failed() {
		event = log.Warn().Str("error", result.Errors[0].Message)
	}
	event.
		Int("rows", len(result.Rows)).
		Int("headers", len(result.Headers)).
		Int("warnings", len(result.Warnings)).
		Dur("duration", duration).
		Msg("Parsed feed")

	return result, nil
}
