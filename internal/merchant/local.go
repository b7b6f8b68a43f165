package merchant

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/parsers/csv"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/reconcile"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/validators"
)

// LocalValidator is an offline stand-in for the remote service. It reports
// missing required attributes, content rule failures and length problems.
type LocalValidator struct {
	registry *validators.Registry
	policy   reconcile.LengthPolicy
	required []string
}

// LocalOption configures a LocalValidator
type LocalOption func(*LocalValidator)

// WithRequiredAttributes overrides the attributes that must not be empty
func WithRequiredAttributes(fields []string) LocalOption {
	return func(v *LocalValidator) {
		v.required = fields
	}
}

// WithLengthPolicy overrides the title and description windows
func WithLengthPolicy(p reconcile.LengthPolicy) LocalOption {
	return func(v *LocalValidator) {
		v.policy = p
	}
}

// NewLocalValidator creates a validator backed by registry
func NewLocalValidator(registry *validators.Registry, opts ...LocalOption) *LocalValidator {
	v := &LocalValidator{
		registry: registry,
		policy:   reconcile.DefaultLengthPolicy(),
		required: csv.DefaultRequiredHeaders,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate implements Validator. Row indexes are 1-based.
func (v *LocalValidator) Validate(ctx context.Context, feedID string, headers []string, rows []types.Row) (*types.ValidationResults, error) {
	results := &types.ValidationResults{
		FeedID: feedID,
		Issues: []types.ValidationIssue{},
	}

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results.Issues = append(results.Issues, v.validateRow(i+1, row, headers)...)
	}

	Summarize(results, len(rows))

	log.Info().
		Str("feed_id", feedID).
		Int("products", results.TotalProducts).
		Int("valid", results.ValidProducts).
		Int("issues", len(results.Issues)).
		Msg("Local validation complete")
	return results, nil
}

func (v *LocalValidator) validateRow(rowIndex int, row types.Row, headers []string) []types.ValidationIssue {
	offerID := row.OfferID()
	var issues []types.ValidationIssue
	reported := make(map[string]bool)

	add := func(field string, typ types.IssueSeverity, msg string) {
		issues = append(issues, types.ValidationIssue{
			RowIndex: rowIndex,
			OfferID:  offerID,
			Field:    field,
			Type:     typ,
			Message:  msg,
		})
		reported[field] = true
	}

	for _, field := range v.required {
		if row.Get(field) == "" {
			add(field, types.IssueError, fmt.Sprintf("Missing required attribute: %s", field))
		}
	}

	contentIssues, _ := v.registry.Validate(row, headers)
	for _, ci := range contentIssues {
		switch ci.Severity {
		case types.SeverityError:
			add(ci.Field, types.IssueError, ci.Message)
		case types.SeverityWarning:
			add(ci.Field, types.IssueWarning, ci.Message)
		}
	}

	for _, field := range v.policy.Fields() {
		text := row.Get(field)
		if reported[field] || text == "" {
			continue
		}
		if ok, _ := v.policy.Compliant(field, text); !ok {
			w, _ := v.policy.Window(field)
			add(field, types.IssueWarning, fmt.Sprintf("%s length should be between %d and %d characters", field, w.Min, w.Max))
		}
	}

	return issues
}

// Name identifies the validator in metrics and logs
func (v *LocalValidator) Name() string {
	return "local"
}
