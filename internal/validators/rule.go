package validators

import (
	"errors"
	"fmt"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
)

// ErrInvalidRule is returned when registering a rule without a check,
// message or known severity
var ErrInvalidRule = errors.New("invalid validator rule")

// Rule is a single content check for a field value
type Rule struct {
	Validate func(value string) bool
	Message  string
	Severity types.Severity
	// Fix returns a suggested replacement value, or nil when no automatic
	// correction is possible. Optional.
	Fix func(value string) *string
}

// Entry is the rule set registered for one field: a primary rule plus
// additional rules that each report independently
type Entry struct {
	Rule
	Additional []Rule
}

func (r Rule) check() error {
	if r.Validate == nil {
		return fmt.Errorf("%w: validate function is required", ErrInvalidRule)
	}
	if r.Message == "" {
		return fmt.Errorf("%w: message is required", ErrInvalidRule)
	}
	if !r.Severity.Valid() {
		return fmt.Errorf("%w: unknown severity %q", ErrInvalidRule, r.Severity)
	}
	return nil
}

// apply runs the rule, returning an issue when the value fails
func (r Rule) apply(field, value string) (types.ContentIssue, bool) {
	if r.Validate(value) {
		return types.ContentIssue{}, false
	}
	issue := types.ContentIssue{
		Field:    field,
		Value:    value,
		Message:  r.Message,
		Severity: r.Severity,
	}
	if r.Fix != nil {
		issue.FixedValue = r.Fix(value)
	}
	return issue, true
}
