// Package merchant submits feeds to an external product validation service.
package merchant

import (
	"context"
	"fmt"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
)

// Validator validates a parsed feed and reports issues per offer
type Validator interface {
	Validate(ctx context.Context, feedID string, headers []string, rows []types.Row) (*types.ValidationResults, error)
}

// RequestError describes a failed call to the validation service
type RequestError struct {
	URL    string
	Status int
	Err    error
}

func (e *RequestError) Error() string {
	switch {
	case e.Err != nil && e.Status != 0:
		return fmt.Sprintf("validation request to %s failed with status %d: %v", e.URL, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("validation request to %s failed: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("validation request to %s failed with status %d", e.URL, e.Status)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Summarize fills the product counters and validity from the issue list.
// A product is valid when none of its issues is an error.
func Summarize(results *types.ValidationResults, totalProducts int) {
	failed := make(map[string]bool)
	for _, issue := range results.Issues {
		if issue.Type == types.IssueError {
			key := issue.OfferID
			if key == "" {
				key = fmt.Sprintf("#%d", issue.RowIndex)
			}
			failed[key] = true
		}
	}
	results.TotalProducts = totalProducts
	results.ValidProducts = max(totalProducts-len(failed), 0)
	results.IsValid = len(failed) == 0
}
