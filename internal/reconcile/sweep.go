package reconcile

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
)

// SweepReport summarizes a full-table pass
type SweepReport struct {
	Removed int `json:"removed"`
	Added   int `json:"added"`
}

// AddMissingValidationIssues checks every editable field against the length
// policy. Issues on compliant fields are dropped and a warning is added for
// each non-compliant field the results do not mention yet.
func (e *Engine) AddMissingValidationIssues() SweepReport {
	e.mu.Lock()
	defer e.unlock()

	var report SweepReport
	if e.results == nil {
		e.warn("No validation results, skipping full-table pass", nil)
		return report
	}

	for _, offerID := range e.order {
		row := e.rows[offerID]
		for _, field := range e.policy.Fields() {
			fs, ok := row.Fields[field]
			if !ok {
				continue
			}

			if compliant, _ := e.policy.Compliant(field, fs.Text); compliant {
				if n := e.removeFieldIssuesLocked(offerID, field); n > 0 {
					report.Removed += n
					e.notifyRemovedLocked(offerID, field)
				}
				continue
			}

			if e.hasFieldIssueLocked(offerID, field) {
				continue
			}

			idx, ok := e.rowIndex[offerID]
			if !ok {
				idx = row.RowIndex
				e.rowIndex[offerID] = idx
			}
			issue := types.ValidationIssue{
				RowIndex: idx,
				OfferID:  offerID,
				Field:    field,
				Type:     types.IssueWarning,
				Message:  lengthMessage(field, e.policy.tooShort(field, fs.Text), idx),
			}
			e.results.Issues = append(e.results.Issues, issue)
			e.groups[idx] = append(e.groups[idx], issue)
			report.Added++
		}
	}

	e.logger.Debug().
		Int("removed", report.Removed).
		Int("added", report.Added).
		Int("open", e.countLocked()).
		Msg("Full-table reconciliation done")
	return report
}

func lengthMessage(field string, short bool, rowIndex int) string {
	direction := "long"
	if short {
		direction = "short"
	}
	return fmt.Sprintf("%s may be too %s for row %d.", cases.Title(language.English).String(field), direction, rowIndex)
}

func (e *Engine) hasFieldIssueLocked(offerID, field string) bool {
	for _, issue := range e.results.Issues {
		if sameField(issue, offerID, field) {
			return true
		}
	}
	return false
}

// removeFieldIssuesLocked drops every issue reported for (offerID, field)
func (e *Engine) removeFieldIssuesLocked(offerID, field string) int {
	removed := 0
	kept := e.results.Issues[:0]
	for _, issue := range e.results.Issues {
		if sameField(issue, offerID, field) {
			removed++
			continue
		}
		kept = append(kept, issue)
	}
	e.results.Issues = kept
	if removed == 0 {
		return 0
	}

	for idx, group := range e.groups {
		filtered := group[:0]
		for _, issue := range group {
			if !sameField(issue, offerID, field) {
				filtered = append(filtered, issue)
			}
		}
		if len(filtered) == 0 {
			delete(e.groups, idx)
		} else {
			e.groups[idx] = filtered
		}
	}
	return removed
}
