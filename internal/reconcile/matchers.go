package reconcile

import (
	"strings"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
)

// matcher selects the issues of a row group that belong to a fixed field
type matcher struct {
	name string
	// fallback matchers only claim issues not attributed to another column
	fallback bool
	match    func(issue types.ValidationIssue, field string) bool
}

// issueMatchers are tried in order; the first one with any hit wins.
// External validators do not always report the field name consistently.
var issueMatchers = []matcher{
	{
		name: "field",
		match: func(issue types.ValidationIssue, field string) bool {
			return strings.EqualFold(strings.TrimSpace(issue.Field), field)
		},
	},
	{
		name:     "message",
		fallback: true,
		match: func(issue types.ValidationIssue, field string) bool {
			return strings.Contains(strings.ToLower(issue.Message), strings.ToLower(field))
		},
	},
	{
		name:     "row",
		fallback: true,
		match: func(types.ValidationIssue, string) bool {
			return true
		},
	},
}

// matchIssues returns the positions in group matched by the first
// successful strategy and the strategy's name. attributed reports whether an
// issue field names a known column of the row.
func matchIssues(group []types.ValidationIssue, field string, attributed func(string) bool) ([]int, string) {
	for _, m := range issueMatchers {
		var hits []int
		for i, issue := range group {
			if m.fallback && attributed(issue.Field) {
				continue
			}
			if m.match(issue, field) {
				hits = append(hits, i)
			}
		}
		if len(hits) > 0 {
			return hits, m.name
		}
	}
	return nil, ""
}

func sameField(issue types.ValidationIssue, offerID, field string) bool {
	return issue.OfferID == offerID && strings.EqualFold(strings.TrimSpace(issue.Field), field)
}
