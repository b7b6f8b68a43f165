package validators

import (
	"sort"
	"sync"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
)

// Registry holds content rules keyed by field name
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewEmptyRegistry creates a registry without any rules
func NewEmptyRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
	}
}

// NewRegistry creates a registry pre-populated with the product feed rules
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for field, entry := range defaultEntries() {
		r.entries[field] = entry
	}
	return r
}

// AddCustomValidator registers rule for field. A field without rules gets
// rule as its primary rule; otherwise rule is appended to the additional rules.
func (r *Registry) AddCustomValidator(field string, rule Rule) error {
	if err := rule.check(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[field]
	if !ok {
		r.entries[field] = &Entry{Rule: rule}
		return nil
	}
	entry.Additional = append(entry.Additional, rule)
	return nil
}

// Validate checks every registered field present in headers.
// Empty values are never flagged. The error is always nil; it exists so the
// registry satisfies the parser's content validator contract.
func (r *Registry) Validate(row types.Row, headers []string) ([]types.ContentIssue, error) {
	var issues []types.ContentIssue
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		if seen[h] {
			continue
		}
		seen[h] = true
		issues = append(issues, r.ValidateField(h, row.Get(h))...)
	}
	return issues, nil
}

// ValidateField checks a single field value, as used for live edits
func (r *Registry) ValidateField(field, value string) []types.ContentIssue {
	if value == "" {
		return nil
	}

	// rules are copied so concurrent AddCustomValidator calls cannot race
	r.mu.RLock()
	entry, ok := r.entries[field]
	var primary Rule
	var additional []Rule
	if ok {
		primary = entry.Rule
		additional = append([]Rule(nil), entry.Additional...)
	}
	r.mu.RUnlock()
	if !ok {
		return nil
	}

	var issues []types.ContentIssue
	if issue, failed := primary.apply(field, value); failed {
		issues = append(issues, issue)
	}
	for _, rule := range additional {
		if issue, failed := rule.apply(field, value); failed {
			issues = append(issues, issue)
		}
	}
	return issues
}

// Has reports whether rules are registered for field
func (r *Registry) Has(field string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[field]
	return ok
}

// Fields returns the registered field names in sorted order
func (r *Registry) Fields() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fields := make([]string, 0, len(r.entries))
	for f := range r.entries {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// RuleCount returns the number of rules registered for field
func (r *Registry) RuleCount(field string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[field]
	if !ok {
		return 0
	}
	return 1 + len(entry.Additional)
}

// ApplyFixes returns a copy of row with every suggested fix applied in order.
// Issues without a fixed value are left alone.
func ApplyFixes(row types.Row, issues []types.ContentIssue) types.Row {
	fixed := row.Clone()
	for _, issue := range issues {
		if issue.FixedValue == nil {
			continue
		}
		// stale once an earlier fix changed the field
		if fixed.Get(issue.Field) != issue.Value {
			continue
		}
		fixed.Set(issue.Field, *issue.FixedValue)
	}
	return fixed
}

// maxFixPasses bounds FixRow when fixes keep producing new issues
const maxFixPasses = 3

// FixRow applies suggested fixes field by field, re-validating after each
// pass so fixes from additional rules build on the primary fix. It returns
// the fixed row and the number of values changed.
func (r *Registry) FixRow(row types.Row) (types.Row, int) {
	fixed := row.Clone()
	changed := 0
	for _, field := range fixed.Headers {
		for pass := 0; pass < maxFixPasses; pass++ {
			value := fixed.Get(field)
			next := value
			for _, issue := range r.ValidateField(field, value) {
				if issue.FixedValue != nil && *issue.FixedValue != value {
					next = *issue.FixedValue
					break
				}
			}
			if next == value {
				break
			}
			fixed.Set(field, next)
			changed++
		}
	}
	return fixed, changed
}
