// Package reconcile keeps an externally sourced validation issue list
// consistent with live edits to length-constrained fields.
package reconcile

import (
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
)

// Engine owns row state, the offer id to row index map and the open issues.
// Collaborators are notified after the engine lock is released, so they may
// call back into the engine.
type Engine struct {
	mu sync.Mutex

	policy  LengthPolicy
	display IssueDisplay
	status  StatusSink
	logger  zerolog.Logger

	rows  map[string]*RowState
	order []string

	// rowIndex maps offer id -> validator row index
	rowIndex map[string]int
	// groups holds open issues by row index
	groups  map[int][]types.ValidationIssue
	results *types.ValidationResults
	// retracted records (offer id, field) pairs already marked fixed
	retracted map[string]bool

	queued []func()
}

// Option configures an Engine
type Option func(*Engine)

// WithDisplay sets the issue display collaborator
func WithDisplay(d IssueDisplay) Option {
	return func(e *Engine) {
		if d != nil {
			e.display = d
		}
	}
}

// WithStatus sets the status collaborator
func WithStatus(s StatusSink) Option {
	return func(e *Engine) {
		if s != nil {
			e.status = s
		}
	}
}

// WithPolicy overrides the length windows
func WithPolicy(p LengthPolicy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// NewEngine creates an empty engine
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		policy:   DefaultLengthPolicy(),
		display:  noopDisplay{},
		status:   noopStatus{},
		logger:   log.Logger,
		rows:     make(map[string]*RowState),
		rowIndex: make(map[string]int),
		groups:   make(map[int][]types.ValidationIssue),

		retracted: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// unlock releases the engine and then runs queued notifications
func (e *Engine) unlock() {
	queued := e.queued
	e.queued = nil
	e.mu.Unlock()
	for _, fn := range queued {
		fn()
	}
}

func (e *Engine) warn(msg string, fields map[string]any) {
	e.logger.Warn().Fields(fields).Msg(msg)
	e.queued = append(e.queued, func() { e.status.Warn(msg, fields) })
}

// LoadRows replaces the displayed rows. Row indexes are 1-based data row
// positions. Previously applied results are discarded, then every editable
// field is reconciled.
func (e *Engine) LoadRows(rows []types.Row) {
	e.mu.Lock()
	defer e.unlock()

	e.rows = make(map[string]*RowState, len(rows))
	e.order = e.order[:0]
	e.rowIndex = make(map[string]int, len(rows))
	e.groups = make(map[int][]types.ValidationIssue)
	e.results = nil
	e.retracted = make(map[string]bool)

	for i, row := range rows {
		offerID := row.OfferID()
		if offerID == "" {
			e.warn("Row has no id, skipping", map[string]any{"row_index": i + 1})
			continue
		}
		if _, dup := e.rows[offerID]; dup {
			e.warn("Duplicate offer id, keeping first row", map[string]any{
				"offer_id":  offerID,
				"row_index": i + 1,
			})
			continue
		}

		state := &RowState{
			OfferID:  offerID,
			RowIndex: i + 1,
			Fields:   make(map[string]*FieldState, len(row.Headers)),
		}
		for _, h := range row.Headers {
			text := row.Get(h)
			compliant, _ := e.policy.Compliant(h, text)
			state.Fields[h] = &FieldState{Text: text, Compliant: compliant}
		}
		e.rows[offerID] = state
		e.order = append(e.order, offerID)
		e.rowIndex[offerID] = i + 1
	}

	e.sweepLocked()
}

// SweepAll reconciles every editable field of every row
func (e *Engine) SweepAll() {
	e.mu.Lock()
	defer e.unlock()
	e.sweepLocked()
}

func (e *Engine) sweepLocked() {
	for _, offerID := range e.order {
		row := e.rows[offerID]
		for _, field := range e.policy.Fields() {
			fs, ok := row.Fields[field]
			if !ok {
				continue
			}
			e.reconcileLocked(row, field, fs.Text, true)
		}
	}
}

// ApplyResults stores a new validation result set and rebuilds the offer id
// map and issue groups from it. Issues without an offer id or row index are
// logged and skipped.
func (e *Engine) ApplyResults(results *types.ValidationResults) {
	e.mu.Lock()
	defer e.unlock()

	if results == nil {
		e.warn("No validation results to apply", nil)
		return
	}

	stored := *results
	stored.Issues = append([]types.ValidationIssue(nil), results.Issues...)
	e.results = &stored

	e.rowIndex = make(map[string]int)
	e.groups = make(map[int][]types.ValidationIssue)
	e.retracted = make(map[string]bool)
	for _, issue := range stored.Issues {
		if issue.OfferID == "" || issue.RowIndex <= 0 {
			e.warn("Validation issue without offer id or row index", map[string]any{
				"offer_id":  issue.OfferID,
				"row_index": issue.RowIndex,
				"field":     issue.Field,
			})
			continue
		}
		e.rowIndex[issue.OfferID] = issue.RowIndex
		e.groups[issue.RowIndex] = append(e.groups[issue.RowIndex], issue)
	}

	e.logger.Debug().
		Str("feed_id", stored.FeedID).
		Int("issues", len(stored.Issues)).
		Int("rows_mapped", len(e.rowIndex)).
		Msg("Applied validation results")
}

// Focus marks a row as explicitly navigated to
func (e *Engine) Focus(offerID string) bool {
	e.mu.Lock()
	defer e.unlock()

	row, ok := e.rows[offerID]
	if !ok {
		e.warn("Cannot focus unknown row", map[string]any{"offer_id": offerID})
		return false
	}
	row.Focused = true
	return true
}

// OnFieldEdited records new text for a field and reconciles the row. It
// returns the number of open issues the edit retracted.
func (e *Engine) OnFieldEdited(offerID, field, text string) int {
	e.mu.Lock()
	defer e.unlock()

	row, ok := e.rows[offerID]
	if !ok {
		e.warn("Edit for unknown row", map[string]any{"offer_id": offerID, "field": field})
		return 0
	}
	return e.reconcileLocked(row, field, text, false)
}

func (e *Engine) reconcileLocked(row *RowState, field, text string, sweeping bool) int {
	fs, ok := row.Fields[field]
	if !ok {
		fs = &FieldState{}
		row.Fields[field] = fs
	}
	fs.Text = text

	compliant, editable := e.policy.Compliant(field, text)
	fs.Compliant = compliant
	if !editable {
		return 0
	}

	if !compliant {
		delete(e.retracted, retractKey(row.OfferID, field))
		fs.Invalid = true
		if row.Focused {
			row.NeedsFix = true
		}
		return 0
	}

	fs.Invalid = false
	for _, other := range e.policy.Fields() {
		ofs, ok := row.Fields[other]
		if !ok {
			continue
		}
		if ok, _ := e.policy.Compliant(other, ofs.Text); !ok {
			return 0
		}
	}

	row.NeedsFix = false
	row.Focused = false

	// nothing to retract before results arrive
	if sweeping {
		if _, mapped := e.rowIndex[row.OfferID]; !mapped || e.results == nil {
			return 0
		}
	}
	return e.markIssueAsFixedLocked(row.OfferID, field)
}

// MarkIssueAsFixed removes the open issues of offerID that belong to field,
// after checking that the field really is compliant now. It returns the
// number of issues removed; repeated calls remove nothing.
func (e *Engine) MarkIssueAsFixed(offerID, field string) int {
	e.mu.Lock()
	defer e.unlock()
	return e.markIssueAsFixedLocked(offerID, field)
}

func (e *Engine) markIssueAsFixedLocked(offerID, field string) int {
	var fs *FieldState
	if row, ok := e.rows[offerID]; ok {
		fs = row.Fields[field]
	}
	if fs == nil {
		e.warn("No row state to verify fix, issue kept", map[string]any{
			"offer_id": offerID,
			"field":    field,
		})
		return 0
	}
	if compliant, _ := e.policy.Compliant(field, fs.Text); !compliant {
		e.warn("Field is still out of range, issue kept", map[string]any{
			"offer_id": offerID,
			"field":    field,
		})
		return 0
	}

	idx, ok := e.rowIndex[offerID]
	if !ok {
		e.warn("Cannot locate issue for offer", map[string]any{"offer_id": offerID, "field": field})
		return 0
	}

	group := e.groups[idx]
	attributed := func(f string) bool {
		row, ok := e.rows[offerID]
		if !ok {
			return false
		}
		_, known := row.Fields[strings.TrimSpace(f)]
		return known
	}
	hits, strategy := matchIssues(group, field, attributed)
	key := retractKey(offerID, field)
	// fallback matches are not retried once the field was retracted
	if strategy != "field" && e.retracted[key] {
		hits = nil
	}
	if len(hits) == 0 {
		e.logger.Debug().Str("offer_id", offerID).Str("field", field).Msg("No open issue to remove")
		return 0
	}

	removed := make([]types.ValidationIssue, 0, len(hits))
	kept := group[:0:0]
	next := 0
	for i, issue := range group {
		if next < len(hits) && hits[next] == i {
			removed = append(removed, issue)
			next++
			continue
		}
		kept = append(kept, issue)
	}
	if len(kept) == 0 {
		delete(e.groups, idx)
	} else {
		e.groups[idx] = kept
	}
	for _, issue := range removed {
		e.dropStoredLocked(issue)
	}
	e.retracted[key] = true

	e.logger.Info().
		Str("offer_id", offerID).
		Str("field", field).
		Str("matched_by", strategy).
		Int("removed", len(removed)).
		Msg("Marked issue as fixed")

	e.notifyRemovedLocked(offerID, field)
	return len(removed)
}

func retractKey(offerID, field string) string {
	return offerID + "\x00" + strings.ToLower(field)
}

// dropStoredLocked removes one occurrence of issue from the stored results
func (e *Engine) dropStoredLocked(issue types.ValidationIssue) {
	if e.results == nil {
		return
	}
	for i, stored := range e.results.Issues {
		if stored == issue {
			e.results.Issues = append(e.results.Issues[:i], e.results.Issues[i+1:]...)
			return
		}
	}
}

func (e *Engine) notifyRemovedLocked(offerID, field string) {
	remaining := e.countLocked()
	e.queued = append(e.queued, func() { e.display.IssueRemoved(offerID, field, remaining) })
	if remaining == 0 {
		e.queued = append(e.queued, e.display.AllResolved)
	}
}

func (e *Engine) countLocked() int {
	n := 0
	for _, g := range e.groups {
		n += len(g)
	}
	return n
}

// IssueCount returns the number of open issues
func (e *Engine) IssueCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.countLocked()
}

// OpenIssues returns the open issues ordered by row index
func (e *Engine) OpenIssues() []types.ValidationIssue {
	e.mu.Lock()
	defer e.mu.Unlock()

	indexes := make([]int, 0, len(e.groups))
	for idx := range e.groups {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	issues := make([]types.ValidationIssue, 0, e.countLocked())
	for _, idx := range indexes {
		issues = append(issues, e.groups[idx]...)
	}
	return issues
}

// Results returns a copy of the stored result set, or nil before any
// results were applied
func (e *Engine) Results() *types.ValidationResults {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.results == nil {
		return nil
	}
	out := *e.results
	out.Issues = append([]types.ValidationIssue(nil), e.results.Issues...)
	return &out
}

// Row returns a snapshot of the row state for offerID
func (e *Engine) Row(offerID string) (RowState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	row, ok := e.rows[offerID]
	if !ok {
		return RowState{}, false
	}
	return row.clone(), true
}

// RowIndex returns the validator row index mapped to offerID
func (e *Engine) RowIndex(offerID string) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx, ok := e.rowIndex[offerID]
	return idx, ok
}
