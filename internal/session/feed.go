package session

import (
	"strings"
	"sync"
	"time"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/reconcile"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
)

// Feed is one uploaded feed with its current (possibly edited) rows
type Feed struct {
	ID        string
	FileName  string
	CreatedAt time.Time

	mu       sync.Mutex
	headers  []string
	rows     []types.Row
	byOffer  map[string]int
	warnings []types.StructuralIssue

	engine    *reconcile.Engine
	debouncer *reconcile.Debouncer
	events    *eventLog
	metrics   RetractionRecorder
	validated *time.Time
}

func (f *Feed) setRows(rows []types.Row) {
	f.rows = make([]types.Row, len(rows))
	f.byOffer = make(map[string]int, len(rows))
	for i, row := range rows {
		f.rows[i] = row.Clone()
		if id := row.OfferID(); id != "" {
			if _, dup := f.byOffer[id]; !dup {
				f.byOffer[id] = i
			}
		}
	}
}

// Engine returns the feed's reconcile engine
func (f *Feed) Engine() *reconcile.Engine {
	return f.engine
}

// Snapshot returns the headers and a copy of the current rows
func (f *Feed) Snapshot() ([]string, []types.Row) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := make([]types.Row, len(f.rows))
	for i, row := range f.rows {
		rows[i] = row.Clone()
	}
	return append([]string(nil), f.headers...), rows
}

// Warnings returns the structural warnings of the upload
func (f *Feed) Warnings() []types.StructuralIssue {
	return f.warnings
}

// Edit stores the new field text and schedules reconciliation for it.
// With immediate set, pending re-checks run before Edit returns. The id
// column keys the session and the engine, so it cannot be edited.
func (f *Feed) Edit(offerID, field, text string, immediate bool) error {
	if strings.EqualFold(strings.TrimSpace(field), "id") {
		return ErrReadOnlyField
	}

	f.mu.Lock()
	i, ok := f.byOffer[offerID]
	if !ok {
		f.mu.Unlock()
		return ErrUnknownOffer
	}
	f.rows[i].Set(field, text)
	f.mu.Unlock()

	f.debouncer.Trigger(offerID+"\x00"+field, func() {
		retracted := f.engine.OnFieldEdited(offerID, field, text)
		if f.metrics != nil {
			f.metrics.RecordRetracted(retracted)
		}
	})
	if immediate {
		f.debouncer.Flush()
	}
	return nil
}

// Focus marks the row as explicitly navigated to
func (f *Feed) Focus(offerID string) bool {
	return f.engine.Focus(offerID)
}

// Flush runs pending re-checks now
func (f *Feed) Flush() {
	f.debouncer.Flush()
}

// MarkValidated records the time of the latest validation run
func (f *Feed) MarkValidated(at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.validated = &at
}

// ValidatedAt returns the latest validation time, if any
func (f *Feed) ValidatedAt() (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.validated == nil {
		return time.Time{}, false
	}
	return *f.validated, true
}

// Events returns engine notifications newer than seq
func (f *Feed) Events(seq uint64) []Event {
	return f.events.since(seq)
}

// LastEvent returns the sequence number of the newest event
func (f *Feed) LastEvent() uint64 {
	return f.events.last()
}

func (f *Feed) close() {
	f.debouncer.Stop()
}
