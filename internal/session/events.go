package session

import (
	"sync"
	"time"
)

// maxEvents bounds the per-feed event log
const maxEvents = 100

// EventKind names a reconciliation notification
type EventKind string

const (
	EventIssueRemoved EventKind = "issue_removed"
	EventAllResolved  EventKind = "all_resolved"
	EventWarning      EventKind = "warning"
)

// Event is one notification from the reconcile engine
type Event struct {
	Seq       uint64         `json:"seq"`
	Kind      EventKind      `json:"kind"`
	OfferID   string         `json:"offerId,omitempty"`
	Field     string         `json:"field,omitempty"`
	Remaining int            `json:"remaining"`
	Message   string         `json:"message,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
	At        time.Time      `json:"at"`
}

// eventLog implements both engine collaborators and keeps the latest events
type eventLog struct {
	mu     sync.Mutex
	seq    uint64
	events []Event
}

func (l *eventLog) append(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	e.Seq = l.seq
	e.At = time.Now().UTC()
	l.events = append(l.events, e)
	if len(l.events) > maxEvents {
		l.events = append([]Event(nil), l.events[len(l.events)-maxEvents:]...)
	}
}

func (l *eventLog) IssueRemoved(offerID, field string, remaining int) {
	l.append(Event{Kind: EventIssueRemoved, OfferID: offerID, Field: field, Remaining: remaining})
}

func (l *eventLog) AllResolved() {
	l.append(Event{Kind: EventAllResolved})
}

func (l *eventLog) Warn(msg string, fields map[string]any) {
	l.append(Event{Kind: EventWarning, Message: msg, Fields: fields})
}

// since returns events with a sequence number above seq
func (l *eventLog) since(seq uint64) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []Event{}
	for _, e := range l.events {
		if e.Seq > seq {
			out = append(out, e)
		}
	}
	return out
}

func (l *eventLog) last() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq
}
