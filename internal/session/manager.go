// Package session keeps uploaded feeds in memory between the upload,
// validation and live-edit requests.
package session

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/reconcile"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
)

var (
	// ErrUnknownFeed is returned for feed ids without an open session
	ErrUnknownFeed = errors.New("session: unknown feed")
	// ErrUnknownOffer is returned for edits to an offer id not in the feed
	ErrUnknownOffer = errors.New("session: unknown offer")
	// ErrReadOnlyField is returned for edits to the offer id column
	ErrReadOnlyField = errors.New("session: field is read-only")
)

// RetractionRecorder counts issues retracted by live edits
type RetractionRecorder interface {
	RecordRetracted(n int)
}

// DefaultMaxFeeds is the number of sessions kept before the oldest is closed
const DefaultMaxFeeds = 100

// Options configures a Manager
type Options struct {
	Policy   reconcile.LengthPolicy
	Debounce time.Duration
	MaxFeeds int
	// Metrics is optional
	Metrics RetractionRecorder
}

// DefaultOptions returns default session options
func DefaultOptions() Options {
	return Options{
		Policy:   reconcile.DefaultLengthPolicy(),
		Debounce: reconcile.DefaultDebounce,
		MaxFeeds: DefaultMaxFeeds,
	}
}

// Manager holds open feed sessions
type Manager struct {
	mu      sync.RWMutex
	options Options
	feeds   map[string]*Feed
}

// NewManager creates an empty manager
func NewManager(options Options) *Manager {
	if options.MaxFeeds <= 0 {
		options.MaxFeeds = DefaultMaxFeeds
	}
	return &Manager{
		options: options,
		feeds:   make(map[string]*Feed),
	}
}

// Open starts a session for a successfully parsed feed, replacing any
// session with the same id.
func (m *Manager) Open(feedID, fileName string, result *types.ParseResult) *Feed {
	events := &eventLog{}
	feed := &Feed{
		ID:        feedID,
		FileName:  fileName,
		CreatedAt: time.Now().UTC(),
		headers:   append([]string(nil), result.Headers...),
		warnings:  result.Warnings,
		events:    events,
		engine: reconcile.NewEngine(
			reconcile.WithPolicy(m.options.Policy),
			reconcile.WithDisplay(events),
			reconcile.WithStatus(events),
		),
		debouncer: reconcile.NewDebouncer(m.options.Debounce),
		metrics:   m.options.Metrics,
	}
	feed.setRows(result.Rows)
	feed.engine.LoadRows(feed.rows)

	m.mu.Lock()
	if old, ok := m.feeds[feedID]; ok {
		old.close()
	}
	m.feeds[feedID] = feed
	evicted := m.evictLocked()
	m.mu.Unlock()

	for _, id := range evicted {
		log.Info().Str("feed_id", id).Msg("Closed oldest feed session")
	}
	return feed
}

// evictLocked closes the oldest sessions above the limit
func (m *Manager) evictLocked() []string {
	if len(m.feeds) <= m.options.MaxFeeds {
		return nil
	}
	all := make([]*Feed, 0, len(m.feeds))
	for _, f := range m.feeds {
		all = append(all, f)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	var evicted []string
	for _, f := range all[:len(all)-m.options.MaxFeeds] {
		f.close()
		delete(m.feeds, f.ID)
		evicted = append(evicted, f.ID)
	}
	return evicted
}

// Get returns the open session for feedID
func (m *Manager) Get(feedID string) (*Feed, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	feed, ok := m.feeds[feedID]
	if !ok {
		return nil, ErrUnknownFeed
	}
	return feed, nil
}

// Close drops the session and its pending re-checks
func (m *Manager) Close(feedID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	feed, ok := m.feeds[feedID]
	if !ok {
		return ErrUnknownFeed
	}
	feed.close()
	delete(m.feeds, feedID)
	return nil
}

// CloseAll drops every session
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, feed := range m.feeds {
		feed.close()
		delete(m.feeds, id)
	}
}

// Len returns the number of open sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.feeds)
}
