// Package history persists the outcome of feed validation runs.
package history

import (
	"context"
	"errors"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
)

// ErrNotFound is returned when no run exists for a feed id
var ErrNotFound = errors.New("history: feed run not found")

// DefaultListLimit caps List when no limit is given
const DefaultListLimit = 50

// Store saves and loads feed run records
type Store interface {
	Save(ctx context.Context, record types.FeedRecord) error
	Get(ctx context.Context, feedID string) (*types.FeedRecord, error)
	// List returns the most recent records first
	List(ctx context.Context, limit int) ([]types.FeedRecord, error)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
