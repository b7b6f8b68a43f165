package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/storage"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
)

const historyPrefix = "history/"

// FileStore keeps one JSON document per feed run in a storage backend
type FileStore struct {
	storage storage.Storage
}

// NewFileStore creates a store on top of s
func NewFileStore(s storage.Storage) *FileStore {
	return &FileStore{storage: s}
}

// Save writes the record, replacing an earlier one with the same feed id
func (s *FileStore) Save(ctx context.Context, record types.FeedRecord) error {
	if record.Issues == nil {
		record.Issues = []types.ValidationIssue{}
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode feed run: %w", err)
	}

	meta := &storage.Metadata{
		ContentType:  "application/json",
		FeedID:       record.FeedID,
		OriginalName: record.FileName,
		Source:       string(record.Source),
		UploadedAt:   record.CreatedAt,
	}
	if err := s.storage.Put(ctx, storage.HistoryKey(record.FeedID), data, meta); err != nil {
		return fmt.Errorf("failed to save feed run %s: %w", record.FeedID, err)
	}
	return nil
}

// Get loads the record for feedID
func (s *FileStore) Get(ctx context.Context, feedID string) (*types.FeedRecord, error) {
	data, err := s.storage.Get(ctx, storage.HistoryKey(feedID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, feedID)
		}
		return nil, fmt.Errorf("failed to load feed run %s: %w", feedID, err)
	}

	var record types.FeedRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode feed run %s: %w", feedID, err)
	}
	return &record, nil
}

// List reads every stored run and returns the newest first. Unreadable
// documents are skipped with a warning.
func (s *FileStore) List(ctx context.Context, limit int) ([]types.FeedRecord, error) {
	keys, err := s.storage.List(ctx, historyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list feed runs: %w", err)
	}

	records := make([]types.FeedRecord, 0, len(keys))
	for _, key := range keys {
		data, err := s.storage.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Skipping unreadable feed run")
			continue
		}
		var record types.FeedRecord
		if err := json.Unmarshal(data, &record); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Skipping corrupt feed run")
			continue
		}
		records = append(records, record)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].FeedID > records[j].FeedID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if limit = normalizeLimit(limit); len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
