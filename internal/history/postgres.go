package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS feed_runs (
	feed_id        TEXT PRIMARY KEY,
	file_name      TEXT NOT NULL DEFAULT '',
	source         TEXT NOT NULL DEFAULT '',
	is_valid       BOOLEAN NOT NULL,
	total_products INTEGER NOT NULL,
	valid_products INTEGER NOT NULL,
	issues         JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS feed_runs_created_at_idx ON feed_runs (created_at DESC);
`

const selectColumns = `feed_id, file_name, source, is_valid, total_products, valid_products, issues, created_at`

// PostgresStore keeps feed runs in the feed_runs table
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store on an existing pool
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the feed_runs table if needed
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create feed_runs schema: %w", err)
	}
	return nil
}

// Save inserts or replaces the record for its feed id
func (s *PostgresStore) Save(ctx context.Context, record types.FeedRecord) error {
	issues := record.Issues
	if issues == nil {
		issues = []types.ValidationIssue{}
	}
	issuesJSON, err := json.Marshal(issues)
	if err != nil {
		return fmt.Errorf("failed to encode issues: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO feed_runs (
			feed_id, file_name, source, is_valid, total_products, valid_products, issues, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (feed_id) DO UPDATE SET
			file_name = EXCLUDED.file_name,
			source = EXCLUDED.source,
			is_valid = EXCLUDED.is_valid,
			total_products = EXCLUDED.total_products,
			valid_products = EXCLUDED.valid_products,
			issues = EXCLUDED.issues
	`, record.FeedID, record.FileName, string(record.Source), record.IsValid,
		record.TotalProducts, record.ValidProducts, issuesJSON, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save feed run %s: %w", record.FeedID, err)
	}

	log.Debug().Str("feed_id", record.FeedID).Int("issues", len(issues)).Msg("Saved feed run")
	return nil
}

// Get loads the record for feedID
func (s *PostgresStore) Get(ctx context.Context, feedID string) (*types.FeedRecord, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM feed_runs WHERE feed_id = $1`, feedID)
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, feedID)
		}
		return nil, fmt.Errorf("failed to load feed run %s: %w", feedID, err)
	}
	return record, nil
}

// List returns up to limit records, newest first
func (s *PostgresStore) List(ctx context.Context, limit int) ([]types.FeedRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+selectColumns+` FROM feed_runs ORDER BY created_at DESC, feed_id DESC LIMIT $1`,
		normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list feed runs: %w", err)
	}
	defer rows.Close()

	records := []types.FeedRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed run: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feed runs: %w", err)
	}
	return records, nil
}

func scanRecord(row pgx.Row) (*types.FeedRecord, error) {
	var (
		record     types.FeedRecord
		source     string
		issuesJSON []byte
	)
	if err := row.Scan(
		&record.FeedID,
		&record.FileName,
		&source,
		&record.IsValid,
		&record.TotalProducts,
		&record.ValidProducts,
		&issuesJSON,
		&record.CreatedAt,
	); err != nil {
		return nil, err
	}
	record.Source = types.FeedSource(source)
	if err := json.Unmarshal(issuesJSON, &record.Issues); err != nil {
		return nil, fmt.Errorf("failed to decode issues of %s: %w", record.FeedID, err)
	}
	return &record, nil
}
