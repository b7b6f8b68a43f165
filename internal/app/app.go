// Package app builds the shared components of the server and the CLI from
// configuration.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Digitalbradley/adbrain-legal-sub000/config"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/database"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/history"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/merchant"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/pipeline"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/reconcile"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/storage"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/validators"
)

// Policy returns the reconciliation length windows from configuration
func Policy(cfg config.ValidationConfig) reconcile.LengthPolicy {
	return reconcile.NewLengthPolicy(
		reconcile.Window{Min: cfg.TitleMin, Max: cfg.TitleMax},
		reconcile.Window{Min: cfg.DescriptionMin, Max: cfg.DescriptionMax},
	)
}

// Validator builds the merchant validator for mode (local or remote)
func Validator(mode string, cfg config.MerchantConfig, registry *validators.Registry, policy reconcile.LengthPolicy, required []string) (merchant.Validator, error) {
	switch strings.ToLower(mode) {
	case "", "local":
		opts := []merchant.LocalOption{merchant.WithLengthPolicy(policy)}
		if required != nil {
			opts = append(opts, merchant.WithRequiredAttributes(required))
		}
		return merchant.NewLocalValidator(registry, opts...), nil
	case "remote":
		return merchant.NewHTTPValidator(merchant.ClientConfig{
			Endpoint:          cfg.Endpoint,
			APIKey:            cfg.APIKey,
			Timeout:           cfg.Timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Burst:             cfg.Burst,
		})
	default:
		return nil, fmt.Errorf("unknown merchant mode %q", mode)
	}
}

// Storage opens the configured raw feed storage
func Storage(cfg config.StorageConfig) (storage.Storage, error) {
	switch cfg.Type {
	case "", "local":
		return storage.NewLocalStorage(cfg.BasePath)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
	}
}

// History opens the configured history store. The postgres backend connects
// the shared pool and creates the schema; "none" returns nil.
func History(ctx context.Context, cfg *config.Config, store storage.Storage) (history.Store, error) {
	switch cfg.History.Backend {
	case "none":
		return nil, nil
	case "", "file":
		if store == nil {
			return nil, fmt.Errorf("file history requires storage")
		}
		return history.NewFileStore(store), nil
	case "postgres":
		dbURL := cfg.Database.URL
		if dbURL == "" {
			dbURL = config.GetDatabaseURL()
		}
		if dbURL == "" {
			return nil, fmt.Errorf("DATABASE_URL not set")
		}
		if err := database.Connect(ctx, dbURL, database.PoolOptions{
			MaxConns:    cfg.Database.MaxConnections,
			MinConns:    cfg.Database.MinConnections,
			MaxLifetime: cfg.Database.MaxConnLifetime,
			MaxIdleTime: cfg.Database.MaxConnIdleTime,
		}); err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		pg := history.NewPostgresStore(database.Pool())
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		log.Info().Msg("Recording validation runs in Postgres")
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.History.Backend)
	}
}

// Options selects per-invocation overrides
type Options struct {
	MerchantMode string
	Source       types.FeedSource
	// NoHistory skips recording runs regardless of configuration
	NoHistory bool
}

// Runner wires storage, history, the content registry and the merchant
// validator into a pipeline runner
func Runner(ctx context.Context, cfg *config.Config, opts Options) (*pipeline.Runner, history.Store, error) {
	registry := validators.NewRegistry()
	policy := Policy(cfg.Validation)

	mode := opts.MerchantMode
	if mode == "" {
		mode = cfg.Merchant.Mode
	}
	validator, err := Validator(mode, cfg.Merchant, registry, policy, cfg.Validation.RequiredHeaders)
	if err != nil {
		return nil, nil, err
	}

	store, err := Storage(cfg.Storage)
	if err != nil {
		return nil, nil, err
	}

	var hist history.Store
	if !opts.NoHistory {
		hist, err = History(ctx, cfg, store)
		if err != nil {
			return nil, nil, err
		}
	}

	runnerCfg := pipeline.DefaultConfig()
	runnerCfg.RequiredHeaders = cfg.Validation.RequiredHeaders
	runnerCfg.Sheet = cfg.Validation.Sheet
	runnerCfg.Policy = policy
	if opts.Source != "" {
		runnerCfg.Source = opts.Source
	}

	runnerOpts := []pipeline.RunnerOption{pipeline.WithStorage(store)}
	if hist != nil {
		runnerOpts = append(runnerOpts, pipeline.WithHistory(hist))
	}
	return pipeline.NewRunner(runnerCfg, registry, validator, runnerOpts...), hist, nil
}
