package merchant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
)

const maxResponseBytes = 32 << 20

// ClientConfig configures the HTTP validator
type ClientConfig struct {
	Endpoint          string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// DefaultClientConfig returns a conservative configuration
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:           30 * time.Second,
		RequestsPerSecond: 2,
		Burst:             1,
	}
}

// HTTPValidator posts feeds to a remote validation endpoint. Each call is a
// single attempt; failures are reported to the caller as *RequestError.
type HTTPValidator struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	config     ClientConfig
}

// NewHTTPValidator creates a rate limited validator client
func NewHTTPValidator(config ClientConfig) (*HTTPValidator, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("merchant endpoint is required")
	}
	defaults := DefaultClientConfig()
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = defaults.RequestsPerSecond
	}
	if config.Burst <= 0 {
		config.Burst = defaults.Burst
	}

	return &HTTPValidator{
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
		config:     config,
	}, nil
}

type validateRequest struct {
	FeedID   string      `json:"feedId"`
	Headers  []string    `json:"headers"`
	Products []types.Row `json:"products"`
}

// Validate implements Validator
func (v *HTTPValidator) Validate(ctx context.Context, feedID string, headers []string, rows []types.Row) (*types.ValidationResults, error) {
	url := v.config.Endpoint

	if err := v.limiter.Wait(ctx); err != nil {
		return nil, &RequestError{URL: url, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	body, err := json.Marshal(validateRequest{FeedID: feedID, Headers: headers, Products: rows})
	if err != nil {
		return nil, fmt.Errorf("failed to encode validation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &RequestError{URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "feedcheck/1.0")
	if v.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+v.config.APIKey)
	}

	start := time.Now()
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	log.Debug().
		Str("feed_id", feedID).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("Validation service responded")

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &RequestError{URL: url, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(payload, &apiErr) == nil && apiErr.Error != "" {
			return nil, &RequestError{URL: url, Status: resp.StatusCode, Err: fmt.Errorf("%s", apiErr.Error)}
		}
		return nil, &RequestError{URL: url, Status: resp.StatusCode}
	}

	var results types.ValidationResults
	if err := json.Unmarshal(payload, &results); err != nil {
		return nil, &RequestError{URL: url, Status: resp.StatusCode, Err: fmt.Errorf("invalid response body: %w", err)}
	}
	if results.FeedID == "" {
		results.FeedID = feedID
	}
	if results.TotalProducts == 0 && len(rows) > 0 {
		Summarize(&results, len(rows))
	}

	return &results, nil
}

// Name identifies the validator in metrics and logs
func (v *HTTPValidator) Name() string {
	return "remote"
}
