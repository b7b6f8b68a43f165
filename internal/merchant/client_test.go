package merchant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
)

func sampleRows() []types.Row {
	row := types.NewRow([]string{"id", "title"})
	row.Set("id", "P1")
	row.Set("title", "Shirt")
	return []types.Row{row}
}

func TestHTTPValidatorSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			FeedID   string              `json:"feedId"`
			Headers  []string            `json:"headers"`
			Products []map[string]string `json:"products"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "feed_1", req.FeedID)
		assert.Equal(t, []string{"id", "title"}, req.Headers)
		assert.Equal(t, "Shirt", req.Products[0]["title"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"isValid": false,
			"issues": [{"rowIndex": 1, "offerId": "P1", "field": "title", "type": "error", "message": "Title too short"}]
		}`))
	}))
	defer server.Close()

	v, err := NewHTTPValidator(ClientConfig{Endpoint: server.URL, APIKey: "secret"})
	require.NoError(t, err)

	results, err := v.Validate(context.Background(), "feed_1", []string{"id", "title"}, sampleRows())
	require.NoError(t, err)
	assert.Equal(t, "feed_1", results.FeedID)
	assert.False(t, results.IsValid)
	assert.Equal(t, 1, results.TotalProducts)
	assert.Equal(t, 0, results.ValidProducts)
	require.Len(t, results.Issues, 1)
	assert.Equal(t, types.IssueError, results.Issues[0].Type)
}

func TestHTTPValidatorErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"server error", http.StatusInternalServerError, "", "status 500"},
		{"api error body", http.StatusBadRequest, `{"error":"feed too large"}`, "feed too large"},
		{"bad json", http.StatusOK, `{not json`, "invalid response body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			v, err := NewHTTPValidator(ClientConfig{Endpoint: server.URL})
			require.NoError(t, err)

			_, err = v.Validate(context.Background(), "feed_1", nil, sampleRows())
			require.Error(t, err)

			var reqErr *RequestError
			require.True(t, errors.As(err, &reqErr))
			assert.Equal(t, server.URL, reqErr.URL)
			assert.Equal(t, tt.status, reqErr.Status)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Equal(t, int32(1), calls.Load(), "requests are not retried")
		})
	}
}

func TestHTTPValidatorCancelledContext(t *testing.T) {
	v, err := NewHTTPValidator(ClientConfig{Endpoint: "http://127.0.0.1:1", RequestsPerSecond: 0.001, Burst: 1})
	require.NoError(t, err)
	// drain the only token
	require.True(t, v.limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = v.Validate(ctx, "feed_1", nil, sampleRows())
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Zero(t, reqErr.Status)
}

func TestNewHTTPValidatorRequiresEndpoint(t *testing.T) {
	_, err := NewHTTPValidator(ClientConfig{})
	assert.Error(t, err)
}
