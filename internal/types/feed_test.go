package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowJSONPreservesHeaderOrder(t *testing.T) {
	row := NewRow([]string{"title", "id", "price"})
	row.Set("title", "Blue shirt")
	row.Set("id", "P1")
	row.Set("price", "10.00 USD")

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Blue shirt","id":"P1","price":"10.00 USD"}`, string(data))

	var decoded Row
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"title", "id", "price"}, decoded.Headers)
	assert.Equal(t, "P1", decoded.OfferID())
}

func TestRowSetDoesNotDuplicateHeaders(t *testing.T) {
	row := NewRow([]string{"id"})
	row.Set("id", "A")
	row.Set("id", "B")
	row.Set("brand", "Acme")

	assert.Equal(t, []string{"id", "brand"}, row.Headers)
	assert.Equal(t, "B", row.Get("id"))
}

func TestRowHasValue(t *testing.T) {
	row := NewRow([]string{"id", "title"})
	row.Set("id", " ")
	row.Set("title", "")
	assert.False(t, row.HasValue())

	row.Set("title", "x")
	assert.True(t, row.HasValue())
}

func TestIssueTypeIsFatal(t *testing.T) {
	tests := []struct {
		issue IssueType
		fatal bool
	}{
		{IssueEmptyFeed, true},
		{IssueInvalidHeaders, true},
		{IssueNoDataRows, true},
		{IssueMissingHeaders, false},
		{IssueTooFewColumns, false},
		{IssueUnclosedQuote, false},
		{IssueContentTypeError, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.issue), func(t *testing.T) {
			assert.Equal(t, tt.fatal, tt.issue.IsFatal())
		})
	}
}
