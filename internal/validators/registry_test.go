package validators

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSkipsEmptyValues(t *testing.T) {
	r := NewRegistry()
	headers := []string{"id", "title", "description", "link", "image_link", "price", "gtin"}

	row := types.NewRow(headers)
	for _, h := range headers {
		row.Set(h, "")
	}

	issues, err := r.Validate(row, headers)
	require.NoError(t, err)
	assert.Empty(t, issues)

	// headers absent from the row are treated as empty too
	issues, err = r.Validate(types.NewRow(nil), headers)
	require.NoError(t, err)
	assert.Empty(t, issues)

	for _, h := range headers {
		assert.Empty(t, r.ValidateField(h, ""), h)
	}
}

func TestValidateOnlyCheckedHeaders(t *testing.T) {
	r := NewRegistry()
	row := types.NewRow(nil)
	row.Set("id", "bad id")
	row.Set("color", "<red>")

	issues, err := r.Validate(row, []string{"color"})
	require.NoError(t, err)
	assert.Empty(t, issues)

	issues, err = r.Validate(row, []string{"id", "color", "id"})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "id", issues[0].Field)
	assert.Equal(t, "bad id", issues[0].Value)
	assert.Equal(t, types.SeverityError, issues[0].Severity)
}

func TestAddCustomValidator(t *testing.T) {
	r := NewEmptyRegistry()
	assert.False(t, r.Has("color"))

	require.NoError(t, r.AddCustomValidator("color", Rule{
		Validate: func(v string) bool { return v != "rainbow" },
		Message:  "Pick a real color",
		Severity: types.SeverityWarning,
	}))
	assert.True(t, r.Has("color"))
	assert.Equal(t, 1, r.RuleCount("color"))

	require.NoError(t, r.AddCustomValidator("color", Rule{
		Validate: func(v string) bool { return len(v) < 10 },
		Message:  "Color name too long",
		Severity: types.SeverityInfo,
		Fix:      func(v string) *string { s := v[:9]; return &s },
	}))
	assert.Equal(t, 2, r.RuleCount("color"))

	issues := r.ValidateField("color", "rainbowish")
	require.Len(t, issues, 1)
	assert.Equal(t, "Color name too long", issues[0].Message)
	assert.Equal(t, "rainbowis", *issues[0].FixedValue)

	issues = r.ValidateField("color", "rainbow")
	require.Len(t, issues, 1)
	assert.Equal(t, "Pick a real color", issues[0].Message)
}

func TestAddCustomValidatorExtendsDefaults(t *testing.T) {
	r := NewRegistry()
	before := r.RuleCount("title")

	require.NoError(t, r.AddCustomValidator("title", Rule{
		Validate: func(v string) bool { return v != "forbidden" },
		Message:  "Forbidden title",
		Severity: types.SeverityError,
	}))
	assert.Equal(t, before+1, r.RuleCount("title"))

	// a fresh registry is unaffected
	assert.Equal(t, before, NewRegistry().RuleCount("title"))
}

func TestAddCustomValidatorWhileValidating(t *testing.T) {
	r := NewRegistry()
	base := r.RuleCount("brand")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.AddCustomValidator("brand", Rule{
				Validate: func(v string) bool { return v != fmt.Sprintf("banned-%d", i) },
				Message:  "Banned brand",
				Severity: types.SeverityWarning,
			}))
		}()
		go func() {
			defer wg.Done()
			r.ValidateField("brand", "Acme")
		}()
	}
	wg.Wait()

	assert.Equal(t, base+20, r.RuleCount("brand"))
	issues := r.ValidateField("brand", "banned-3")
	require.Len(t, issues, 1)
	assert.Equal(t, "Banned brand", issues[0].Message)
}

func TestAddCustomValidatorRejectsIncompleteRules(t *testing.T) {
	valid := func(string) bool { return true }
	tests := []struct {
		name string
		rule Rule
	}{
		{"missing validate", Rule{Message: "m", Severity: types.SeverityError}},
		{"missing message", Rule{Validate: valid, Severity: types.SeverityError}},
		{"missing severity", Rule{Validate: valid, Message: "m"}},
		{"unknown severity", Rule{Validate: valid, Message: "m", Severity: "fatal"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewEmptyRegistry()
			err := r.AddCustomValidator("x", tt.rule)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRule))
			assert.False(t, r.Has("x"))
		})
	}
}

func TestFields(t *testing.T) {
	fields := NewRegistry().Fields()
	assert.Equal(t, []string{
		"availability", "brand", "condition", "description", "gtin",
		"id", "image_link", "link", "mpn", "price", "title",
	}, fields)
}

func TestFixRow(t *testing.T) {
	r := NewRegistry()
	row := types.NewRow(nil)
	row.Set("id", "P 1")
	row.Set("link", "example.com/p")
	row.Set("price", "19.9")
	row.Set("availability", "yes")
	row.Set("note", "untouched")

	fixed, changed := r.FixRow(row)
	assert.Equal(t, "P1", fixed.Get("id"))
	assert.Equal(t, "https://example.com/p", fixed.Get("link"))
	assert.Equal(t, "19.90 USD", fixed.Get("price"))
	assert.Equal(t, "in stock", fixed.Get("availability"))
	assert.Equal(t, "untouched", fixed.Get("note"))
	assert.Equal(t, 4, changed)

	// the original row is not modified
	assert.Equal(t, "P 1", row.Get("id"))
}

func TestApplyFixes(t *testing.T) {
	r := NewRegistry()
	row := types.NewRow(nil)
	row.Set("link", "http://example.com")

	issues := r.ValidateField("link", row.Get("link"))
	fixed := ApplyFixes(row, issues)
	assert.Equal(t, "https://example.com", fixed.Get("link"))
}
