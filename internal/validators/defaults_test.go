package validators

import (
	"strings"
	"testing"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func primaryValid(t *testing.T, field, value string) bool {
	t.Helper()
	entry, ok := defaultEntries()[field]
	require.True(t, ok, "no entry for %s", field)
	return entry.Validate(value)
}

// TestRequiredFieldValidators tests the primary rule of each built-in field
func TestRequiredFieldValidators(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		valid bool
	}{
		{"id with space", "id", "product 123", false},
		{"id plain", "id", "SKU_123-a", true},
		{"id too long", "id", strings.Repeat("a", 51), false},
		{"title URL", "title", "https://x.com", false},
		{"title scheme inside", "title", "see ftp://x", false},
		{"title HTML", "title", "Shirt <b>bold</b>", false},
		{"title slash", "title", "Shirt 1/2 price", false},
		{"title plain", "title", "Blue cotton shirt", true},
		{"description URL", "description", "http://spam", false},
		{"description plain", "description", "A description.", true},
		{"price missing currency", "price", "100.00", false},
		{"price USD", "price", "100.00 USD", true},
		{"price USD no decimals", "price", "100 USD", false},
		{"price JPY no decimals", "price", "1200 JPY", true},
		{"price JPY with decimals", "price", "1200.00 JPY", false},
		{"price unsupported currency", "price", "10.00 CHF", false},
		{"price one decimal", "price", "10.5 EUR", false},
		{"availability AVAILABLE", "availability", "AVAILABLE", false},
		{"availability mixed case", "availability", "In Stock", true},
		{"availability backorder", "availability", "backorder", true},
		{"condition NEW", "condition", "NEW", true},
		{"condition broken", "condition", "broken", false},
		{"link without scheme", "link", "example.com/p", false},
		{"link http", "link", "http://example.com/p", true},
		{"link with space", "link", "https://exa mple.com", false},
		{"gtin 13", "gtin", "4006381333931", true},
		{"gtin 11", "gtin", "12345678901", false},
		{"gtin letters", "gtin", "40063813339AB", false},
		{"mpn ok", "mpn", "MPN-42_x", true},
		{"mpn symbol", "mpn", "MPN#42", false},
		{"brand short", "brand", "A", false},
		{"brand ok", "brand", "Acme", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, primaryValid(t, tt.field, tt.value))
		})
	}
}

func TestFixSuggestions(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name    string
		field   string
		value   string
		message string
		fixed   *string
	}{
		{"id strips chars", "id", "product 123!", "ID must", types.StringPtr("product123")},
		{"title strips html", "title", "Shirt <b>bold</b> [sale]", "Title must not", types.StringPtr("Shirt bold sale")},
		{"title caps", "title", "BLUE COTTON SHIRT FOR SUMMER DAYS", "capital", types.StringPtr("Blue cotton shirt for summer days")},
		{"title too short has no fix", "title", "Shirt", "shorter", nil},
		{"link prepends scheme", "link", "example.com/p", "complete URL", types.StringPtr("https://example.com/p")},
		{"link upgrades to https", "link", "http://example.com/p", "HTTPS", types.StringPtr("https://example.com/p")},
		{"price adds currency", "price", "100.00", "Price", types.StringPtr("100.00 USD")},
		{"price european format", "price", "1.299,5 eur", "Price", types.StringPtr("1299.50 EUR")},
		{"price symbol", "price", "$19.9", "Price", types.StringPtr("19.90 USD")},
		{"price JPY rounds", "price", "1200.00 JPY", "Price", types.StringPtr("1200 JPY")},
		{"price unknown currency", "price", "10 CHF", "Price", types.StringPtr("10.00 USD")},
		{"availability out", "availability", "Out-Of-Stock!", "Availability", types.StringPtr("out of stock")},
		{"availability stock", "availability", "stocked", "Availability", types.StringPtr("in stock")},
		{"availability pre", "availability", "pre-order", "Availability", types.StringPtr("preorder")},
		{"availability back", "availability", "back soon", "Availability", types.StringPtr("backorder")},
		{"availability default", "availability", "AVAILABLE", "Availability", types.StringPtr("in stock")},
		{"condition brand", "condition", "Brand-new", "Condition", types.StringPtr("new")},
		{"condition second", "condition", "second hand", "Condition", types.StringPtr("used")},
		{"condition reconditioned", "condition", "Reconditioned", "Condition", types.StringPtr("refurbished")},
		{"condition default", "condition", "mint", "Condition", types.StringPtr("new")},
		{"gtin strips", "gtin", "4006-3813-3393-1", "GTIN must", types.StringPtr("4006381333931")},
		{"gtin unusable", "gtin", "12-34", "GTIN must", nil},
		{"mpn strips", "mpn", "MPN #42", "MPN", types.StringPtr("MPN42")},
		{"brand strips", "brand", "Acme/Co", "Brand", types.StringPtr("AcmeCo")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := r.ValidateField(tt.field, tt.value)
			var found *types.ContentIssue
			for i := range issues {
				if strings.Contains(issues[i].Message, tt.message) {
					found = &issues[i]
					break
				}
			}
			require.NotNil(t, found, "expected issue containing %q, got %+v", tt.message, issues)
			assert.Equal(t, tt.fixed, found.FixedValue)
		})
	}
}

func TestTitleAdditionalRules(t *testing.T) {
	r := NewRegistry()

	issues := r.ValidateField("title", "Short")
	require.Len(t, issues, 1)
	assert.Equal(t, types.SeverityWarning, issues[0].Severity)

	long := strings.Repeat("a", 151)
	issues = r.ValidateField("title", long)
	require.Len(t, issues, 1)
	require.NotNil(t, issues[0].FixedValue)
	assert.Len(t, *issues[0].FixedValue, 150)

	assert.Empty(t, r.ValidateField("title", strings.Repeat("a", 30)))
	assert.Empty(t, r.ValidateField("title", "1234567890 1234567890 1234567890"))
}

func TestDescriptionAdditionalRules(t *testing.T) {
	r := NewRegistry()

	issues := r.ValidateField("description", "Too short desc")
	require.Len(t, issues, 1)
	assert.Equal(t, types.SeverityWarning, issues[0].Severity)
	assert.Nil(t, issues[0].FixedValue)

	assert.Empty(t, r.ValidateField("description", strings.Repeat("d", 100)))

	issues = r.ValidateField("description", strings.Repeat("d", 5001))
	require.Len(t, issues, 1)
	assert.Len(t, *issues[0].FixedValue, 5000)
}

func TestImageLinkExtension(t *testing.T) {
	r := NewRegistry()

	assert.Empty(t, r.ValidateField("image_link", "https://x.com/i.JPG?w=200"))

	issues := r.ValidateField("image_link", "https://x.com/image")
	require.Len(t, issues, 1)
	assert.Equal(t, types.SeverityInfo, issues[0].Severity)
	assert.Nil(t, issues[0].FixedValue)
}

func TestGTINCheckDigit(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"4006381333931", true},
		{"3850012345679", false},
		{"036000291452", true},
		{"96385074", true},
		{"00012345600012", true},
		{"123", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.valid, validGTINCheckDigit(tt.value))
		})
	}
}
