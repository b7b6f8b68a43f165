package csv

import "github.com/Digitalbradley/adbrain-legal-sub000/internal/types"

// Delimiter is the only field separator of the feed dialect
const Delimiter = ','

// QuoteChar is the quote character of the feed dialect
const QuoteChar = '"'

// DefaultRequiredHeaders lists the headers every product feed is expected to carry
var DefaultRequiredHeaders = []string{"id", "title", "description", "link", "image_link"}

// ContentValidator checks field contents of a parsed row.
// A returned error is reported as a content_type_error warning.
type ContentValidator interface {
	Validate(row types.Row, headers []string) ([]types.ContentIssue, error)
}

// ParserOptions represents CSV parser options
type ParserOptions struct {
	// RequiredHeaders defaults to DefaultRequiredHeaders when nil
	RequiredHeaders []string `json:"requiredHeaders,omitempty"`

	// ContentValidator is optional
	ContentValidator ContentValidator `json:"-"`
}

// DefaultOptions returns default CSV parser options
func DefaultOptions() ParserOptions {
	return ParserOptions{
		RequiredHeaders: append([]string(nil), DefaultRequiredHeaders...),
	}
}
