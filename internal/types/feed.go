package types

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"time"
)

// Row represents a parsed feed row: an ordered mapping of header name to
// trimmed value. Every header of the parse has an entry, possibly empty.
type Row struct {
	Headers []string          `json:"-"`
	Values  map[string]string `json:"-"`
}

// NewRow creates an empty row for the given header order
func NewRow(headers []string) Row {
	return Row{
		Headers: append([]string(nil), headers...),
		Values:  make(map[string]string, len(headers)),
	}
}

// Get returns the value for a field, or "" when absent
func (r Row) Get(field string) string {
	if r.Values == nil {
		return ""
	}
	return r.Values[field]
}

// Set assigns a value, appending the header if it is new to the row
func (r *Row) Set(field, value string) {
	if r.Values == nil {
		r.Values = make(map[string]string)
	}
	if _, ok := r.Values[field]; !ok && !slices.Contains(r.Headers, field) {
		r.Headers = append(r.Headers, field)
	}
	r.Values[field] = value
}

// HasValue reports whether at least one field is non-empty
func (r Row) HasValue() bool {
	for _, v := range r.Values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// OfferID returns the stable cross-reference key of the row (its id field)
func (r Row) OfferID() string {
	return strings.TrimSpace(r.Get("id"))
}

// Clone returns a deep copy of the row
func (r Row) Clone() Row {
	c := NewRow(r.Headers)
	for k, v := range r.Values {
		c.Values[k] = v
	}
	return c
}

// MarshalJSON encodes the row as a JSON object preserving header order
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, h := range r.Headers {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(h)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Values[h])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into a row, keeping key order
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = NewRow(nil)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var value string
		if err := dec.Decode(&value); err != nil {
			return err
		}
		r.Set(key, value)
	}
	_, err := dec.Token()
	return err
}

// Severity represents content issue severity levels
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Valid reports whether s is a known severity
func (s Severity) Valid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// IssueType represents structural issue types produced by the parser
type IssueType string

const (
	IssueEmptyFeed           IssueType = "empty_feed"
	IssueInvalidHeaders      IssueType = "invalid_headers"
	IssueMissingHeaders      IssueType = "missing_headers_warning"
	IssueTooManyColumns      IssueType = "too_many_columns"
	IssueTooFewColumns       IssueType = "too_few_columns"
	IssueUnclosedQuote       IssueType = "unclosed_quote"
	IssueEmptyRequiredFields IssueType = "empty_required_fields"
	IssueNoDataRows          IssueType = "no_data_rows"
	IssueContentType         IssueType = "content_type_issues"
	IssueContentTypeError    IssueType = "content_type_error"
)

// IsFatal reports whether the issue type prevents any rows from being used
func (t IssueType) IsFatal() bool {
	switch t {
	case IssueEmptyFeed, IssueInvalidHeaders, IssueNoDataRows:
		return true
	}
	return false
}

// StructuralIssue represents a parse error or warning
type StructuralIssue struct {
	Type          IssueType      `json:"type"`
	Message       string         `json:"message"`
	Row           *int           `json:"row,omitempty"`
	Expected      *int           `json:"expected,omitempty"`
	Found         *int           `json:"found,omitempty"`
	Fields        []string       `json:"fields,omitempty"`
	ContentIssues []ContentIssue `json:"contentIssues,omitempty"`
}

// ContentIssue represents a single failed content rule for a field
type ContentIssue struct {
	Field      string   `json:"field"`
	Value      string   `json:"value"`
	Message    string   `json:"message"`
	Severity   Severity `json:"severity"`
	FixedValue *string  `json:"fixedValue"`
}

// ParseResult represents result of parsing a feed
type ParseResult struct {
	Headers  []string          `json:"headers"`
	Rows     []Row             `json:"data"`
	Errors   []StructuralIssue `json:"errors"`
	Warnings []StructuralIssue `json:"warnings"`
}

// Failed reports whether the parse produced fatal errors
func (r *ParseResult) Failed() bool {
	return len(r.Errors) > 0
}

// IssueSeverity is the severity reported by the external validator
type IssueSeverity string

const (
	IssueError   IssueSeverity = "error"
	IssueWarning IssueSeverity = "warning"
)

// ValidationIssue represents an issue sourced from the external validator.
// OfferID is the stable key; RowIndex may change between parse runs.
type ValidationIssue struct {
	RowIndex int           `json:"rowIndex"`
	OfferID  string        `json:"offerId"`
	Field    string        `json:"field"`
	Type     IssueSeverity `json:"type"`
	Message  string        `json:"message"`
}

// ValidationResults represents one validation run of a feed
type ValidationResults struct {
	FeedID        string            `json:"feedId"`
	IsValid       bool              `json:"isValid"`
	TotalProducts int               `json:"totalProducts"`
	ValidProducts int               `json:"validProducts"`
	Issues        []ValidationIssue `json:"issues"`
}

// FeedSource represents where a validation run was started from
type FeedSource string

const (
	SourceCLI FeedSource = "cli"
	SourceAPI FeedSource = "api"
)

// FeedRecord is the serializable history record of a validation run
type FeedRecord struct {
	FeedID        string            `json:"feedId"`
	FileName      string            `json:"fileName,omitempty"`
	Source        FeedSource        `json:"source,omitempty"`
	IsValid       bool              `json:"isValid"`
	TotalProducts int               `json:"totalProducts"`
	ValidProducts int               `json:"validProducts"`
	Issues        []ValidationIssue `json:"issues"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// NewFeedRecord builds a history record from validation results
func NewFeedRecord(results *ValidationResults, fileName string, source FeedSource) FeedRecord {
	issues := make([]ValidationIssue, len(results.Issues))
	copy(issues, results.Issues)
	return FeedRecord{
		FeedID:        results.FeedID,
		FileName:      fileName,
		Source:        source,
		IsValid:       results.IsValid,
		TotalProducts: results.TotalProducts,
		ValidProducts: results.ValidProducts,
		Issues:        issues,
		CreatedAt:     time.Now().UTC(),
	}
}

// StringPtr returns a pointer to the given string
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to the given int
func IntPtr(i int) *int {
	return &i
}
