package csv

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/parsers/charset"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
	"github.com/rs/zerolog/log"
)

// Parser implements feed CSV parsing with structural checks
type Parser struct {
	options ParserOptions
}

// NewParser creates a new CSV parser with the given options
func NewParser(options ParserOptions) *Parser {
	if options.RequiredHeaders == nil {
		options.RequiredHeaders = append([]string(nil), DefaultRequiredHeaders...)
	}
	return &Parser{
		options: options,
	}
}

// ParseBytes decodes raw file content to UTF-8 and parses it
func (p *Parser) ParseBytes(content []byte) (*types.ParseResult, error) {
	decoded, err := charset.Decode(content, charset.DetectEncoding(content))
	if err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}
	return p.Parse(decoded), nil
}

// Parse parses CSV text into rows, collecting structural errors and warnings.
// Structural problems are reported as data, never as a Go error.
func (p *Parser) Parse(content string) *types.ParseResult {
	result := &types.ParseResult{
		Headers:  make([]string, 0),
		Rows:     make([]types.Row, 0),
		Errors:   make([]types.StructuralIssue, 0),
		Warnings: make([]types.StructuralIssue, 0),
	}

	if strings.TrimSpace(content) == "" {
		result.Errors = append(result.Errors, types.StructuralIssue{
			Type:    types.IssueEmptyFeed,
			Message: "The feed is empty",
		})
		return result
	}

	lines := SplitLines(content)
	if len(lines) == 0 {
		result.Errors = append(result.Errors, types.StructuralIssue{
			Type:    types.IssueEmptyFeed,
			Message: "The feed contains no lines",
		})
		return result
	}

	headers := SplitHeaderLine(lines[0])
	if !slices.ContainsFunc(headers, func(h string) bool { return h != "" }) {
		result.Errors = append(result.Errors, types.StructuralIssue{
			Type:    types.IssueInvalidHeaders,
			Message: "The header row contains no column names",
			Row:     types.IntPtr(1),
		})
		return result
	}
	result.Headers = headers

	if missing := missingHeaders(p.options.RequiredHeaders, headers); len(missing) > 0 {
		result.Warnings = append(result.Warnings, types.StructuralIssue{
			Type:    types.IssueMissingHeaders,
			Message: fmt.Sprintf("Missing recommended headers: %s", strings.Join(missing, ", ")),
			Fields:  missing,
		})
	}

	for i := 1; i < len(lines); i++ {
		rowNumber := i + 1
		row, ok := p.parseRow(lines[i], rowNumber, headers, result)
		if ok {
			result.Rows = append(result.Rows, row)
		}
	}

	if len(result.Rows) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, types.StructuralIssue{
			Type:    types.IssueNoDataRows,
			Message: "The feed has a header row but no product rows",
		})
	}

	log.Debug().
		Int("rows", len(result.Rows)).
		Int("errors", len(result.Errors)).
		Int("warnings", len(result.Warnings)).
		Msg("Parsed feed")

	return result
}

// parseRow tokenizes one data line and appends its warnings to result.
// It returns false when the row has no non-empty value.
func (p *Parser) parseRow(line string, rowNumber int, headers []string, result *types.ParseResult) (types.Row, bool) {
	fields, unclosed := SplitLine(line)
	if unclosed {
		result.Warnings = append(result.Warnings, types.StructuralIssue{
			Type:    types.IssueUnclosedQuote,
			Message: fmt.Sprintf("Row %d has an unclosed quote", rowNumber),
			Row:     types.IntPtr(rowNumber),
		})
	}

	switch {
	case len(fields) > len(headers):
		result.Warnings = append(result.Warnings, types.StructuralIssue{
			Type:     types.IssueTooManyColumns,
			Message:  fmt.Sprintf("Row %d has %d columns, expected %d; extra values were ignored", rowNumber, len(fields), len(headers)),
			Row:      types.IntPtr(rowNumber),
			Expected: types.IntPtr(len(headers)),
			Found:    types.IntPtr(len(fields)),
		})
		fields = fields[:len(headers)]
	case len(fields) < len(headers):
		result.Warnings = append(result.Warnings, types.StructuralIssue{
			Type:     types.IssueTooFewColumns,
			Message:  fmt.Sprintf("Row %d has %d columns, expected %d; missing values were left empty", rowNumber, len(fields), len(headers)),
			Row:      types.IntPtr(rowNumber),
			Expected: types.IntPtr(len(headers)),
			Found:    types.IntPtr(len(fields)),
		})
		for len(fields) < len(headers) {
			fields = append(fields, "")
		}
	}

	row := types.NewRow(nil)
	hasValue := false
	for i, h := range headers {
		if h == "" {
			continue
		}
		value := strings.TrimSpace(fields[i])
		row.Set(h, value)
		if value != "" {
			hasValue = true
		}
	}

	var empty []string
	for _, required := range p.options.RequiredHeaders {
		if slices.Contains(headers, required) && strings.TrimSpace(row.Get(required)) == "" {
			empty = append(empty, required)
		}
	}
	if len(empty) > 0 {
		result.Warnings = append(result.Warnings, types.StructuralIssue{
			Type:    types.IssueEmptyRequiredFields,
			Message: fmt.Sprintf("Row %d has empty required fields: %s", rowNumber, strings.Join(empty, ", ")),
			Row:     types.IntPtr(rowNumber),
			Fields:  empty,
		})
	}

	if p.options.ContentValidator != nil {
		issues, err := runContentValidator(p.options.ContentValidator, row, headers)
		if err != nil {
			log.Warn().Err(err).Int("row", rowNumber).Msg("Content validator failed")
			result.Warnings = append(result.Warnings, types.StructuralIssue{
				Type:    types.IssueContentTypeError,
				Message: fmt.Sprintf("Row %d could not be content-checked: %v", rowNumber, err),
				Row:     types.IntPtr(rowNumber),
			})
		} else if len(issues) > 0 {
			result.Warnings = append(result.Warnings, types.StructuralIssue{
				Type:          types.IssueContentType,
				Message:       fmt.Sprintf("Row %d has %d content issue(s)", rowNumber, len(issues)),
				Row:           types.IntPtr(rowNumber),
				ContentIssues: issues,
			})
		}
	}

	return row, hasValue
}

// runContentValidator calls the collaborator, converting a panic into an error
func runContentValidator(v ContentValidator, row types.Row, headers []string) (issues []types.ContentIssue, err error) {
	defer func() {
		if r := recover(); r != nil {
			issues = nil
			err = fmt.Errorf("content validator panicked: %v", r)
		}
	}()
	return v.Validate(row, headers)
}

// missingHeaders returns the required headers absent from headers, in order
func missingHeaders(required, headers []string) []string {
	var missing []string
	for _, h := range required {
		if !slices.Contains(headers, h) {
			missing = append(missing, h)
		}
	}
	return missing
}
