package csv

import (
	"regexp"
	"strings"
)

var lineBreaks = regexp.MustCompile(`[\r\n]+`)

// SplitLines splits content on any run of CR/LF characters and drops blank lines
func SplitLines(content string) []string {
	parts := lineBreaks.Split(content, -1)
	lines := make([]string, 0, len(parts))
	for _, line := range parts {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// SplitHeaderLine splits the header line on commas, trimming each name and
// stripping one layer of surrounding double quotes
func SplitHeaderLine(line string) []string {
	raw := strings.Split(line, string(Delimiter))
	headers := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if len(h) >= 2 && h[0] == QuoteChar && h[len(h)-1] == QuoteChar {
			h = h[1 : len(h)-1]
		}
		headers[i] = strings.TrimSpace(h)
	}
	return headers
}

// SplitLine splits a CSV line handling quoted fields.
// Inside quotes a doubled quote is a literal quote. unclosed is true when
// the line ends while still inside quotes.
func SplitLine(line string) (fields []string, unclosed bool) {
	fields = make([]string, 0, 10)
	var current strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == QuoteChar {
			if inQuotes && i+1 < len(runes) && runes[i+1] == QuoteChar {
				current.WriteRune(QuoteChar)
				i++
				continue
			}
			inQuotes = !inQuotes
			continue
		}

		if r == Delimiter && !inQuotes {
			fields = append(fields, current.String())
			current.Reset()
			continue
		}

		current.WriteRune(r)
	}

	fields = append(fields, current.String())
	return fields, inQuotes
}
