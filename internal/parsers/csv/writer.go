package csv

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
)

// WriteRows serializes rows in the feed dialect. Fields containing a
// delimiter, quote or line break are quoted with doubled inner quotes.
func WriteRows(w io.Writer, headers []string, rows []types.Row) error {
	bw := bufio.NewWriter(w)

	if err := writeLine(bw, headers); err != nil {
		return err
	}

	values := make([]string, len(headers))
	for _, row := range rows {
		for i, h := range headers {
			values[i] = row.Get(h)
		}
		if err := writeLine(bw, values); err != nil {
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush csv output: %w", err)
	}
	return nil
}

// FormatRecord returns a single CSV line (without line break) for the given values
func FormatRecord(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = quoteField(v)
	}
	return strings.Join(parts, string(Delimiter))
}

func writeLine(w *bufio.Writer, values []string) error {
	if _, err := w.WriteString(FormatRecord(values)); err != nil {
		return fmt.Errorf("failed to write csv line: %w", err)
	}
	if _, err := w.WriteString("\n"); err != nil {
		return fmt.Errorf("failed to write csv line: %w", err)
	}
	return nil
}

func quoteField(v string) string {
	if !strings.ContainsAny(v, ",\"\r\n") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
