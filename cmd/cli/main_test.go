package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shortFeed = "id,title,description,link,image_link\nP1,Short,Too short desc,http://x.com,http://x.com/i.jpg\n"

// the bracketed title is an error-severity content issue
const invalidFeed = "id,title,description,link,image_link\nP1,Bold [Red] Shoes,Too short desc,https://x.com/p1,https://x.com/p1.jpg\n"

// runCLI executes the root command with fresh flag state
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("FEEDCHECK_LOGGING_FORMAT", "json")

	parseOutput, parseRequired, parseSheet, parseNoRules = "table", nil, "", false
	validateMerchant, validateSave, validateConcurrency, validateOutput = "", false, 4, "table"
	fixOut, fixSheet = "", ""
	historyLimit, historyOutput = 20, "table"

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), err
}

func writeFeed(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseCommand(t *testing.T) {
	path := writeFeed(t, "feed.csv", shortFeed)

	out, err := runCLI(t, "parse", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Parse Results for")
	assert.Contains(t, out, "P1 - Short")
	assert.Contains(t, out, "Title is shorter than 30 characters")
}

func TestParseCommandNoRules(t *testing.T) {
	path := writeFeed(t, "feed.csv", shortFeed)

	out, err := runCLI(t, "parse", path, "--no-rules")
	require.NoError(t, err)
	assert.NotContains(t, out, "content issue")
}

func TestParseCommandStructuralFailure(t *testing.T) {
	path := writeFeed(t, "feed.csv", "id,title\n")

	out, err := runCLI(t, "parse", path, "--output", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "structural errors")
	assert.Contains(t, out, `"errors"`)
}

func TestParseCommandBadOutput(t *testing.T) {
	path := writeFeed(t, "feed.csv", shortFeed)

	_, err := runCLI(t, "parse", path, "--output", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestFixCommand(t *testing.T) {
	path := writeFeed(t, "feed.csv", "id,title,description\nP1,Bold [Red] Shoes,Plain text\n")
	out := filepath.Join(t.TempDir(), "fixed.csv")

	_, err := runCLI(t, "fix", path, "-o", out)
	require.NoError(t, err)

	fixed, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(fixed)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,title,description", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "Bold Red Shoes")
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		path    string
		write   func(io.Writer) error
		wantErr string
		want    string
	}{
		{
			name:  "writes and closes",
			path:  filepath.Join(dir, "ok.csv"),
			write: func(w io.Writer) error { _, err := io.WriteString(w, "id\nP1\n"); return err },
			want:  "id\nP1\n",
		},
		{
			name:    "write error returned",
			path:    filepath.Join(dir, "partial.csv"),
			write:   func(io.Writer) error { return errors.New("disk full") },
			wantErr: "disk full",
		},
		{
			name:    "missing directory",
			path:    filepath.Join(dir, "missing", "out.csv"),
			write:   func(io.Writer) error { return nil },
			wantErr: "failed to create output",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writeFile(tt.path, tt.write)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			got, err := os.ReadFile(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestValidateAndHistoryCommands(t *testing.T) {
	path := writeFeed(t, "feed.csv", invalidFeed)
	t.Setenv("STORAGE_PATH", t.TempDir())

	out, err := runCLI(t, "validate", path, "--save", "--output", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 feeds did not pass validation")
	assert.Contains(t, out, `"isValid": false`)

	out, err = runCLI(t, "history", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"fileName": "feed.csv"`)
	assert.Contains(t, out, `"source": "cli"`)
}

func TestValidateWithoutSaveRecordsNothing(t *testing.T) {
	path := writeFeed(t, "feed.csv", invalidFeed)
	t.Setenv("STORAGE_PATH", t.TempDir())

	_, err := runCLI(t, "validate", path)
	require.Error(t, err)

	out, err := runCLI(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No validation runs recorded")
}

func TestRulesCommand(t *testing.T) {
	out, err := runCLI(t, "rules")
	require.NoError(t, err)
	assert.Contains(t, out, "title")
	assert.Contains(t, out, "title: 30-150 characters")
	assert.Contains(t, out, "description: 90-5000 characters")
}
