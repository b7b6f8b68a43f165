package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/parsers/csv"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/pipeline"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/validators"
)

var (
	fixOut   string
	fixSheet string
)

// fixCmd represents the fix command
var fixCmd = &cobra.Command{
	Use:   "fix <file>",
	Short: "Apply suggested content fixes and write a corrected feed",
	Long: `Parse a feed, apply every suggested fix from the content rules to each
row and write the result as CSV. Values without a suggested fix are kept.`,
	Example: `  feedcheck fix ./feeds/products.csv -o ./feeds/products.fixed.csv
  feedcheck fix ./feeds/products.xlsx -o - `,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	rootCmd.AddCommand(fixCmd)

	fixCmd.Flags().StringVarP(&fixOut, "output", "o", "", "Output file, or - for stdout")
	fixCmd.Flags().StringVar(&fixSheet, "sheet", "", "Workbook sheet to read (default: first sheet)")
	fixCmd.MarkFlagRequired("output")
}

func runFix(cmd *cobra.Command, args []string) error {
	filePath := args[0]
	content, err := readFeed(filePath)
	if err != nil {
		return err
	}

	runnerCfg := pipeline.DefaultConfig()
	runnerCfg.RequiredHeaders = cfg.Validation.RequiredHeaders
	runnerCfg.Sheet = fixSheet
	registry := validators.NewRegistry()
	runner := pipeline.NewRunner(runnerCfg, registry, nil)

	parsed, err := runner.Parse(cmd.Context(), pipeline.Input{
		FileName: filepath.Base(filePath),
		Content:  content,
	})
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	if parsed.Result.Failed() {
		printIssues(cmd.ErrOrStderr(), "Errors", parsed.Result.Errors)
		return fmt.Errorf("%s has structural errors", filePath)
	}

	fixed := make([]types.Row, len(parsed.Result.Rows))
	total := 0
	for i, row := range parsed.Result.Rows {
		var n int
		fixed[i], n = registry.FixRow(row)
		total += n
	}

	write := func(w io.Writer) error {
		return csv.WriteRows(w, parsed.Result.Headers, fixed)
	}
	if fixOut == "-" {
		err = write(cmd.OutOrStdout())
	} else {
		err = writeFile(fixOut, write)
	}
	if err != nil {
		return fmt.Errorf("failed to write fixed feed: %w", err)
	}

	logger.Info().
		Str("file", filePath).
		Int("rows", len(fixed)).
		Int("changed", total).
		Msg("Applied fixes")
	return nil
}

// writeFile creates path and hands it to write. A failed close is reported
// since buffered rows may not have reached disk.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	return nil
}
