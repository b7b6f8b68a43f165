package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/pipeline"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/validators"
)

var (
	parseOutput   string
	parseRequired []string
	parseSheet    string
	parseNoRules  bool
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a local feed and report structural and content issues",
	Long: `Parse a local product feed (CSV or XLSX). The output lists structural
errors, warnings and content rule violations per row. Rows are only shown when
the feed has no structural errors.`,
	Example: `  feedcheck parse ./feeds/products.csv
  feedcheck parse ./feeds/products.xlsx --sheet Products --output json
  feedcheck parse ./feeds/products.csv --required id,title,price`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&parseOutput, "output", "table", "Output format: table or json")
	parseCmd.Flags().StringSliceVar(&parseRequired, "required", nil, "Required headers (default from config)")
	parseCmd.Flags().StringVar(&parseSheet, "sheet", "", "Workbook sheet to read (default: first sheet)")
	parseCmd.Flags().BoolVar(&parseNoRules, "no-rules", false, "Skip content rule checks")
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	logger.Debug().Str("file", filePath).Int("bytes", len(content)).Msg("Read feed")

	runnerCfg := pipeline.DefaultConfig()
	runnerCfg.RequiredHeaders = cfg.Validation.RequiredHeaders
	if len(parseRequired) > 0 {
		runnerCfg.RequiredHeaders = parseRequired
	}
	runnerCfg.Sheet = parseSheet

	registry := validators.NewRegistry()
	if parseNoRules {
		registry = validators.NewEmptyRegistry()
	}
	runner := pipeline.NewRunner(runnerCfg, registry, nil)

	parsed, err := runner.Parse(cmd.Context(), pipeline.Input{
		FileName: filepath.Base(filePath),
		Content:  content,
	})
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	switch strings.ToLower(parseOutput) {
	case "json":
		if err := outputJSON(cmd.OutOrStdout(), parsed.Result); err != nil {
			return err
		}
	case "table":
		outputParseTable(cmd.OutOrStdout(), filePath, parsed)
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", parseOutput)
	}

	if parsed.Result.Failed() {
		return fmt.Errorf("%s has structural errors", filePath)
	}
	return nil
}

func outputParseTable(out io.Writer, filePath string, parsed *pipeline.Parsed) {
	result := parsed.Result
	fmt.Fprintf(out, "\nParse Results for %s\n", filePath)
	fmt.Fprintln(out, strings.Repeat("-", 60))

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Metric\tValue\n")
	fmt.Fprintf(w, "------\t-----\n")
	fmt.Fprintf(w, "Encoding\t%s\n", parsed.Encoding)
	fmt.Fprintf(w, "Headers\t%d\n", len(result.Headers))
	fmt.Fprintf(w, "Rows\t%d\n", len(result.Rows))
	fmt.Fprintf(w, "Errors\t%d\n", len(result.Errors))
	fmt.Fprintf(w, "Warnings\t%d\n", len(result.Warnings))
	w.Flush()

	printIssues(out, "Errors", result.Errors)
	printIssues(out, "Warnings", result.Warnings)

	if result.Failed() || len(result.Rows) == 0 {
		return
	}
	fmt.Fprintf(out, "\nSample Rows (first %d):\n", min(len(result.Rows), 5))
	fmt.Fprintln(out, strings.Repeat("-", 60))
	for i, row := range result.Rows[:min(len(result.Rows), 5)] {
		fmt.Fprintf(out, "%d. %s - %s\n", i+1, row.OfferID(), row.Get("title"))
	}
}

func printIssues(out io.Writer, title string, issues []types.StructuralIssue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s:\n", title)
	fmt.Fprintln(out, strings.Repeat("-", 60))
	for i, issue := range issues {
		if i >= 20 {
			fmt.Fprintf(out, "... and %d more\n", len(issues)-20)
			break
		}
		fmt.Fprintf(out, "[%s] %s\n", issue.Type, issue.Message)
		for _, ci := range issue.ContentIssues {
			fmt.Fprintf(out, "    %s (%s): %s\n", ci.Field, ci.Severity, ci.Message)
		}
	}
}

func outputJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
