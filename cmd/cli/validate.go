package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/app"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/pipeline"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/types"
)

var (
	validateMerchant    string
	validateSave        bool
	validateConcurrency int
	validateOutput      string
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Validate feeds against the merchant validator",
	Long: `Parse each feed, send its rows to the merchant validator and reconcile
the returned issues with the length policy. Several files are validated
concurrently. With --save each run is recorded in the history store.`,
	Example: `  feedcheck validate ./feeds/products.csv
  feedcheck validate ./feeds/*.csv --merchant remote --save
  feedcheck validate ./feeds/a.csv ./feeds/b.xlsx --output json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateMerchant, "merchant", "", "Merchant validator: local or remote (default from config)")
	validateCmd.Flags().BoolVar(&validateSave, "save", false, "Record runs in the history store")
	validateCmd.Flags().IntVar(&validateConcurrency, "concurrency", 4, "Number of feeds validated at once")
	validateCmd.Flags().StringVar(&validateOutput, "output", "table", "Output format: table or json")
}

type validateOutcome struct {
	File    string                   `json:"file"`
	FeedID  string                   `json:"feedId,omitempty"`
	Errors  []types.StructuralIssue  `json:"errors,omitempty"`
	Results *types.ValidationResults `json:"results,omitempty"`
	Error   string                   `json:"error,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	runner, _, err := app.Runner(ctx, cfg, app.Options{
		MerchantMode: validateMerchant,
		Source:       types.SourceCLI,
		NoHistory:    !validateSave,
	})
	if err != nil {
		return err
	}

	outcomes := make([]validateOutcome, len(args))
	var mu sync.Mutex
	var failed []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(validateConcurrency, 1))
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			outcome := validateFile(gctx, runner, path)
			outcomes[i] = outcome
			if outcome.Error != "" || outcome.Results == nil || !outcome.Results.IsValid {
				mu.Lock()
				failed = append(failed, path)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	switch strings.ToLower(validateOutput) {
	case "json":
		if err := outputJSON(cmd.OutOrStdout(), outcomes); err != nil {
			return err
		}
	case "table":
		outputValidateTable(cmd.OutOrStdout(), outcomes)
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", validateOutput)
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d feeds did not pass validation", len(failed), len(args))
	}
	return nil
}

func validateFile(ctx context.Context, runner *pipeline.Runner, path string) validateOutcome {
	outcome := validateOutcome{File: path}
	content, err := readFeed(path)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	run, err := runner.Run(ctx, pipeline.Input{
		FileName: filepath.Base(path),
		Content:  content,
	})
	if run != nil && run.Parsed != nil {
		outcome.FeedID = run.FeedID
		outcome.Errors = run.Parsed.Result.Errors
	}
	if run != nil && run.Validated != nil {
		outcome.Results = run.Validated.Results
	}
	switch {
	case errors.Is(err, pipeline.ErrParseFailed):
		logger.Warn().Str("file", path).Int("errors", len(outcome.Errors)).Msg("Feed has structural errors")
	case err != nil && outcome.Results != nil:
		// validated but the history record was not written
		logger.Warn().Err(err).Str("file", path).Msg("Validation run not recorded")
	case err != nil:
		outcome.Error = err.Error()
		logger.Error().Err(err).Str("file", path).Msg("Validation failed")
	default:
		logger.Info().Str("file", path).Str("feed_id", outcome.FeedID).Bool("valid", outcome.Results.IsValid).Msg("Validated feed")
	}
	return outcome
}

func readFeed(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return content, nil
}

func outputValidateTable(out io.Writer, outcomes []validateOutcome) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "File\tFeed ID\tValid\tProducts\tIssues\n")
	fmt.Fprintf(w, "----\t-------\t-----\t--------\t------\n")
	for _, o := range outcomes {
		switch {
		case o.Error != "":
			fmt.Fprintf(w, "%s\t%s\t%s\t-\t-\n", o.File, o.FeedID, "error")
		case o.Results == nil:
			fmt.Fprintf(w, "%s\t%s\t%s\t-\t%d\n", o.File, o.FeedID, "no", len(o.Errors))
		default:
			r := o.Results
			fmt.Fprintf(w, "%s\t%s\t%t\t%d/%d\t%d\n", o.File, o.FeedID, r.IsValid, r.ValidProducts, r.TotalProducts, len(r.Issues))
		}
	}
	w.Flush()

	for _, o := range outcomes {
		if o.Error != "" {
			fmt.Fprintf(out, "\n%s: %s\n", o.File, o.Error)
			continue
		}
		printIssues(out, filepath.Base(o.File)+" structural errors", o.Errors)
		if o.Results == nil || len(o.Results.Issues) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%s issues:\n", filepath.Base(o.File))
		fmt.Fprintln(out, strings.Repeat("-", 60))
		for _, issue := range o.Results.Issues {
			fmt.Fprintf(out, "row %d %s %s [%s] %s\n", issue.RowIndex, issue.OfferID, issue.Field, issue.Type, issue.Message)
		}
	}
}
