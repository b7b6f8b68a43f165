package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/app"
)

var (
	historyLimit  int
	historyOutput string
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [feed-id]",
	Short: "Show recorded validation runs",
	Example: `  feedcheck history --limit 10
  feedcheck history feed_k3j2h4g5f6d7s8a9 --output json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list")
	historyCmd.Flags().StringVar(&historyOutput, "output", "table", "Output format: table or json")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := app.Storage(cfg.Storage)
	if err != nil {
		return err
	}
	hist, err := app.History(ctx, cfg, store)
	if err != nil {
		return err
	}
	if hist == nil {
		return fmt.Errorf("history is disabled (history.backend=none)")
	}

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		record, err := hist.Get(ctx, args[0])
		if err != nil {
			return err
		}
		return outputJSON(out, record)
	}

	records, err := hist.List(ctx, historyLimit)
	if err != nil {
		return err
	}

	switch strings.ToLower(historyOutput) {
	case "json":
		return outputJSON(out, records)
	case "table":
		if len(records) == 0 {
			fmt.Fprintln(out, "No validation runs recorded")
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		fmt.Fprintf(w, "Feed ID\tFile\tSource\tValid\tProducts\tIssues\tCreated\n")
		fmt.Fprintf(w, "-------\t----\t------\t-----\t--------\t------\t-------\n")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%d/%d\t%d\t%s\n",
				r.FeedID, r.FileName, r.Source, r.IsValid, r.ValidProducts, r.TotalProducts,
				len(r.Issues), r.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", historyOutput)
	}
}
