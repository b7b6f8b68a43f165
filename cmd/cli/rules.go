package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Digitalbradley/adbrain-legal-sub000/internal/app"
	"github.com/Digitalbradley/adbrain-legal-sub000/internal/validators"
)

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List content rules and the length policy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := validators.NewRegistry()
		out := cmd.OutOrStdout()

		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		fmt.Fprintf(w, "Field\tRules\n")
		fmt.Fprintf(w, "-----\t-----\n")
		for _, field := range registry.Fields() {
			fmt.Fprintf(w, "%s\t%d\n", field, registry.RuleCount(field))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		policy := app.Policy(cfg.Validation)
		fmt.Fprintln(out, "\nLength policy:")
		for _, field := range policy.Fields() {
			window, _ := policy.Window(field)
			fmt.Fprintf(out, "  %s: %d-%d characters\n", field, window.Min, window.Max)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
