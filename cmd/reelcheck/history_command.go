package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelcheck/internal/factcheck"
	"reelcheck/internal/store"
	"reelcheck/internal/textutil"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent fact-checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(st *store.Store) error {
				records, err := st.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					items := make([]recordJSON, 0, len(records))
					for _, rec := range records {
						analysis, _ := factcheck.ParseAnalysis(rec.AnalysisJSON)
						items = append(items, toRecordJSON(rec, analysis, true, nil))
					}
					return writeJSON(cmd, items)
				}

				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "No fact-checks stored yet")
					return nil
				}
				colorize := shouldColorize(out)
				rows := make([][]string, 0, len(records))
				for _, rec := range records {
					summary := ""
					if analysis, err := factcheck.ParseAnalysis(rec.AnalysisJSON); err == nil {
						summary = analysis.Summary
					}
					rows = append(rows, []string{
						rec.ID,
						colorizeKind(fmt.Sprintf("%.0f%%", rec.Rating), ratingKind(rec.Rating), colorize),
						rec.Language,
						rec.UpdatedAt.Local().Format("2006-01-02 15:04"),
						textutil.Truncate(summary, 50),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Shortcode", "Rating", "Lang", "Checked", "Summary"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of records to list")
	return cmd
}
