package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"reelcheck/internal/workarea"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var maxAge time.Duration
	var all bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove work areas left behind by interrupted runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			age := maxAge
			if age == 0 {
				age = time.Duration(cfg.Storage.StaleWorkAreaDays) * 24 * time.Hour
			}
			if all {
				age = 0
			}

			result := workarea.CleanStale(cmd.Context(), cfg.Paths.WorkDir, age, logger)
			out := cmd.OutOrStdout()
			if ctx.jsonOutput() {
				errs := make([]string, 0, len(result.Errors))
				for _, e := range result.Errors {
					errs = append(errs, fmt.Sprintf("%s: %v", e.Path, e.Error))
				}
				return writeJSON(cmd, map[string]any{"removed": result.Removed, "errors": errs})
			}
			for _, path := range result.Removed {
				fmt.Fprintf(out, "Removed %s\n", path)
			}
			for _, e := range result.Errors {
				fmt.Fprintf(out, "Failed %s: %v\n", e.Path, e.Error)
			}
			fmt.Fprintf(out, "Removed %d stale work area(s)\n", len(result.Removed))
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d work area(s) could not be removed", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&maxAge, "older-than", 0, "Only remove work areas older than this (default storage.stale_work_area_days)")
	cmd.Flags().BoolVar(&all, "all", false, "Remove every work area regardless of age")
	return cmd
}
