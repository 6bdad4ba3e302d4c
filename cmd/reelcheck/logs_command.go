package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"reelcheck/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool

	cmd := &cobra.Command{
		Use:   "logs [shortcode|url]",
		Short: "Display the reelcheck log, optionally for one reel",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts := logs.Options{Lines: lines, Follow: follow}
			if len(args) == 1 {
				id, err := resolveShortcode(args[0])
				if err != nil {
					return err
				}
				opts.Shortcode = id
			}
			out := cmd.OutOrStdout()
			printed := false
			err = logs.Follow(cmd.Context(), filepath.Join(cfg.Paths.LogDir, "reelcheck.log"), opts, func(line string) error {
				printed = true
				_, err := fmt.Fprintln(out, line)
				return err
			})
			if err != nil {
				return err
			}
			if !printed && !follow {
				fmt.Fprintln(out, "No log entries available")
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines")
	return cmd
}
