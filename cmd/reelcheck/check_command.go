package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reelcheck/internal/pipeline"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var languageFlag string
	var force bool

	cmd := &cobra.Command{
		Use:   "check <url>",
		Short: "Transcribe and fact-check a reel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipe, err := ctx.openPipeline(cmd.Context())
			if err != nil {
				return err
			}
			defer pipe.Close()

			outcome, err := pipe.Check(cmd.Context(), pipeline.Request{
				URL:      strings.TrimSpace(args[0]),
				Language: languageFlag,
				Force:    force,
			})
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, toRecordJSON(outcome.Record, outcome.Analysis, outcome.Cached, nil))
			}
			out := cmd.OutOrStdout()
			renderRecord(out, outcome.Record, outcome.Analysis, outcome.Cached, shouldColorize(out))
			if !outcome.Cached {
				renderChunkSummary(out, outcome.Transcript)
				fmt.Fprintf(out, "Elapsed:   %s\n", outcome.Elapsed.Round(100*time.Millisecond))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Spoken language (hindi, english, or a tag such as en-GB)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Re-check even when a stored result exists")
	return cmd
}
