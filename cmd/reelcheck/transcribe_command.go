package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reelcheck/internal/agent"
	"reelcheck/internal/language"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var languageFlag string

	cmd := &cobra.Command{
		Use:   "transcribe <url>",
		Short: "Download a reel and print its transcript without fact-checking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			reelAgent, err := agent.FromConfig(cfg, logger)
			if err != nil {
				return err
			}

			choice := languageFlag
			if strings.TrimSpace(choice) == "" {
				choice = cfg.Transcription.Language
			}
			result, err := reelAgent.Run(cmd.Context(), strings.TrimSpace(args[0]), language.Resolve(choice))
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, transcriptJSON{
					Shortcode: result.ContentID,
					Strategy:  result.Strategy,
					Backend:   result.Transcript.Backend,
					Language:  result.Transcript.Language.Code,
					Text:      result.Transcript.Text,
					Chunks:    result.Transcript.Chunks,
					ElapsedMS: result.Elapsed.Milliseconds(),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Reel:      %s\n", result.ContentID)
			fmt.Fprintf(out, "Pipeline:  %s -> %s\n", result.Strategy, result.Transcript.Backend)
			fmt.Fprintf(out, "Language:  %s\n", result.Transcript.Language.Display)
			renderChunkSummary(out, result.Transcript)
			fmt.Fprintf(out, "Elapsed:   %s\n\n", result.Elapsed.Round(100*time.Millisecond))
			fmt.Fprintln(out, result.Transcript.Text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Spoken language (hindi, english, or a tag such as en-GB)")
	return cmd
}
