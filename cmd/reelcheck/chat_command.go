package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newChatCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <shortcode|url> <question...>",
		Short: "Ask a follow-up question about a stored fact-check",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveShortcode(args[0])
			if err != nil {
				return err
			}
			question := strings.TrimSpace(strings.Join(args[1:], " "))

			pipe, err := ctx.openPipeline(cmd.Context())
			if err != nil {
				return err
			}
			defer pipe.Close()

			answer, err := pipe.Ask(cmd.Context(), id, question)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{
					"shortcode": id,
					"question":  question,
					"answer":    answer,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
}
