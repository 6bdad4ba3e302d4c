package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reelcheck/internal/factcheck"
	"reelcheck/internal/services"
	"reelcheck/internal/shortcode"
	"reelcheck/internal/store"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <shortcode|url>",
		Short: "Display a stored fact-check and its conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveShortcode(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(cmd.Context(), func(st *store.Store) error {
				rec, analysis, err := loadRecord(cmd.Context(), st, id)
				if err != nil {
					return err
				}
				chat, err := st.ChatHistory(cmd.Context(), id)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, toRecordJSON(*rec, analysis, true, chat))
				}
				out := cmd.OutOrStdout()
				renderRecord(out, *rec, analysis, false, shouldColorize(out))
				renderChat(out, chat)
				return nil
			})
		},
	}
}

// resolveShortcode accepts either a bare shortcode or a reel URL.
func resolveShortcode(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if shortcode.Valid(arg) {
		return arg, nil
	}
	ref, err := shortcode.Extract(arg)
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

func loadRecord(ctx context.Context, st *store.Store, id string) (*store.Record, factcheck.Analysis, error) {
	rec, err := st.Get(ctx, id)
	if err != nil {
		return nil, factcheck.Analysis{}, err
	}
	if rec == nil {
		return nil, factcheck.Analysis{}, services.Wrap(services.ErrNotFound, "show", "lookup",
			fmt.Sprintf("no fact-check stored for %s (run `reelcheck check <url>` first)", id), nil)
	}
	analysis, err := factcheck.ParseAnalysis(rec.AnalysisJSON)
	if err != nil {
		return nil, factcheck.Analysis{}, fmt.Errorf("decode stored analysis: %w", err)
	}
	return rec, analysis, nil
}
