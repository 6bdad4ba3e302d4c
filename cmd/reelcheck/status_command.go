package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reelcheck/internal/preflight"
	"reelcheck/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check tools, credentials, and storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			var lines []string
			lines = append(lines, renderSectionHeader("Configuration", colorize)...)
			lines = append(lines,
				renderStatusLine("Config file", statusInfo, valueOr(ctx.configPath, "defaults"), colorize),
				renderStatusLine("Strategies", statusInfo, strings.Join(cfg.Acquisition.Strategies, " -> "), colorize),
				renderStatusLine("Backend", statusInfo, cfg.Transcription.Backend, colorize),
				renderStatusLine("Language", statusInfo, cfg.Transcription.Language, colorize),
			)
			if strings.TrimSpace(cfg.Notifications.NtfyTopic) != "" {
				lines = append(lines, renderStatusLine("Notifications", statusInfo, "ntfy", colorize))
			} else {
				lines = append(lines, renderStatusLine("Notifications", statusInfo, "disabled", colorize))
			}

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
			for _, dep := range preflight.CheckSystemDeps(cfg) {
				kind := statusOK
				detail := dep.Command
				if !dep.Available {
					kind = statusError
					if dep.Optional {
						kind = statusWarn
					}
					detail = fmt.Sprintf("%s (%s)", dep.Detail, dep.Description)
				}
				lines = append(lines, renderStatusLine(dep.Name, kind, detail, colorize))
			}

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Checks", colorize)...)
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Storage", colorize)...)
			err = ctx.withStore(cmd.Context(), func(st *store.Store) error {
				count, err := st.Count(cmd.Context())
				if err != nil {
					return err
				}
				lines = append(lines, renderStatusLine("Database", statusOK, fmt.Sprintf("%s (%d records)", st.Path(), count), colorize))
				return nil
			})
			if err != nil {
				lines = append(lines, renderStatusLine("Database", statusError, err.Error(), colorize))
			}

			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}
