package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"reelcheck/internal/factcheck"
	"reelcheck/internal/language"
	"reelcheck/internal/store"
	"reelcheck/internal/transcribe"
)

func renderRecord(out io.Writer, rec store.Record, analysis factcheck.Analysis, cached, colorize bool) {
	for _, line := range renderSectionHeader("Reel "+rec.ID, colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "URL:       %s\n", rec.URL)
	fmt.Fprintf(out, "Language:  %s\n", language.DisplayName(rec.Language))
	if rec.Strategy != "" || rec.Backend != "" {
		fmt.Fprintf(out, "Pipeline:  %s -> %s\n", valueOr(rec.Strategy, "?"), valueOr(rec.Backend, "?"))
	}
	if !rec.UpdatedAt.IsZero() {
		fmt.Fprintf(out, "Checked:   %s\n", rec.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	if cached {
		fmt.Fprintln(out, "Source:    stored result (use --force to re-check)")
	}

	rating := fmt.Sprintf("%.0f%%", analysis.Rating)
	if analysis.Fallback {
		rating += " (analysis unavailable)"
	}
	fmt.Fprintf(out, "Accuracy:  %s\n\n", colorizeKind(rating, ratingKind(analysis.Rating), colorize))

	if analysis.Summary != "" {
		fmt.Fprintln(out, "Summary:")
		fmt.Fprintln(out, "  "+analysis.Summary)
		fmt.Fprintln(out)
	}

	if len(analysis.Claims) > 0 {
		rows := make([][]string, 0, len(analysis.Claims))
		for i, claim := range analysis.Claims {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				claim.Claim,
				colorizeKind(claim.Verdict, verdictKind(claim.Verdict), colorize),
				claim.Explanation,
			})
		}
		fmt.Fprintln(out, renderTable([]string{"#", "Claim", "Verdict", "Explanation"}, rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft}))
		fmt.Fprintln(out)
	}

	if len(analysis.KeyIssues) > 0 {
		fmt.Fprintln(out, "Key issues:")
		for _, issue := range analysis.KeyIssues {
			fmt.Fprintf(out, "  - %s\n", issue)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "Transcript:")
	fmt.Fprintln(out, "  "+valueOr(rec.Transcript, "(empty)"))
}

func renderChat(out io.Writer, turns []store.ChatTurn) {
	if len(turns) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Conversation:")
	for _, turn := range turns {
		fmt.Fprintf(out, "  Q: %s\n", turn.UserMessage)
		fmt.Fprintf(out, "  A: %s\n", turn.AssistantResponse)
	}
}

func renderChunkSummary(out io.Writer, transcript transcribe.Transcript) {
	if len(transcript.Chunks) == 0 {
		return
	}
	counts := transcript.Counts()
	fmt.Fprintf(out, "Chunks:    %d transcribed, %d silent, %d failed\n",
		counts[transcribe.StatusOK], counts[transcribe.StatusSilent], counts[transcribe.StatusBackendError])
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
