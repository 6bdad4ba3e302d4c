// Package textutil provides small text helpers shared by the pipeline:
// bounded diagnostics from tool output and whitespace normalization for
// transcripts.
package textutil
