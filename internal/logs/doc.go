// Package logs reads the reelcheck log file for the CLI "logs" command.
//
// Follow prints the last lines of the file and then polls for appended lines
// until the context is cancelled. Lines can be narrowed to a single reel by
// shortcode, which matches both console and JSON log formats.
package logs
