// Package acquire downloads a reel's video file into a work area.
//
// Acquisition is a chain of interchangeable strategies tried in the order the
// configuration lists them: a yt-dlp subprocess, a native HTTP session that
// reads the reel page, and a third-party metadata API. Each strategy call is
// bounded by its own timeout. The first strategy that produces a non-empty
// video wins; when every strategy fails the Orchestrator returns an
// ExhaustedError carrying every strategy's diagnostic, so callers can tell a
// rate limit apart from a private or deleted reel.
//
// Strategies report ordinary failures as a Result with OK=false and a Reason.
// A returned error is reserved for conditions that make further attempts
// pointless, such as a missing executable or a cancelled request.
package acquire
