// Package shortcode derives the stable content identifier from a reel or post URL.
package shortcode

import (
	"fmt"
	"regexp"
	"strings"

	"reelcheck/internal/services"
)

// pathRE matches /reels/<id>/, /reel/<id>/ and /p/<id>/. The trailing slash is required.
var pathRE = regexp.MustCompile(`/(?:reels|reel|p)/([A-Za-z0-9_-]+)/`)

// ContentRef pairs the source URL with its extracted identifier.
type ContentRef struct {
	URL string
	ID  string
}

// InvalidURLError reports a URL that does not contain a recognizable identifier.
type InvalidURLError struct {
	URL string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid reel URL %q: expected a /reel/<id>/, /reels/<id>/ or /p/<id>/ path", e.URL)
}

// Unwrap tags the error as a validation failure.
func (e *InvalidURLError) Unwrap() error { return services.ErrValidation }

// Extract returns the identifier embedded in rawURL. Query strings and
// fragments are ignored because the match is anchored on the path segment.
func Extract(rawURL string) (ContentRef, error) {
	trimmed := strings.TrimSpace(rawURL)
	m := pathRE.FindStringSubmatch(trimmed)
	if len(m) < 2 {
		return ContentRef{}, &InvalidURLError{URL: rawURL}
	}
	return ContentRef{URL: trimmed, ID: m[1]}, nil
}

// Valid reports whether s is usable as an identifier on its own, as accepted
// by commands that take a stored shortcode instead of a URL.
func Valid(s string) bool {
	return idRE.MatchString(s)
}

var idRE = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
