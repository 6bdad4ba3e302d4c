package factcheck

import (
	"encoding/json"
	"strings"
)

// Verdicts the model is asked to use.
const (
	VerdictTrue          = "TRUE"
	VerdictFalse         = "FALSE"
	VerdictPartiallyTrue = "PARTIALLY TRUE"
	VerdictError         = "ERROR"
)

// FallbackRating is reported when no structured analysis is available.
const FallbackRating = 50.0

// Claim is one assessed statement from the video.
type Claim struct {
	Claim       string   `json:"claim"`
	Verdict     string   `json:"verdict"`
	Explanation string   `json:"explanation"`
	Sources     []string `json:"sources"`
}

// Analysis is the fact-check result for a transcript.
type Analysis struct {
	Summary   string   `json:"summary"`
	Claims    []Claim  `json:"claims"`
	Rating    float64  `json:"rating"`
	KeyIssues []string `json:"key_issues"`
	// Fallback is set when the model's reply could not be used.
	Fallback bool `json:"fallback,omitempty"`
}

// JSON returns the analysis encoded for storage.
func (a Analysis) JSON() (string, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ParseAnalysis decodes a stored analysis.
func ParseAnalysis(data string) (Analysis, error) {
	var a Analysis
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return Analysis{}, err
	}
	return a, nil
}

func (a *Analysis) normalize() {
	a.Summary = strings.TrimSpace(a.Summary)
	a.Rating = min(max(a.Rating, 0), 100)
	claims := a.Claims[:0]
	for _, c := range a.Claims {
		c.Claim = strings.TrimSpace(c.Claim)
		if c.Claim == "" {
			continue
		}
		c.Verdict = strings.ToUpper(strings.TrimSpace(c.Verdict))
		c.Explanation = strings.TrimSpace(c.Explanation)
		if c.Sources == nil {
			c.Sources = []string{}
		}
		claims = append(claims, c)
	}
	a.Claims = claims
	if a.KeyIssues == nil {
		a.KeyIssues = []string{}
	}
}

func fallbackAnalysis(transcript string, cause error) Analysis {
	excerpt := []rune(transcript)
	if len(excerpt) > 200 {
		excerpt = excerpt[:200]
	}
	return Analysis{
		Summary: "Analysis completed. Transcript: " + string(excerpt) + "...",
		Claims: []Claim{{
			Claim:       "Unable to parse structured analysis",
			Verdict:     VerdictError,
			Explanation: cause.Error(),
			Sources:     []string{},
		}},
		Rating:    FallbackRating,
		KeyIssues: []string{"Error in processing. Please try again."},
		Fallback:  true,
	}
}
