// Package factcheck asks an LLM to assess the health claims in a transcript
// and to answer follow-up questions about it.
//
// Analyze never fails because of the model: transport errors and unparseable
// replies produce a fallback Analysis (rating 50, a single ERROR claim) with
// Fallback set, so callers can still store and display a result.
package factcheck
