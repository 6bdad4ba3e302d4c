// Package store persists fact-check records and follow-up chat turns in
// SQLite.
//
// Records are keyed by reel shortcode; saving a reel again replaces the
// earlier record and keeps its chat history. The schema is created on first
// open and versioned; a database with a different version is rejected with
// ErrSchemaMismatch rather than migrated.
package store
