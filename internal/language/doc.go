// Package language resolves user language choices into the codes each
// transcription backend expects.
//
// A Spec carries the ISO 639-1 code WhisperX takes, the BCP 47 tag with
// region the cloud recognizer takes, and a display name for output. Hindi is
// the fallback for anything unrecognized.
package language
