// Package speech is a small client for the Google Cloud Speech-to-Text REST
// API (v1 speech:recognize).
//
// Audio is sent inline as base64 LINEAR16 PCM. A response without results
// means the recognizer heard nothing it could transcribe and yields an empty
// string rather than an error.
package speech
