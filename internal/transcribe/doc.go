// Package transcribe turns extracted speech audio into text.
//
// Two backends implement Backend:
//
//   - LocalModel runs WhisperX once over the whole file.
//   - ChunkedRecognizer cuts the audio into fixed windows, skips windows
//     whose energy never rises above an absolute floor, and sends the rest
//     to the cloud recognizer one by one. A window the recognizer answers
//     with no text is recorded as silent.
//
// Per-chunk outcomes are recorded as ChunkResult values and never returned
// as errors; the transcript is the in-order join of the non-empty chunk
// texts. An empty transcript is not an error at this layer.
package transcribe
