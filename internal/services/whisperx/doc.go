// Package whisperx runs the WhisperX speech model locally through uvx.
//
// Model weights are cached under a configured directory so repeated runs do
// not download them again. Warm verifies the uvx runner once per process;
// TranscribeFile performs a single pass over a WAV file with an explicit
// language and returns the concatenated segment text.
package whisperx
