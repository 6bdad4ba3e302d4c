// Package audio extracts normalized speech audio from downloaded video with
// ffmpeg.
//
// Output is always 16 kHz mono signed 16-bit PCM WAV, the format both
// transcription backends consume. ExtractAudio converts the whole first audio
// track; ExtractSegment cuts a time window for chunked recognition.
// Failures carry a bounded excerpt of ffmpeg's output as an ExtractionError,
// while a missing ffmpeg executable surfaces as deps.MissingBinaryError.
package audio
