// Package config loads, normalizes, and validates reelcheck configuration data.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment fallbacks such as RAPIDAPI_KEY and
// GROQ_API_KEY. The Config type centralizes every knob the pipeline needs:
// acquisition strategy order and throttling, transcription backend selection,
// the fact-check LLM, storage paths, and notifications.
//
// Configuration is validated once at load time. Invalid or incomplete
// settings surface as errors tagged with services.ErrConfiguration so callers
// can stop before any network or subprocess work begins.
package config
