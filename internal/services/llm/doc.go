// Package llm provides an OpenAI-compatible chat completion client.
//
// Defaults target Groq's llama-3.3-70b-versatile. The client accepts several
// API keys: an authentication failure or rate limit on the active key moves
// to the next one before any backoff is spent.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Complete: send an arbitrary conversation with sampling options.
// Client.CompleteJSON: send system/user prompts, receive a JSON response.
// Client.HealthCheck: verify API key and model availability.
// DecodeLLMJSON: decode model output that may be fenced or wrapped in prose.
//
// # Retry Behaviour
//
// Requests are retried on HTTP 408/429/5xx and network timeouts with
// exponential backoff (base 1s, max 10s, up to 5 attempts by default).
// Context cancellation aborts retries immediately.
package llm
