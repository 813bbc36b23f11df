// Package llm provides a Gemini generateContent client used to turn a user's
// free-text movie preferences into a list of candidate titles.
//
// # Configuration
//
// Requires api_key and model; base_url, temperature, max_output_tokens, and
// timeout_seconds are optional. A zero timeout keeps the transport default.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Generate: send one prompt, receive the first candidate's text.
//
// # Failure Behaviour
//
// Each Generate call makes exactly one attempt. Non-2xx responses keep the
// status code and a summarized body snippet. WithCircuitBreaker adds a
// consecutive-failure breaker; while it is open Generate returns
// ErrCircuitOpen without contacting the provider.
package llm
