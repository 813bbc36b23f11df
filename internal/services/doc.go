// Package services defines shared utilities consumed by the suggestion
// pipeline and its upstream integrations.
//
// Key responsibilities:
//   - Context helpers that stamp request correlation identifiers and the
//     resolved locale for logging.
//   - Structured error markers plus the Wrap helper so the HTTP and CLI layers
//     can classify failures (configuration, recommendation, metadata, empty
//     result) with errors.Is instead of string matching.
//
// Upstream clients live in subpackages (see services/llm).
package services
