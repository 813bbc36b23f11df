// Package tmdb wraps The Movie Database API: title search, trailer lookup,
// trending and popular listings, and regional watch providers. It also maps
// raw movie summaries into the Record shape returned to API callers.
//
// "Not found" outcomes (no search hit, no trailer, no regional providers) are
// reported as a nil value with a nil error. Transport, status, and decode
// failures wrap services.ErrMetadataProvider.
package tmdb
