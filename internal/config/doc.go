// Package config loads, normalizes, and validates moviesuggest configuration.
//
// It supplies repository defaults, reads an optional TOML file, loads a .env
// file from the working directory, and honours the environment variables the
// service has always used (TMDB_API_KEY, TMDB_API_URL, GEMINI_API_KEY,
// PROMPT_EN, PROMPT_PT, PORT). Validation failures wrap
// services.ErrConfiguration; a process holding an invalid Config must not
// serve requests.
package config
