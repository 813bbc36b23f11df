// Package server exposes the suggestion pipeline over HTTP.
//
// Routes:
//
//	POST /suggest                        free-text preferences to movie records
//	GET  /suggest/tmdb/trending          trending movies (?period=day|week)
//	GET  /suggest/tmdb/popular           popular movies
//	GET  /suggest/tmdb/providers/{id}    regional watch offers (?country=)
//	GET  /healthz                        liveness
//	GET  /metrics                        Prometheus exposition
//
// Every route accepts ?language= (or a body field on POST) and resolves it to
// the English or Portuguese locale. Errors are returned as {"error": message}.
package server
