// Package logging assembles structured slog loggers and formatting helpers used
// across moviesuggest.
//
// It owns the configurable console/JSON handlers, the optional rotating file
// sink, and context-aware helpers so request handlers and pipeline code tag
// log lines with correlation IDs and locales automatically. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
