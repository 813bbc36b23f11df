// Package main hosts the moviesuggest entrypoint and command graph.
//
// `moviesuggest serve` runs the HTTP API. The suggest, trending, popular, and
// providers commands run the same pipeline once and print a table (or JSON
// with --json), which is handy for checking keys and prompts without a
// browser. Configuration resolution and logger setup live here so subcommands
// only describe their flags and output.
package main
