package main

import (
	"fmt"
	"log/slog"
	"time"

	"moviesuggest/internal/config"
	"moviesuggest/internal/providers"
	"moviesuggest/internal/recommend"
	"moviesuggest/internal/services/llm"
	"moviesuggest/internal/suggest"
	"moviesuggest/internal/tmdb"
)

// buildService wires the language model, TMDB client, and enrichment pipeline
// from cfg.
func buildService(cfg *config.Config, logger *slog.Logger) (*suggest.Service, error) {
	generator := llm.NewClient(llm.Config{
		APIKey:          cfg.Gemini.APIKey,
		BaseURL:         cfg.Gemini.BaseURL,
		Model:           cfg.Gemini.Model,
		Temperature:     cfg.Gemini.Temperature,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
		Timeout:         cfg.GeminiTimeout(),
	},
		llm.WithLogger(logger),
		llm.WithCircuitBreaker(cfg.Gemini.BreakerFailures, time.Duration(cfg.Gemini.BreakerCooldownSeconds)*time.Second),
	)

	recommender, err := recommend.NewClient(generator, recommend.Prompts{
		EN: cfg.Prompts.EN,
		PT: cfg.Prompts.PT,
	}, recommend.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("recommender: %w", err)
	}

	metadata, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL,
		tmdb.WithImageBaseURL(cfg.TMDB.ImageBaseURL),
		tmdb.WithRequestsPerSecond(cfg.TMDB.RequestsPerSecond),
		tmdb.WithTimeout(cfg.TMDBTimeout()),
	)
	if err != nil {
		return nil, fmt.Errorf("tmdb client: %w", err)
	}

	return suggest.NewService(metadata, recommender,
		suggest.WithLogger(logger),
		suggest.WithMaxConcurrency(cfg.Suggest.MaxConcurrency),
		suggest.WithProviderFormatter(providers.Formatter{ImageBaseURL: metadata.ImageBaseURL()}),
	), nil
}
