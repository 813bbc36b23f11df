package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"moviesuggest/internal/config"
	"moviesuggest/internal/locale"
	"moviesuggest/internal/logging"
	"moviesuggest/internal/services"
)

// Generator sends one prompt to a generative-text provider and returns its
// freeform reply.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Prompts holds the per-locale templates. Each must contain
// config.PreferencesPlaceholder exactly once.
type Prompts struct {
	EN string
	PT string
}

// For returns the template for loc.
func (p Prompts) For(loc locale.Locale) string {
	if loc == locale.Portuguese {
		return p.PT
	}
	return p.EN
}

// Client turns user preferences into candidate movie titles.
type Client struct {
	generator Generator
	prompts   Prompts
	logger    *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient validates the prompt templates and returns a Client.
func NewClient(generator Generator, prompts Prompts, opts ...Option) (*Client, error) {
	if generator == nil {
		return nil, services.Wrap(services.ErrConfiguration, "recommend", "new", "generator required", nil)
	}
	for code, template := range map[string]string{"en": prompts.EN, "pt": prompts.PT} {
		if strings.Count(template, config.PreferencesPlaceholder) != 1 {
			return nil, services.Wrap(services.ErrConfiguration, "recommend", "new",
				fmt.Sprintf("%s prompt must contain %s exactly once", code, config.PreferencesPlaceholder), nil)
		}
	}
	client := &Client{generator: generator, prompts: prompts, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.NewComponentLogger(client.logger, "recommend")
	return client, nil
}

// Recommend asks the provider for titles matching preferences. Provider
// failures and replies with no usable title both wrap
// services.ErrRecommendationUnavailable. There is no retry.
func (c *Client) Recommend(ctx context.Context, preferences string, loc locale.Locale) ([]string, error) {
	preferences = strings.TrimSpace(preferences)
	if preferences == "" {
		return nil, services.Wrap(services.ErrValidation, "recommend", "", "preferences must not be empty", nil)
	}
	prompt, err := BuildPrompt(c.prompts.For(loc), preferences)
	if err != nil {
		return nil, services.Wrap(services.ErrRecommendationUnavailable, "recommend", "prompt", "", err)
	}

	logger := logging.WithContext(ctx, c.logger)
	start := time.Now()
	text, err := c.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, services.Wrap(services.ErrRecommendationUnavailable, "recommend", "generate", "", err)
	}

	candidates := ParseCandidates(text)
	if len(candidates) == 0 {
		return nil, services.Wrap(services.ErrRecommendationUnavailable, "recommend", "parse", "model reply contained no titles", nil)
	}
	logger.Debug("recommendation received",
		logging.String(logging.FieldLocale, loc.Code()),
		logging.Int("candidate_count", len(candidates)),
		logging.Duration("duration", time.Since(start)),
	)
	return candidates, nil
}

// BuildPrompt substitutes the JSON form of {"query": preferences} for the
// placeholder in template.
func BuildPrompt(template, preferences string) (string, error) {
	if !strings.Contains(template, config.PreferencesPlaceholder) {
		return "", fmt.Errorf("template missing %s", config.PreferencesPlaceholder)
	}
	serialized, err := json.Marshal(struct {
		Query string `json:"query"`
	}{Query: preferences})
	if err != nil {
		return "", fmt.Errorf("serialize preferences: %w", err)
	}
	return strings.Replace(template, config.PreferencesPlaceholder, string(serialized), 1), nil
}

// ParseCandidates is a best-effort parser for the model's reply: it splits on
// commas and line breaks, trims whitespace, and drops empty fragments.
// Duplicates are kept in reply order.
func ParseCandidates(text string) []string {
	fragments := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	candidates := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		if title := strings.TrimSpace(fragment); title != "" {
			candidates = append(candidates, title)
		}
	}
	return candidates
}
