package config

import (
	"fmt"
	"net"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeServer()
	c.normalizeTMDB()
	c.normalizeGemini()
	c.normalizePrompts()
	if c.Suggest.MaxConcurrency <= 0 {
		c.Suggest.MaxConcurrency = defaultSuggestMaxConcurrency
	}
	return c.normalizeLogging()
}

// lookupEnv returns the trimmed value of key when it is set and non-blank.
func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func (c *Config) normalizeServer() {
	if port, ok := lookupEnv("PORT"); ok {
		c.Server.Bind = net.JoinHostPort("", port)
	}
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
	origins := make([]string, 0, len(c.Server.CORSOrigins))
	seen := make(map[string]struct{}, len(c.Server.CORSOrigins))
	for _, origin := range c.Server.CORSOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if _, exists := seen[origin]; exists {
			continue
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}
	c.Server.CORSOrigins = origins
	if c.Server.RateLimitWindowSeconds <= 0 {
		c.Server.RateLimitWindowSeconds = defaultRateLimitWindowSeconds
	}
}

func (c *Config) normalizeTMDB() {
	if value, ok := lookupEnv("TMDB_API_KEY"); ok {
		c.TMDB.APIKey = value
	}
	if value, ok := lookupEnv("TMDB_API_URL"); ok {
		c.TMDB.BaseURL = value
	}
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	c.TMDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.BaseURL), "/")
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.ImageBaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.ImageBaseURL), "/")
	if c.TMDB.ImageBaseURL == "" {
		c.TMDB.ImageBaseURL = defaultTMDBImageBaseURL
	}
}

func (c *Config) normalizeGemini() {
	if value, ok := lookupEnv("GEMINI_API_KEY"); ok {
		c.Gemini.APIKey = value
	}
	c.Gemini.APIKey = strings.TrimSpace(c.Gemini.APIKey)
	c.Gemini.BaseURL = strings.TrimRight(strings.TrimSpace(c.Gemini.BaseURL), "/")
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = defaultGeminiBaseURL
	}
	c.Gemini.Model = strings.TrimSpace(c.Gemini.Model)
	if c.Gemini.Model == "" {
		c.Gemini.Model = defaultGeminiModel
	}
	if c.Gemini.BreakerCooldownSeconds <= 0 {
		c.Gemini.BreakerCooldownSeconds = defaultGeminiBreakerCooldown
	}
}

func (c *Config) normalizePrompts() {
	if value, ok := lookupEnv("PROMPT_EN"); ok {
		c.Prompts.EN = value
	}
	if value, ok := lookupEnv("PROMPT_PT"); ok {
		c.Prompts.PT = value
	}
	c.Prompts.EN = strings.TrimSpace(c.Prompts.EN)
	c.Prompts.PT = strings.TrimSpace(c.Prompts.PT)
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if strings.TrimSpace(c.Logging.File) == "" {
		c.Logging.File = ""
		return nil
	}
	var err error
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}
