package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// PreferencesPlaceholder is substituted with the serialized user preferences
// in both prompt templates.
const PreferencesPlaceholder = "{preferences}"

// Server contains HTTP listener and middleware configuration.
type Server struct {
	Bind                   string   `toml:"bind" validate:"required"`
	CORSOrigins            []string `toml:"cors_origins"`
	RateLimitRequests      int      `toml:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindowSeconds int      `toml:"rate_limit_window_seconds" validate:"gte=1"`
	RequestTimeoutSeconds  int      `toml:"request_timeout_seconds" validate:"gte=0"`
}

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	APIKey            string  `toml:"api_key" validate:"required"`
	BaseURL           string  `toml:"base_url" validate:"required,url"`
	ImageBaseURL      string  `toml:"image_base_url" validate:"required,url"`
	RequestsPerSecond float64 `toml:"requests_per_second" validate:"gte=0"`
	TimeoutSeconds    int     `toml:"timeout_seconds" validate:"gte=0"`
}

// Gemini contains configuration for the generative-text provider.
type Gemini struct {
	APIKey                 string  `toml:"api_key" validate:"required"`
	BaseURL                string  `toml:"base_url" validate:"required,url"`
	Model                  string  `toml:"model" validate:"required"`
	Temperature            float64 `toml:"temperature" validate:"gte=0,lte=2"`
	MaxOutputTokens        int     `toml:"max_output_tokens" validate:"gte=0"`
	TimeoutSeconds         int     `toml:"timeout_seconds" validate:"gte=0"`
	BreakerFailures        int     `toml:"breaker_failures" validate:"gte=0"`
	BreakerCooldownSeconds int     `toml:"breaker_cooldown_seconds" validate:"gte=1"`
}

// Prompts holds the locale-specific prompt templates. Each must contain
// PreferencesPlaceholder exactly where the preferences belong.
type Prompts struct {
	EN string `toml:"en" validate:"required"`
	PT string `toml:"pt" validate:"required"`
}

// Suggest contains enrichment pipeline tuning.
type Suggest struct {
	MaxConcurrency int `toml:"max_concurrency" validate:"gte=1"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format       string `toml:"format" validate:"oneof=console json"`
	Level        string `toml:"level" validate:"oneof=debug info warn error"`
	File         string `toml:"file"`
	MaxSizeMB    int    `toml:"max_size_mb" validate:"gte=1"`
	MaxBackups   int    `toml:"max_backups" validate:"gte=0"`
	MaxAgeDays   int    `toml:"max_age_days" validate:"gte=0"`
	CompressLogs bool   `toml:"compress"`
}

// Config encapsulates all configuration values for moviesuggest.
//
// Configuration sections by subsystem:
//   - Server: HTTP bind address, CORS, and inbound rate limiting
//   - TMDB: movie metadata provider credentials and pacing
//   - Gemini: generative-text provider credentials and circuit breaker
//   - Prompts: locale-specific prompt templates
//   - Suggest: enrichment fan-out limits
//   - Logging: log format, level, and optional rotating file
type Config struct {
	Server  Server  `toml:"server"`
	TMDB    TMDB    `toml:"tmdb"`
	Gemini  Gemini  `toml:"gemini"`
	Prompts Prompts `toml:"prompts"`
	Suggest Suggest `toml:"suggest"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/moviesuggest/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file is
// not an error: defaults plus environment variables (and a .env file in the
// working directory) may be enough. Validation failures wrap services.ErrConfiguration.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	if err := loadDotEnv(); err != nil {
		return nil, "", false, err
	}

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// loadDotEnv reads ./.env when present. Variables already set in the process
// environment are left untouched.
func loadDotEnv() error {
	info, err := os.Stat(".env")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat .env: %w", err)
	}
	if info.IsDir() {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("moviesuggest.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// TMDBTimeout returns the outbound metadata request timeout; zero means transport default.
func (c *Config) TMDBTimeout() time.Duration {
	return time.Duration(c.TMDB.TimeoutSeconds) * time.Second
}

// GeminiTimeout returns the outbound language-model request timeout; zero means transport default.
func (c *Config) GeminiTimeout() time.Duration {
	return time.Duration(c.Gemini.TimeoutSeconds) * time.Second
}

// RateLimitWindow returns the inbound rate limiting window.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.Server.RateLimitWindowSeconds) * time.Second
}

// RequestTimeout bounds each inbound request; zero disables the bound.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}
