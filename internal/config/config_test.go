package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"moviesuggest/internal/config"
	"moviesuggest/internal/services"
)

const (
	testPromptEN = "Suggest movies for {preferences}."
	testPromptPT = "Sugira filmes para {preferences}."
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"TMDB_API_KEY", "TMDB_API_URL", "GEMINI_API_KEY", "PROMPT_EN", "PROMPT_PT", "PORT"} {
		t.Setenv(key, "")
	}
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TMDB_API_KEY", "tmdb-key")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("PROMPT_EN", testPromptEN)
	t.Setenv("PROMPT_PT", testPromptPT)
}

func TestLoadFromEnvironmentOnly(t *testing.T) {
	isolateEnv(t)
	setRequiredEnv(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.TMDB.APIKey != "tmdb-key" {
		t.Fatalf("expected TMDB key from env, got %q", cfg.TMDB.APIKey)
	}
	if cfg.Gemini.APIKey != "gemini-key" {
		t.Fatalf("expected Gemini key from env, got %q", cfg.Gemini.APIKey)
	}
	if cfg.TMDB.BaseURL != config.Default().TMDB.BaseURL {
		t.Fatalf("unexpected TMDB base url: %q", cfg.TMDB.BaseURL)
	}
	if cfg.Server.Bind != "127.0.0.1:3001" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if cfg.Prompts.PT != testPromptPT || cfg.Prompts.EN != testPromptEN {
		t.Fatalf("unexpected prompts: %+v", cfg.Prompts)
	}
	if cfg.GeminiTimeout() != 0 || cfg.TMDBTimeout() != 0 {
		t.Fatalf("expected transport-default timeouts, got %v / %v", cfg.GeminiTimeout(), cfg.TMDBTimeout())
	}
	if cfg.Suggest.MaxConcurrency != config.Default().Suggest.MaxConcurrency {
		t.Fatalf("unexpected max concurrency: %d", cfg.Suggest.MaxConcurrency)
	}
}

func TestLoadMissingCredentialsFailsFast(t *testing.T) {
	isolateEnv(t)

	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected error when credentials are missing")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	for _, fragment := range []string{"tmdb.api_key", "TMDB_API_KEY", "gemini.api_key", "prompts.en"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in error %q", fragment, err.Error())
		}
	}
}

func TestLoadRejectsPromptWithoutPlaceholder(t *testing.T) {
	isolateEnv(t)
	setRequiredEnv(t)
	t.Setenv("PROMPT_PT", "Sugira filmes.")

	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected error for prompt without placeholder")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "prompts.pt") {
		t.Fatalf("expected prompts.pt in error, got %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	isolateEnv(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "moviesuggest.toml")

	type payload struct {
		Server struct {
			Bind string `toml:"bind"`
		} `toml:"server"`
		TMDB struct {
			APIKey  string `toml:"api_key"`
			BaseURL string `toml:"base_url"`
		} `toml:"tmdb"`
		Gemini struct {
			APIKey string `toml:"api_key"`
			Model  string `toml:"model"`
		} `toml:"gemini"`
		Prompts struct {
			EN string `toml:"en"`
			PT string `toml:"pt"`
		} `toml:"prompts"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Server.Bind = "0.0.0.0:8080"
	custom.TMDB.APIKey = "abc123"
	custom.TMDB.BaseURL = "https://example.com/tmdb/"
	custom.Gemini.APIKey = "gem"
	custom.Gemini.Model = "gemini-test"
	custom.Prompts.EN = testPromptEN
	custom.Prompts.PT = testPromptPT
	custom.Logging.Format = "JSON"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.TMDB.APIKey != "abc123" {
		t.Fatalf("expected TMDB key from file, got %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.BaseURL != "https://example.com/tmdb" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.TMDB.BaseURL)
	}
	if cfg.Gemini.Model != "gemini-test" {
		t.Fatalf("expected model override, got %q", cfg.Gemini.Model)
	}
	if cfg.Server.Bind != "0.0.0.0:8080" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized log format, got %q", cfg.Logging.Format)
	}
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	isolateEnv(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "moviesuggest.toml")

	contents := `
[tmdb]
api_key = "file-tmdb"

[gemini]
api_key = "file-gemini"

[prompts]
en = "file {preferences}"
pt = "arquivo {preferences}"
`
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("TMDB_API_KEY", "env-tmdb")
	t.Setenv("TMDB_API_URL", "https://proxy.example.com/3")
	t.Setenv("PORT", "4000")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.TMDB.APIKey != "env-tmdb" {
		t.Fatalf("expected env TMDB key, got %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.BaseURL != "https://proxy.example.com/3" {
		t.Fatalf("expected env TMDB url, got %q", cfg.TMDB.BaseURL)
	}
	if cfg.Gemini.APIKey != "file-gemini" {
		t.Fatalf("expected file Gemini key, got %q", cfg.Gemini.APIKey)
	}
	if cfg.Server.Bind != ":4000" {
		t.Fatalf("expected PORT to set bind, got %q", cfg.Server.Bind)
	}
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	cfg := config.Default()
	cfg.TMDB.APIKey = "k"
	cfg.Gemini.APIKey = "k"
	cfg.Prompts.EN = testPromptEN
	cfg.Prompts.PT = testPromptPT
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected logging.format in error, got %v", err)
	}
}

func TestCreateSampleLoads(t *testing.T) {
	isolateEnv(t)
	t.Setenv("TMDB_API_KEY", "k")
	t.Setenv("GEMINI_API_KEY", "k")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if !strings.Contains(cfg.Prompts.PT, config.PreferencesPlaceholder) {
		t.Fatalf("sample pt prompt missing placeholder: %q", cfg.Prompts.PT)
	}
}
