package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"moviesuggest/internal/tmdb"
)

type cliTestEnv struct {
	configPath string
	geminiText string
}

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"TMDB_API_KEY", "TMDB_API_URL", "GEMINI_API_KEY", "PROMPT_EN", "PROMPT_PT", "PORT"} {
		t.Setenv(key, "")
	}
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	isolateEnv(t)
	env := &cliTestEnv{geminiText: "Alien, Nonexistent Movie"}

	tmdbServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search/movie":
			if r.URL.Query().Get("query") != "Alien" {
				_, _ = w.Write([]byte(`{"results":[]}`))
				return
			}
			_, _ = w.Write([]byte(`{"results":[{"id":348,"title":"Alien","overview":"In space no one can hear you scream.","poster_path":"/alien.jpg","release_date":"1979-05-25","vote_average":8.14}]}`))
		case "/movie/popular", "/trending/movie/week":
			_, _ = w.Write([]byte(`{"results":[{"id":348,"title":"Alien","overview":"Nostromo.","poster_path":"/alien.jpg","release_date":"1979-05-25"}]}`))
		case "/movie/348/videos":
			_, _ = w.Write([]byte(`{"results":[{"key":"LjLamj-b0I8","site":"YouTube","type":"Trailer"}]}`))
		case "/movie/348/watch/providers":
			_, _ = w.Write([]byte(`{"results":{"BR":{"link":"https://www.themoviedb.org/movie/348/watch?locale=BR","flatrate":[{"provider_id":337,"provider_name":"Disney Plus","logo_path":"/d.jpg"}]}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(tmdbServer.Close)

	geminiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"parts": []any{map[string]any{"text": env.geminiText}}},
			}},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(geminiServer.Close)

	env.configPath = filepath.Join(t.TempDir(), "config.toml")
	contents := fmt.Sprintf(`[tmdb]
api_key = "tmdb-test"
base_url = %q
requests_per_second = 0

[gemini]
api_key = "gemini-test"
base_url = %q
model = "demo"

[prompts]
en = "EN {preferences}"
pt = "PT {preferences}"

[logging]
level = "error"
`, tmdbServer.URL, geminiServer.URL)
	if err := os.WriteFile(env.configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestSuggestCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, "--config", env.configPath, "--json", "suggest", "tense", "sci-fi")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	var records []tmdb.Record
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(records) != 1 || records[0].Title != "Alien" {
		t.Fatalf("unexpected records %#v", records)
	}
	if records[0].Poster == nil || *records[0].Poster != "https://image.tmdb.org/t/p/w500/alien.jpg" {
		t.Fatalf("unexpected poster %v", records[0].Poster)
	}
	if records[0].TrailerURL == nil || !strings.Contains(*records[0].TrailerURL, "LjLamj-b0I8") {
		t.Fatalf("unexpected trailer %v", records[0].TrailerURL)
	}
}

func TestSuggestCommandNoResults(t *testing.T) {
	env := setupCLITestEnv(t)
	env.geminiText = "Nonexistent Movie"

	_, err := runCLI(t, "--config", env.configPath, "suggest", "anything")
	if err == nil || !strings.Contains(err.Error(), "no results") {
		t.Fatalf("expected no results error, got %v", err)
	}
}

func TestListingCommandsRenderTables(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, "--config", env.configPath, "popular")
	if err != nil {
		t.Fatalf("popular: %v", err)
	}
	requireContains(t, out, "Alien")
	requireContains(t, out, "1979")

	out, err = runCLI(t, "--config", env.configPath, "trending", "--period", "week")
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	requireContains(t, out, "Alien")

	if _, err := runCLI(t, "--config", env.configPath, "trending", "--period", "month"); err == nil {
		t.Fatal("expected error for unsupported period")
	}
}

func TestProvidersCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, "--config", env.configPath, "providers", "348", "--locale", "pt-BR")
	if err != nil {
		t.Fatalf("providers: %v", err)
	}
	requireContains(t, out, "Disney Plus")
	requireContains(t, out, "stream")
	requireContains(t, out, "locale=BR")

	out, err = runCLI(t, "--config", env.configPath, "providers", "348", "--country", "US")
	if err != nil {
		t.Fatalf("providers: %v", err)
	}
	requireContains(t, out, "No watch providers")

	if _, err := runCLI(t, "--config", env.configPath, "providers", "abc"); err == nil {
		t.Fatal("expected error for invalid id")
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, "--config", env.configPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, err = runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestCommandsRequireCredentials(t *testing.T) {
	isolateEnv(t)
	missing := filepath.Join(t.TempDir(), "absent.toml")

	_, err := runCLI(t, "--config", missing, "popular")
	if err == nil {
		t.Fatal("expected configuration error without api keys")
	}
}
