package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func textResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	}
}

func TestClientGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/models/demo-model:generateContent" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "test" {
			t.Fatalf("unexpected api key header %q", got)
		}
		if r.URL.Query().Get("key") != "" {
			t.Fatal("api key must not be sent in the query string")
		}
		var body generateRequest
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(body.Contents) != 1 || body.Contents[0].Parts[0].Text != "suggest something" {
			t.Fatalf("unexpected contents: %+v", body.Contents)
		}
		if body.GenerationConfig == nil || body.GenerationConfig.Temperature != 0.5 {
			t.Fatalf("unexpected generation config: %+v", body.GenerationConfig)
		}
		if err := json.NewEncoder(w).Encode(textResponse(" Alien, Heat ")); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL + "/", Model: "demo-model", Temperature: 0.5})
	text, err := client.Generate(context.Background(), "suggest something")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if text != "Alien, Heat" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestClientGenerateJoinsParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"candidates": []any{
				map[string]any{"content": map[string]any{"parts": []any{}}},
				map[string]any{"content": map[string]any{"parts": []any{
					map[string]any{"text": "Alien, "},
					map[string]any{"text": "Heat"},
				}}},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo"})
	text, err := client.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if text != "Alien, Heat" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestClientGenerateHTTPFailure(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo"})
	_, err := client.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error")
	}
	code, ok := StatusCode(err)
	if !ok || code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d (ok=%v)", code, ok)
	}
	if !strings.Contains(err.Error(), "retry_after=7s") {
		t.Fatalf("expected retry_after in error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected exactly one attempt, got %d", calls.Load())
	}
}

func TestClientGenerateEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo"})
	_, err := client.Generate(context.Background(), "prompt")
	var emptyErr *emptyContentError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("expected emptyContentError, got %v", err)
	}
	if emptyErr.BlockReason != "SAFETY" {
		t.Fatalf("unexpected block reason %q", emptyErr.BlockReason)
	}
}

func TestClientGenerateAPIErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo"})
	_, err := client.Generate(context.Background(), "prompt")
	if err == nil || !strings.Contains(err.Error(), "API key not valid") {
		t.Fatalf("expected api error message, got %v", err)
	}
}

func TestClientGenerateRequiresInput(t *testing.T) {
	client := NewClient(Config{APIKey: "test"})
	if _, err := client.Generate(context.Background(), "   "); err == nil {
		t.Fatal("expected error for blank prompt")
	}
	client = NewClient(Config{})
	if _, err := client.Generate(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestClientCircuitBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo"},
		WithCircuitBreaker(2, time.Minute),
	)
	for i := 0; i < 2; i++ {
		if _, err := client.Generate(context.Background(), "prompt"); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}
	_, err := client.Generate(context.Background(), "prompt")
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected breaker to short-circuit third call, got %d upstream calls", calls.Load())
	}
}

func TestSummarizePayloadSnippet(t *testing.T) {
	if got := summarizePayloadSnippet("  "); got != "<empty>" {
		t.Fatalf("unexpected empty summary %q", got)
	}
	if got := summarizePayloadSnippet("a\n\tb"); got != "a b" {
		t.Fatalf("unexpected summary %q", got)
	}
	long := strings.Repeat("x", 200)
	if got := summarizePayloadSnippet(long); len(got) != 163 {
		t.Fatalf("expected truncated snippet, got len %d", len(got))
	}
}
