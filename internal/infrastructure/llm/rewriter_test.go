package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ArticleEnhancer/internal/config"
	"ArticleEnhancer/internal/domain"
)

func newTestClient(endpoint string) *Client {
	return NewClient(config.LLMConfig{
		Endpoint: endpoint,
		Model:    "local-model",
		APIKey:   "lm-studio",
	})
}

func TestRewriteReturnsFirstCompletion(t *testing.T) {
	t.Parallel()

	var request map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer lm-studio" {
			t.Errorf("unexpected auth header: %s", got)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &request); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"# Rewritten"}},{"message":{"content":"second"}}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	body, err := client.Rewrite(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("Rewrite error: %v", err)
	}
	if body != "# Rewritten" {
		t.Fatalf("unexpected body: %s", body)
	}

	if request["model"] != "local-model" {
		t.Fatalf("unexpected model: %v", request["model"])
	}
	messages, ok := request["messages"].([]any)
	if !ok || len(messages) != 1 {
		t.Fatalf("expected exactly one message, got %v", request["messages"])
	}
}

func TestRewriteServerErrorCarriesStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("model not loaded"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Rewrite(context.Background(), "the prompt")
	var genErr *domain.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *domain.GenerationError, got %T", err)
	}
	if genErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: %d", genErr.Status)
	}
	if !genErr.Recoverable() {
		t.Fatal("503 should be recoverable")
	}
}

func TestRewriteEmptyChoices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Rewrite(context.Background(), "the prompt")
	var genErr *domain.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *domain.GenerationError, got %T", err)
	}
	if genErr.Status != 0 {
		t.Fatalf("a 200 with no completions carries no status, got %d", genErr.Status)
	}
	if genErr.Recoverable() {
		t.Fatal("missing completions must not route to the degraded publisher")
	}
}

func TestRewriteTransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := newTestClient(server.URL)

	_, err := client.Rewrite(context.Background(), "the prompt")
	var genErr *domain.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *domain.GenerationError, got %T", err)
	}
	if genErr.Status != 0 || genErr.Recoverable() {
		t.Fatalf("transport failure must be unrecoverable with no status: %+v", genErr)
	}
}
