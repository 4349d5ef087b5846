package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ppiankov/neurograph/internal/model"
)

func TestOllamaProvider_Complete_Success(t *testing.T) {
	var got ollamaRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("expected path /api/generate, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		resp := ollamaResponse{
			Model:           "llama3.1:8b",
			Response:        `{"triples": []}`,
			Done:            true,
			PromptEvalCount: 40,
			EvalCount:       10,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "llama3.1:8b", Timeout: 5})
	if err != nil {
		t.Fatalf("create provider: %v", err)
	}

	resp, err := provider.Complete(context.Background(), CompletionRequest{
		Template: TemplateTripleExtraction,
		Prompt:   RenderTripleExtraction("the hippocampus is part of the limbic system"),
		System:   SystemFor(TemplateTripleExtraction),
		JSONOnly: true,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if resp.Text != `{"triples": []}` {
		t.Errorf("unexpected text: %q", resp.Text)
	}
	if resp.TokensUsed != 50 {
		t.Errorf("expected 50 tokens, got %d", resp.TokensUsed)
	}
	if got.Format != "json" {
		t.Errorf("expected json format constraint, got %q", got.Format)
	}
	if got.Stream {
		t.Error("expected non-streaming request")
	}
}

func TestOllamaProvider_Complete_AttachesImage(t *testing.T) {
	var got ollamaRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(ollamaResponse{Response: "a sagittal brain section", Done: true})
	}))
	defer server.Close()

	provider, _ := NewOllamaProvider(Config{BaseURL: server.URL, Model: "llama3.2-vision:11b", Timeout: 5})

	_, err := provider.Complete(context.Background(), CompletionRequest{
		Template: TemplateImageDescription,
		Prompt:   RenderImageDescription(),
		ImageB64: "aW1hZ2VieXRlcw==",
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if len(got.Images) != 1 || got.Images[0] != "aW1hZ2VieXRlcw==" {
		t.Errorf("expected image attached to request, got %v", got.Images)
	}
}

func TestOllamaProvider_Complete_ServerDown(t *testing.T) {
	// Closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	provider, _ := NewOllamaProvider(Config{BaseURL: server.URL, Model: "llama3.1:8b", Timeout: 1})

	_, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	if !errors.Is(err, model.ErrCapabilityUnreachable) {
		t.Errorf("expected ErrCapabilityUnreachable, got %v", err)
	}
}

func TestOllamaProvider_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(ollamaError{Error: "model not found"})
	}))
	defer server.Close()

	provider, _ := NewOllamaProvider(Config{BaseURL: server.URL, Model: "missing", Timeout: 5})

	_, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	if !errors.Is(err, model.ErrCapabilityUnreachable) {
		t.Errorf("expected ErrCapabilityUnreachable, got %v", err)
	}
}

func TestOllamaProvider_Complete_RequiresModel(t *testing.T) {
	provider, _ := NewOllamaProvider(Config{BaseURL: "http://localhost:11434"})

	if _, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "x"}); err == nil {
		t.Error("expected error when no model configured")
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("expected path /api/tags, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider, _ := NewOllamaProvider(Config{BaseURL: server.URL, Timeout: 5})
	if !provider.IsAvailable(context.Background()) {
		t.Error("expected provider to be available")
	}

	server.Close()
	if provider.IsAvailable(context.Background()) {
		t.Error("expected provider to be unavailable after server close")
	}
}
