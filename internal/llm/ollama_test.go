package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"musicagent/internal/errs"
)

func TestNewOllamaDefaults(t *testing.T) {
	c := NewOllama("", "")
	if c.ProviderName() != "Ollama" {
		t.Errorf("ProviderName() = %q, want %q", c.ProviderName(), "Ollama")
	}
	if c.Model() != DefaultModel {
		t.Errorf("Model() = %q, want %q", c.Model(), DefaultModel)
	}
	if c.baseURL != DefaultOllamaURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultOllamaURL)
	}

	c = NewOllama("http://example.com:11434/", "mistral")
	if c.Model() != "mistral" {
		t.Errorf("Model() = %q, want %q", c.Model(), "mistral")
	}
	if c.baseURL != "http://example.com:11434" {
		t.Errorf("baseURL = %q, trailing slash should be trimmed", c.baseURL)
	}
}

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %s, want /api/generate", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "llama3.2" || req.Prompt != "hello" || req.Stream {
			t.Errorf("unexpected request: %+v", req)
		}

		w.Write([]byte(`{"model":"llama3.2","response":"SUGGESTION: title\nSUGGESTED: Ripple","done":true}`))
	}))
	defer srv.Close()

	c := NewOllama(srv.URL, "llama3.2")
	got, err := c.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "SUGGESTION: title\nSUGGESTED: Ripple" {
		t.Errorf("Generate() = %q", got)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "model not found",
			status:  http.StatusNotFound,
			body:    `{"error":"model 'nope' not found"}`,
			wantErr: errs.ErrModelRequest,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `boom`,
			wantErr: errs.ErrModelRequest,
		},
		{
			name:    "not json",
			status:  http.StatusOK,
			body:    `<html>proxy</html>`,
			wantErr: errs.ErrModelResponse,
		},
		{
			name:    "missing response field",
			status:  http.StatusOK,
			body:    `{"done":true}`,
			wantErr: errs.ErrModelResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewOllama(srv.URL, "").Generate(context.Background(), "prompt")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want kind %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewOllama(url, "").Generate(context.Background(), "prompt")
	if !errors.Is(err, errs.ErrModelRequest) {
		t.Fatalf("error = %v, want ErrModelRequest", err)
	}
}

func TestGenerateEmptyResponseIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":""}`))
	}))
	defer srv.Close()

	got, err := NewOllama(srv.URL, "").Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("Generate() = %q, want empty", got)
	}
}

func TestGenerateCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewOllama(srv.URL, "").Generate(ctx, "prompt")
	if !errors.Is(err, errs.ErrModelRequest) {
		t.Fatalf("error = %v, want ErrModelRequest", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled cause", err)
	}
}
