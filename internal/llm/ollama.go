package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"musicagent/internal/errs"
)

const (
	DefaultModel     = "llama3.2"
	DefaultOllamaURL = "http://localhost:11434"
)

// Ollama is a client for the Ollama generate API.
type Ollama struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

// NewOllama creates a client for the server at baseURL using model.
// Empty arguments fall back to the defaults.
func NewOllama(baseURL, model string) *Ollama {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Ollama{
		// Generation can take minutes; cancellation comes from the context.
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
	}
}

func (c *Ollama) ProviderName() string { return "Ollama" }

// Model returns the model name sent with each request.
func (c *Ollama) Model() string { return c.model }

// Generate sends prompt as a single non-streaming request. Failures are not retried.
func (c *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode ollama request: %w", errs.ErrModelRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create ollama request: %w", errs.ErrModelRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "music-agent/0.1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to connect to Ollama at %s (is Ollama running?): %w", errs.ErrModelRequest, c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: ollama request failed with status %d: %s", errs.ErrModelRequest, resp.StatusCode, strings.TrimSpace(string(text)))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("%w: failed to parse ollama response: %w", errs.ErrModelResponse, err)
	}
	if genResp.Response == nil {
		return "", fmt.Errorf("%w: ollama response has no \"response\" field", errs.ErrModelResponse)
	}

	return *genResp.Response, nil
}

// Ollama API types

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Model    string  `json:"model"`
	Response *string `json:"response"`
	Done     bool    `json:"done"`
}
