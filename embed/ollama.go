package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Default Ollama embedding configuration.
const (
	DefaultOllamaModel     = "nomic-embed-text"
	DefaultOllamaMaxTokens = 2048
)

// Dimensions of common Ollama embedding models.
var ollamaDimensions = map[string]int{
	"nomic-embed-text":  768,
	"all-minilm":        384,
	"mxbai-embed-large": 1024,
}

// Ollama embeds text through Ollama's native /api/embed endpoint.
type Ollama struct {
	baseURL   string
	model     string
	dim       int
	maxTokens int
	client    *http.Client
}

// NewOllama creates an Ollama-backed embedder. The base URL may carry a
// trailing /v1 suffix (the OpenAI-compatible endpoint), which is stripped.
func NewOllama(baseURL, model string) *Ollama {
	host := strings.TrimSuffix(baseURL, "/")
	host = strings.TrimSuffix(host, "/v1")
	if model == "" {
		model = DefaultOllamaModel
	}

	dim, ok := ollamaDimensions[model]
	if !ok {
		dim = ollamaDimensions[DefaultOllamaModel]
	}

	return &Ollama{
		baseURL:   host,
		model:     model,
		dim:       dim,
		maxTokens: DefaultOllamaMaxTokens,
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

type ollamaEmbedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// Encode embeds a single text through Ollama's native API.
func (e *Ollama) Encode(ctx context.Context, text string, normalize bool) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	body, err := json.Marshal(ollamaEmbedRequest{Model: e.model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(result.Embeddings) == 0 || len(result.Embeddings[0]) == 0 {
		return nil, fmt.Errorf("embed: no embeddings in response")
	}

	raw := result.Embeddings[0]
	vec := make([]float32, len(raw))
	for i := range raw {
		vec[i] = float32(raw[i])
	}

	if normalize {
		L2Normalize(vec)
	}
	return vec, nil
}

// TokenizerInfo approximates the token count; Ollama does not expose its
// tokenizer.
func (e *Ollama) TokenizerInfo(text string) (int, int) {
	return approxTokenCount(text), e.maxTokens
}

// Dimension returns the embedding vector size for the configured model.
func (e *Ollama) Dimension() int {
	return e.dim
}

// ModelName identifies the configured model.
func (e *Ollama) ModelName() string {
	return "ollama-" + e.model
}

var _ Embedder = (*Ollama)(nil)
