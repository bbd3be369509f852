package embed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Default OpenAI embedding configuration.
const (
	DefaultOpenAIModel     = "text-embedding-3-small"
	DefaultOpenAIMaxTokens = 8191
)

// Dimensions of the known OpenAI embedding models.
var openAIDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// OpenAI embeds text through the OpenAI embeddings API.
type OpenAI struct {
	client    *openai.Client
	model     string
	dim       int
	maxTokens int
}

// NewOpenAI creates an OpenAI-backed embedder. An empty model selects
// text-embedding-3-small.
func NewOpenAI(apiKey, model string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New("embed: OpenAI API key is required")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	dim, ok := openAIDimensions[model]
	if !ok {
		dim = openAIDimensions[DefaultOpenAIModel]
	}

	return &OpenAI{
		client:    openai.NewClient(apiKey),
		model:     model,
		dim:       dim,
		maxTokens: DefaultOpenAIMaxTokens,
	}, nil
}

// Encode embeds a single text through the embeddings API.
func (e *OpenAI) Encode(ctx context.Context, text string, normalize bool) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("embed: no embedding data returned")
	}

	raw := resp.Data[0].Embedding
	vec := make([]float32, len(raw))
	for i := range raw {
		vec[i] = float32(raw[i])
	}

	if normalize {
		L2Normalize(vec)
	}
	return vec, nil
}

// TokenizerInfo approximates the token count; the OpenAI tokenizer is not
// available in-process.
func (e *OpenAI) TokenizerInfo(text string) (int, int) {
	return approxTokenCount(text), e.maxTokens
}

// Dimension returns the embedding vector size for the configured model.
func (e *OpenAI) Dimension() int {
	return e.dim
}

// ModelName identifies the configured model.
func (e *OpenAI) ModelName() string {
	return "openai-" + e.model
}

var _ Embedder = (*OpenAI)(nil)
