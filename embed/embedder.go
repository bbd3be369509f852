// Package embed provides text embedding backends for the vector indexing
// pipeline. An Embedder turns text into a fixed-dimension float vector; the
// dimension is fixed by the model at construction time and must match the
// vector collection it feeds.
//
// Embedders are expensive to construct (remote clients validate
// connectivity, local models build their vocabulary tables) and are meant
// to be created once at process start and injected everywhere they are
// needed.
package embed

import (
	"context"
	"errors"
	"math"
)

// ErrEmptyInput is returned when the text to embed is empty or whitespace.
var ErrEmptyInput = errors.New("embed: empty input text")

// Embedder generates vector embeddings from text.
type Embedder interface {
	// Encode embeds a single text. When normalize is true the returned
	// vector is scaled to unit L2 length. Encoding empty text is an error.
	Encode(ctx context.Context, text string, normalize bool) ([]float32, error)

	// TokenizerInfo reports how many tokens the model's tokenizer counts in
	// text, and the maximum number of tokens the model accepts per input.
	TokenizerInfo(text string) (numTokens, maxTokens int)

	// Dimension returns the embedding vector size (e.g. 384, 1536).
	Dimension() int

	// ModelName identifies the underlying model.
	ModelName() string
}

// L2Normalize scales v in place to unit length. Zero vectors are left
// unchanged.
func L2Normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}

// approxTokenCount estimates the token count of text as one token per four
// characters, the usual rule of thumb for subword tokenizers. Used by
// backends whose tokenizer is not available in-process.
func approxTokenCount(text string) int {
	n := len([]rune(text))
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}
