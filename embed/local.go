package embed

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"
)

// Default parameters for the local model, matching the reference
// sentence-transformer configuration (384-dimensional MiniLM).
const (
	DefaultLocalDimension = 384
	DefaultLocalMaxTokens = 512
)

// Local is a deterministic, in-process embedding model. Each word in the
// input is hashed into a handful of vector buckets, producing a
// bag-of-words projection: identical texts map to identical vectors and
// texts sharing vocabulary land close together under the L2 metric. It
// needs no network or model files, which makes it the default backend and
// the one the test suites run against.
type Local struct {
	dim       int
	maxTokens int
}

// NewLocal creates a local embedder. Non-positive arguments fall back to
// the defaults.
func NewLocal(dimension, maxTokens int) *Local {
	if dimension <= 0 {
		dimension = DefaultLocalDimension
	}
	if maxTokens <= 0 {
		maxTokens = DefaultLocalMaxTokens
	}
	return &Local{dim: dimension, maxTokens: maxTokens}
}

// Encode embeds text by hashing its words into vector buckets.
func (l *Local) Encode(ctx context.Context, text string, normalize bool) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float32, l.dim)
	for _, word := range splitWords(text) {
		h := fnv.New32a()
		h.Write([]byte(word))
		sum := h.Sum32()

		// Two buckets per word; the high bit of each picks the sign.
		idx1 := int(sum % uint32(l.dim))
		idx2 := int((sum >> 8) % uint32(l.dim))
		vec[idx1] += sign(sum >> 16)
		vec[idx2] += sign(sum >> 24)
	}

	if normalize {
		L2Normalize(vec)
	}
	return vec, nil
}

// TokenizerInfo approximates the subword token count as one token per four
// characters.
func (l *Local) TokenizerInfo(text string) (int, int) {
	return approxTokenCount(text), l.maxTokens
}

// Dimension returns the embedding vector size.
func (l *Local) Dimension() int {
	return l.dim
}

// ModelName identifies the local model.
func (l *Local) ModelName() string {
	return "local-hash-v1"
}

func sign(bits uint32) float32 {
	if bits&1 == 1 {
		return -1
	}
	return 1
}

// splitWords lowercases text and splits it on anything that is not a
// letter or digit.
func splitWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

var _ Embedder = (*Local)(nil)
