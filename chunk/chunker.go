// Package chunk splits documents into embeddable pieces.
//
// Long texts exceed the embedding model's input limit, so a document is cut
// into roughly equal character-length chunks sized from the model's token
// count, and each chunk is embedded separately.
package chunk

import (
	"context"
	"log"

	"github.com/hubenschmidt/go-vecdoc/embed"
)

// Chunk is one embeddable piece of a document.
type Chunk struct {
	Text      string
	Embedding []float32
}

// Chunker splits text into chunks sized for its embedder and embeds each
// one. Chunk embeddings are L2-normalized.
type Chunker struct {
	embedder embed.Embedder
}

// New creates a Chunker bound to the given embedder.
func New(e embed.Embedder) *Chunker {
	return &Chunker{embedder: e}
}

// Chunk splits text into consecutive, non-overlapping pieces and embeds
// each one.
//
// The chunk count is ceil(numTokens/maxTokens) as reported by the
// embedder's tokenizer; the chunk size is the text's character length
// divided by that count. Character positions are Unicode code points, and
// the final chunk runs to the end of the text so no trailing characters
// are lost on uneven division.
//
// Empty text yields no chunks and no embedding calls. A chunk whose
// embedding fails is skipped; if every chunk fails, the last embedding
// error is returned.
func (c *Chunker) Chunk(ctx context.Context, text string) ([]Chunk, error) {
	if text == "" {
		return nil, nil
	}

	runes := []rune(text)
	numTokens, maxTokens := c.embedder.TokenizerInfo(text)

	count := 1
	if numTokens > maxTokens {
		count = (numTokens-1)/maxTokens + 1
	}
	if count <= 0 {
		return nil, nil
	}

	size := len(runes) / count
	if size <= 0 {
		count, size = 1, len(runes)
	}

	log.Printf("[chunk] length=%d tokens=%d max_tokens=%d chunks=%d chunk_size=%d",
		len(runes), numTokens, maxTokens, count, size)

	chunks := make([]Chunk, 0, count)
	var lastErr error

	for i := 0; i < count; i++ {
		start := i * size
		end := start + size
		if i == count-1 {
			end = len(runes)
		}
		if start >= end {
			continue
		}

		piece := string(runes[start:end])
		vec, err := c.embedder.Encode(ctx, piece, true)
		if err != nil {
			log.Printf("[chunk] embedding chunk %d/%d failed: %v", i+1, count, err)
			lastErr = err
			continue
		}
		chunks = append(chunks, Chunk{Text: piece, Embedding: vec})
	}

	if len(chunks) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return chunks, nil
}
