// Package vecdoc provides document chunking, embedding, and vector
// similarity search over pluggable stores.
//
// Example usage:
//
//	embedder := vecdoc.NewLocalEmbedder(0, 0)
//	client, err := vecdoc.OpenStore(":memory:")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	manager := vecdoc.NewManager(client)
//	manager.EnsureCollection(ctx, "documents", embedder.Dimension(), false)
//
//	ingester := vecdoc.NewIngester(vecdoc.NewChunker(embedder), client, "documents", nil)
//	ingester.Ingest(ctx, vecdoc.Document{ID: "doc-1", Title: "Notes", Content: text})
//
//	searcher := vecdoc.NewSearcher(embedder, client, "documents", nil)
//	hits, err := searcher.Search(ctx, "what were the notes about?", 5)
package vecdoc

import (
	"github.com/hubenschmidt/go-vecdoc/chunk"
	"github.com/hubenschmidt/go-vecdoc/embed"
	"github.com/hubenschmidt/go-vecdoc/monitor"
	"github.com/hubenschmidt/go-vecdoc/pipeline"
	"github.com/hubenschmidt/go-vecdoc/store"
)

// Core type aliases
type (
	Embedder  = embed.Embedder
	Chunker   = chunk.Chunker
	Document  = pipeline.Document
	SearchHit = pipeline.SearchHit
	Ingester  = pipeline.Ingester
	Searcher  = pipeline.Searcher
	Record    = store.Record
	Hit       = store.Hit
	Client    = store.Client
	Manager   = store.Manager
	Collector = monitor.Collector
)

// NewLocalEmbedder creates the deterministic hash-based embedder. Zero
// arguments select the default dimension and token limit.
func NewLocalEmbedder(dimension, maxTokens int) *embed.Local {
	return embed.NewLocal(dimension, maxTokens)
}

// NewOpenAIEmbedder creates an embedder backed by the OpenAI API.
func NewOpenAIEmbedder(apiKey, model string) (*embed.OpenAI, error) {
	return embed.NewOpenAI(apiKey, model)
}

// NewOllamaEmbedder creates an embedder backed by a local Ollama server.
func NewOllamaEmbedder(baseURL, model string) *embed.Ollama {
	return embed.NewOllama(baseURL, model)
}

// NewChunker creates a chunker that embeds each produced chunk.
func NewChunker(e Embedder) *Chunker {
	return chunk.New(e)
}

// OpenStore selects a store backend from the DSN.
func OpenStore(dsn string) (Client, error) {
	return store.Open(dsn)
}

// NewManager wraps a store client with the ensure policy.
func NewManager(client Client) *Manager {
	return store.NewManager(client)
}

// NewIngester builds the document ingest pipeline.
func NewIngester(chunker *Chunker, client Client, collection string, collector Collector) *Ingester {
	return pipeline.NewIngester(chunker, client, collection, collector)
}

// NewSearcher builds the similarity search pipeline.
func NewSearcher(embedder Embedder, client Client, collection string, collector Collector) *Searcher {
	return pipeline.NewSearcher(embedder, client, collection, collector)
}

// NewCollector creates an in-memory metrics collector.
func NewCollector() *monitor.InMemoryCollector {
	return monitor.NewInMemoryCollector()
}
