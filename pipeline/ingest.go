// Package pipeline wires the chunker, embedder, and vector store into the
// two document operations: ingest and search.
package pipeline

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/hubenschmidt/go-vecdoc/chunk"
	"github.com/hubenschmidt/go-vecdoc/monitor"
	"github.com/hubenschmidt/go-vecdoc/store"
)

// Document is the ingest input: a caller-supplied ID, an optional title,
// and the raw text body.
type Document struct {
	ID      string
	Title   string
	Content string
}

// Ingester chunks documents, embeds each chunk, and persists the chunk
// rows to a collection.
type Ingester struct {
	chunker    *chunk.Chunker
	client     store.Client
	collection string
	collector  monitor.Collector
}

// NewIngester builds an ingest pipeline over the given collection. A nil
// collector disables metrics.
func NewIngester(chunker *chunk.Chunker, client store.Client, collection string, collector monitor.Collector) *Ingester {
	if collector == nil {
		collector = monitor.NewNoOpCollector()
	}
	return &Ingester{
		chunker:    chunker,
		client:     client,
		collection: collection,
		collector:  collector,
	}
}

// Ingest chunks and stores one document, returning the number of chunk
// rows persisted. Every stored row carries the document's ID and title so
// search hits are self-describing.
func (in *Ingester) Ingest(ctx context.Context, doc Document) (int, error) {
	start := time.Now()
	count, err := in.ingest(ctx, doc)

	m := monitor.OpMetrics{
		Op:       "ingest",
		Chunks:   count,
		Duration: time.Since(start),
		Success:  err == nil,
	}
	if err != nil {
		m.Error = err.Error()
	}
	in.collector.Record(m)
	return count, err
}

func (in *Ingester) ingest(ctx context.Context, doc Document) (int, error) {
	if strings.TrimSpace(doc.Content) == "" {
		return 0, newError(KindInput, "ingest", ErrEmptyContent)
	}
	if doc.ID == "" {
		return 0, newError(KindInput, "ingest", ErrEmptyDocumentID)
	}

	chunks, err := in.chunker.Chunk(ctx, doc.Content)
	if err != nil {
		return 0, newError(KindModel, "ingest", err)
	}
	if len(chunks) == 0 {
		return 0, newError(KindModel, "ingest", ErrNoChunks)
	}

	records := make([]store.Record, len(chunks))
	for i, c := range chunks {
		records[i] = store.Record{
			DocumentID: doc.ID,
			Title:      doc.Title,
			Content:    c.Text,
			Embedding:  c.Embedding,
		}
	}

	count, err := in.client.Insert(ctx, in.collection, records)
	if err != nil {
		return 0, newError(KindStore, "ingest", err)
	}
	if count < len(records) {
		log.Printf("[pipeline] short insert for document %s: stored %d of %d chunks",
			doc.ID, count, len(records))
	}

	log.Printf("[pipeline] ingested document %s: %d chunks into %s", doc.ID, count, in.collection)
	return count, nil
}
