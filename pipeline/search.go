package pipeline

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/hubenschmidt/go-vecdoc/embed"
	"github.com/hubenschmidt/go-vecdoc/monitor"
	"github.com/hubenschmidt/go-vecdoc/store"
)

const (
	// DefaultLimit is applied when a query requests zero results.
	DefaultLimit = 5
	// MaxLimit caps the number of hits a single query may request.
	MaxLimit = 100
)

// SearchHit is one similarity result. Score is derived from the L2
// distance as 1/(1+distance), so it falls in (0, 1] and a perfect match
// scores 1.
type SearchHit struct {
	ID         int64   `json:"id"`
	DocumentID string  `json:"document_id"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Distance   float64 `json:"distance"`
	Score      float64 `json:"score"`
}

// Searcher embeds queries and runs nearest-neighbour search against a
// collection.
type Searcher struct {
	embedder   embed.Embedder
	client     store.Client
	collection string
	collector  monitor.Collector
}

// NewSearcher builds a search pipeline over the given collection. A nil
// collector disables metrics.
func NewSearcher(embedder embed.Embedder, client store.Client, collection string, collector monitor.Collector) *Searcher {
	if collector == nil {
		collector = monitor.NewNoOpCollector()
	}
	return &Searcher{
		embedder:   embedder,
		client:     client,
		collection: collection,
		collector:  collector,
	}
}

// Search embeds the query with the same normalization applied at ingest
// and returns up to limit hits ordered best-first. A limit of zero means
// DefaultLimit. Searching a collection that does not exist yet returns no
// hits rather than an error.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	start := time.Now()
	hits, err := s.search(ctx, query, limit)

	m := monitor.OpMetrics{
		Op:       "search",
		Results:  len(hits),
		Duration: time.Since(start),
		Success:  err == nil,
	}
	if err != nil {
		m.Error = err.Error()
	}
	s.collector.Record(m)
	return hits, err
}

func (s *Searcher) search(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, newError(KindInput, "search", ErrEmptyQuery)
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 0 || limit > MaxLimit {
		return nil, newError(KindInput, "search", ErrInvalidLimit)
	}

	exists, err := s.client.HasCollection(ctx, s.collection)
	if err != nil {
		return nil, newError(KindStore, "search", err)
	}
	if !exists {
		log.Printf("[pipeline] collection %s does not exist, returning no results", s.collection)
		return nil, nil
	}

	vec, err := s.embedder.Encode(ctx, query, true)
	if err != nil {
		return nil, newError(KindModel, "search", err)
	}

	raw, err := s.client.Search(ctx, s.collection, vec, limit)
	if err != nil {
		return nil, newError(KindStore, "search", err)
	}

	hits := make([]SearchHit, len(raw))
	for i, h := range raw {
		hits[i] = SearchHit{
			ID:         h.ID,
			DocumentID: h.DocumentID,
			Title:      h.Title,
			Content:    h.Content,
			Distance:   h.Distance,
			Score:      ScoreFromDistance(h.Distance),
		}
	}
	return hits, nil
}

// ScoreFromDistance maps an L2 distance to a similarity score in (0, 1].
func ScoreFromDistance(distance float64) float64 {
	return 1.0 / (1.0 + distance)
}
