package server

import "github.com/hubenschmidt/go-vecdoc/pipeline"

// DocumentRequest is the body of POST /api/v1/documents.
type DocumentRequest struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
}

// DocumentResponse reports a completed ingest.
type DocumentResponse struct {
	Status       string `json:"status"`
	DocumentID   string `json:"document_id"`
	ChunksStored int    `json:"chunks_stored"`
}

// SearchRequest is the body of POST /api/v1/documents/search. GET requests
// carry the same fields as query parameters.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// SearchResponse wraps the ranked hits for a query.
type SearchResponse struct {
	Query   string               `json:"query"`
	Results []pipeline.SearchHit `json:"results"`
}

// EmbeddingRequest is the body of POST /api/v1/embedding and
// POST /api/v1/embeddings.
type EmbeddingRequest struct {
	Content string `json:"content"`
}

// EmbeddingResponse carries one raw embedding vector for the whole content.
type EmbeddingResponse struct {
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding"`
	Dimension int       `json:"dimension"`
	Model     string    `json:"model"`
	NumTokens int       `json:"num_tokens"`
}

// ChunkEmbedding is one chunk of content with its normalized embedding.
type ChunkEmbedding struct {
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}

// ChunkedEmbeddingResponse carries per-chunk embeddings for long content.
type ChunkedEmbeddingResponse struct {
	Content     string           `json:"content"`
	TotalChunks int              `json:"total_chunks"`
	Chunks      []ChunkEmbedding `json:"chunks"`
	Dimension   int              `json:"dimension"`
	Model       string           `json:"model"`
}

// VerifyResponse reports the identity extracted from a bearer token.
type VerifyResponse struct {
	Valid   bool   `json:"valid"`
	Subject string `json:"subject"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	AppName string `json:"app_name"`
	Version string `json:"version"`
}

// RootResponse is the body of GET /.
type RootResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the JSON error body shared by all handlers.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
