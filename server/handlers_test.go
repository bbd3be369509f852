package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubenschmidt/go-vecdoc/embed"
	"github.com/hubenschmidt/go-vecdoc/monitor"
	"github.com/hubenschmidt/go-vecdoc/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	embedder := embed.NewLocal(0, 0)
	client := store.NewMemoryClient()
	require.NoError(t, client.CreateCollection(context.Background(), "documents", embedder.Dimension()))

	return New(Config{
		AppName:    "vecdoc",
		Version:    "test",
		Embedder:   embedder,
		Store:      client,
		Collection: "documents",
		Collector:  monitor.NewInMemoryCollector(),
	})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := doJSON(t, h, "GET", "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[HealthResponse](t, rec)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "vecdoc", resp.AppName)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRootEndpoint(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := doJSON(t, h, "GET", "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[RootResponse](t, rec).Message, "vecdoc")
}

func TestIngestAndSearchRoundTrip(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := doJSON(t, h, "POST", "/api/v1/documents", DocumentRequest{
		DocumentID: "doc-1",
		Title:      "Gophers",
		Content:    "goroutines channels interfaces structs",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	ingest := decode[DocumentResponse](t, rec)
	assert.Equal(t, "success", ingest.Status)
	assert.Equal(t, "doc-1", ingest.DocumentID)
	assert.Equal(t, 1, ingest.ChunksStored)

	rec = doJSON(t, h, "POST", "/api/v1/documents/search", SearchRequest{
		Query: "goroutines channels",
		Limit: 3,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	search := decode[SearchResponse](t, rec)
	require.NotEmpty(t, search.Results)
	assert.Equal(t, "doc-1", search.Results[0].DocumentID)
	assert.Equal(t, "Gophers", search.Results[0].Title)
	assert.Greater(t, search.Results[0].Score, 0.0)
}

func TestSearchGetQueryParams(t *testing.T) {
	h := newTestServer(t).Handler()

	doJSON(t, h, "POST", "/api/v1/documents", DocumentRequest{
		DocumentID: "doc-1", Content: "alpha beta gamma",
	})

	rec := doJSON(t, h, "GET", "/api/v1/documents/search?query=alpha+beta&limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[SearchResponse](t, rec).Results)

	rec = doJSON(t, h, "GET", "/api/v1/documents/search?query=x&limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIngestEmptyContentRejected(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := doJSON(t, h, "POST", "/api/v1/documents", DocumentRequest{
		DocumentID: "doc-1", Content: "",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decode[ErrorResponse](t, rec).Detail)
}

func TestSearchEmptyQueryRejected(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := doJSON(t, h, "POST", "/api/v1/documents/search", SearchRequest{Query: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchMissingCollectionReturnsEmptyResults(t *testing.T) {
	embedder := embed.NewLocal(0, 0)
	// Collection never created, so the pipeline reports no hits.
	srv := New(Config{
		AppName:    "vecdoc",
		Version:    "test",
		Embedder:   embedder,
		Store:      store.NewMemoryClient(),
		Collection: "documents",
	})

	rec := doJSON(t, srv.Handler(), "POST", "/api/v1/documents/search", SearchRequest{Query: "anything"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[SearchResponse](t, rec).Results)
}

func TestEmbeddingEndpoint(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := doJSON(t, h, "POST", "/api/v1/embedding", EmbeddingRequest{
		Content: "embed this text",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[EmbeddingResponse](t, rec)
	assert.Equal(t, "embed this text", resp.Content)
	assert.Len(t, resp.Embedding, embed.DefaultLocalDimension)
	assert.Equal(t, embed.DefaultLocalDimension, resp.Dimension)
	assert.Equal(t, "local-hash-v1", resp.Model)
	assert.Equal(t, 4, resp.NumTokens)
}

func TestEmbeddingEmptyContentRejected(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := doJSON(t, h, "POST", "/api/v1/embedding", EmbeddingRequest{Content: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChunkedEmbeddings(t *testing.T) {
	embedder := embed.NewLocal(0, 128)
	client := store.NewMemoryClient()
	require.NoError(t, client.CreateCollection(context.Background(), "documents", embedder.Dimension()))
	h := New(Config{
		AppName:    "vecdoc",
		Version:    "test",
		Embedder:   embedder,
		Store:      client,
		Collection: "documents",
	}).Handler()

	// 1250 tokens against a 128-token budget yields 10 chunks.
	rec := doJSON(t, h, "POST", "/api/v1/embeddings", EmbeddingRequest{
		Content: strings.Repeat("A", 5000),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[ChunkedEmbeddingResponse](t, rec)
	assert.Equal(t, 10, resp.TotalChunks)
	require.Len(t, resp.Chunks, 10)
	assert.Len(t, resp.Chunks[0].Embedding, embedder.Dimension())

	rec = doJSON(t, h, "POST", "/api/v1/embeddings", EmbeddingRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthVerifyEndpoint(t *testing.T) {
	embedder := embed.NewLocal(0, 0)
	srv := New(Config{
		AppName:    "vecdoc",
		Version:    "test",
		Embedder:   embedder,
		Store:      store.NewMemoryClient(),
		Collection: "documents",
		JWTEnabled: true,
		JWTSecret:  testSecret,
	})
	h := srv.Handler()

	req := httptest.NewRequest("POST", "/api/v1/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testSecret, "alice"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[VerifyResponse](t, rec)
	assert.True(t, resp.Valid)
	assert.Equal(t, "alice", resp.Subject)

	// Protected document routes reject unauthenticated requests too.
	rec = doJSON(t, h, "POST", "/api/v1/documents", DocumentRequest{
		DocumentID: "doc-1", Content: "text",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMetricsSummary(t *testing.T) {
	h := newTestServer(t).Handler()

	doJSON(t, h, "POST", "/api/v1/documents", DocumentRequest{
		DocumentID: "doc-1", Content: "some text to ingest",
	})
	doJSON(t, h, "POST", "/api/v1/documents/search", SearchRequest{Query: "some text"})

	rec := doJSON(t, h, "GET", "/api/v1/metrics/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	summary := decode[monitor.Summary](t, rec)
	assert.Equal(t, 2, summary.TotalOps)
	assert.Equal(t, 1, summary.OpsByName["ingest"])
	assert.Equal(t, 1, summary.OpsByName["search"])
}
