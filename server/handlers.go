package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/hubenschmidt/go-vecdoc/embed"
	"github.com/hubenschmidt/go-vecdoc/pipeline"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Message: s.appName + " " + s.version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		AppName: s.appName,
		Version: s.version,
	})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	count, err := s.ingester.Ingest(r.Context(), pipeline.Document{
		ID:      req.DocumentID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		if pipeline.KindOf(err) == pipeline.KindInput {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[server] ingest failed for document %s: %v", req.DocumentID, err)
		writeJSONError(w, http.StatusInternalServerError, "failed to store document")
		return
	}

	writeJSON(w, http.StatusOK, DocumentResponse{
		Status:       "success",
		DocumentID:   req.DocumentID,
		ChunksStored: count,
	})
}

func (s *Server) handleSearchGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid limit: "+raw)
			return
		}
		limit = n
	}
	s.search(w, r, q.Get("query"), limit)
}

func (s *Server) handleSearchPost(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	s.search(w, r, req.Query, req.Limit)
}

// search runs the query and degrades model and store failures to an empty
// result set, so a broken backend reads as "nothing found" rather than an
// outage. Bad input still fails loudly.
func (s *Server) search(w http.ResponseWriter, r *http.Request, query string, limit int) {
	hits, err := s.searcher.Search(r.Context(), query, limit)
	if err != nil {
		if pipeline.KindOf(err) == pipeline.KindInput {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[server] search failed: %v", err)
		hits = nil
	}
	if hits == nil {
		hits = []pipeline.SearchHit{}
	}

	writeJSON(w, http.StatusOK, SearchResponse{Query: query, Results: hits})
}

// handleEmbedding embeds the whole content as one unnormalized vector, for
// short texts that need no chunking.
func (s *Server) handleEmbedding(w http.ResponseWriter, r *http.Request) {
	var req EmbeddingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	content := strings.TrimSpace(req.Content)
	vec, err := s.embedder.Encode(r.Context(), content, false)
	if err != nil {
		s.writeEmbedError(w, err)
		return
	}

	numTokens, _ := s.embedder.TokenizerInfo(content)
	writeJSON(w, http.StatusOK, EmbeddingResponse{
		Content:   content,
		Embedding: vec,
		Dimension: s.embedder.Dimension(),
		Model:     s.embedder.ModelName(),
		NumTokens: numTokens,
	})
}

// handleEmbeddings chunks the content and returns one normalized embedding
// per chunk, for long texts.
func (s *Server) handleEmbeddings(w http.ResponseWriter, r *http.Request) {
	var req EmbeddingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		writeJSONError(w, http.StatusBadRequest, "content must not be empty")
		return
	}

	chunks, err := s.chunker.Chunk(r.Context(), content)
	if err != nil {
		s.writeEmbedError(w, err)
		return
	}
	if len(chunks) == 0 {
		writeJSONError(w, http.StatusInternalServerError, "failed to generate embeddings")
		return
	}

	out := make([]ChunkEmbedding, len(chunks))
	for i, c := range chunks {
		out[i] = ChunkEmbedding{Text: c.Text, Embedding: c.Embedding}
	}

	writeJSON(w, http.StatusOK, ChunkedEmbeddingResponse{
		Content:     content,
		TotalChunks: len(out),
		Chunks:      out,
		Dimension:   s.embedder.Dimension(),
		Model:       s.embedder.ModelName(),
	})
}

func (s *Server) writeEmbedError(w http.ResponseWriter, err error) {
	if errors.Is(err, embed.ErrEmptyInput) {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	log.Printf("[server] embedding failed: %v", err)
	writeJSONError(w, http.StatusInternalServerError, "failed to generate embedding")
}

func (s *Server) handleAuthVerify(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VerifyResponse{
		Valid:   true,
		Subject: subjectFrom(r.Context()),
	})
}

func (s *Server) handleMetricsSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.collector.Flush())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}
