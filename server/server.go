// Package server exposes the document ingest and similarity search
// pipelines over HTTP.
package server

import (
	"net/http"

	"github.com/hubenschmidt/go-vecdoc/chunk"
	"github.com/hubenschmidt/go-vecdoc/embed"
	"github.com/hubenschmidt/go-vecdoc/monitor"
	"github.com/hubenschmidt/go-vecdoc/pipeline"
	"github.com/hubenschmidt/go-vecdoc/store"
)

// Config configures a new Server instance.
type Config struct {
	AppName    string
	Version    string
	Embedder   embed.Embedder
	Store      store.Client
	Collection string // collection searched and written by the document API

	JWTEnabled bool
	JWTSecret  string

	Collector monitor.Collector // optional; nil disables metrics
}

// Server is the HTTP server for the document vector API.
type Server struct {
	appName   string
	version   string
	embedder  embed.Embedder
	chunker   *chunk.Chunker
	ingester  *pipeline.Ingester
	searcher  *pipeline.Searcher
	auth      *authenticator
	collector monitor.Collector
}

// New creates a Server wiring the chunker, pipelines, and authenticator
// from the given configuration.
func New(cfg Config) *Server {
	collector := cfg.Collector
	if collector == nil {
		collector = monitor.NewNoOpCollector()
	}

	chunker := chunk.New(cfg.Embedder)

	return &Server{
		appName:   cfg.AppName,
		version:   cfg.Version,
		embedder:  cfg.Embedder,
		chunker:   chunker,
		ingester:  pipeline.NewIngester(chunker, cfg.Store, cfg.Collection, collector),
		searcher:  pipeline.NewSearcher(cfg.Embedder, cfg.Store, cfg.Collection, collector),
		auth:      newAuthenticator(cfg.JWTEnabled, cfg.JWTSecret),
		collector: collector,
	}
}

// Handler returns an http.Handler for all routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/v1/documents", s.auth.require(s.handleIngest))
	mux.HandleFunc("GET /api/v1/documents/search", s.auth.require(s.handleSearchGet))
	mux.HandleFunc("POST /api/v1/documents/search", s.auth.require(s.handleSearchPost))

	mux.HandleFunc("POST /api/v1/embedding", s.handleEmbedding)
	mux.HandleFunc("POST /api/v1/embeddings", s.handleEmbeddings)

	mux.HandleFunc("POST /api/v1/auth/verify", s.auth.require(s.handleAuthVerify))
	mux.HandleFunc("GET /api/v1/metrics/summary", s.handleMetricsSummary)

	return corsMiddleware(requestIDMiddleware(mux))
}
