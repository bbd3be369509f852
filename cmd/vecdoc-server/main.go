package main

import (
	"context"
	"log"
	"net/http"

	"github.com/hubenschmidt/go-vecdoc/config"
	"github.com/hubenschmidt/go-vecdoc/embed"
	"github.com/hubenschmidt/go-vecdoc/monitor"
	"github.com/hubenschmidt/go-vecdoc/server"
	"github.com/hubenschmidt/go-vecdoc/store"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[config] %v", err)
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		log.Fatalf("[embed] %v", err)
	}
	log.Printf("[embed] provider=%s model=%s dimension=%d",
		cfg.EmbedProvider, embedder.ModelName(), embedder.Dimension())

	client, err := store.Open(cfg.StoreDSN)
	if err != nil {
		log.Fatalf("[store] %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	manager := store.NewManager(client)
	if _, err := manager.EnsureCollection(ctx, cfg.Collection, embedder.Dimension(), false); err != nil {
		log.Fatalf("[store] ensure collection: %v", err)
	}
	// Search still works without the index registration, so a failure here
	// is not fatal.
	if err := manager.EnsureIndex(ctx, cfg.Collection); err != nil {
		log.Printf("[store] ensure index: %v", err)
	}

	srv := server.New(server.Config{
		AppName:    cfg.AppName,
		Version:    cfg.Version,
		Embedder:   embedder,
		Store:      client,
		Collection: cfg.Collection,
		JWTEnabled: cfg.JWTEnabled,
		JWTSecret:  cfg.JWTSecret,
		Collector:  monitor.NewInMemoryCollector(),
	})

	addr := cfg.ServerAddress()
	log.Printf("Starting %s %s on http://%s", cfg.AppName, cfg.Version, addr)
	log.Fatal(http.ListenAndServe(addr, srv.Handler()))
}

func buildEmbedder(cfg config.Config) (embed.Embedder, error) {
	switch cfg.EmbedProvider {
	case "openai":
		return embed.NewOpenAI(cfg.OpenAIAPIKey, cfg.EmbedModel)
	case "ollama":
		return embed.NewOllama(cfg.OllamaURL, cfg.EmbedModel), nil
	default:
		return embed.NewLocal(0, 0), nil
	}
}
