// Package config loads service configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start.
type Config struct {
	Host    string
	Port    int
	AppName string
	Version string
	Debug   bool

	// StoreDSN selects the vector store backend: a postgres:// URL, a
	// SQLite file path, or ":memory:".
	StoreDSN   string
	Collection string

	// EmbedProvider is "local", "openai", or "ollama".
	EmbedProvider string
	EmbedModel    string
	OpenAIAPIKey  string
	OllamaURL     string

	JWTEnabled bool
	JWTSecret  string
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment
// variables win over file values.
func Load() Config {
	// Missing .env is fine, env vars alone are enough.
	_ = godotenv.Load()

	return Config{
		Host:    getEnvOr("HOST", "0.0.0.0"),
		Port:    getEnvIntOr("PORT", 8000),
		AppName: getEnvOr("APP_NAME", "vecdoc"),
		Version: getEnvOr("VERSION", "0.1.0"),
		Debug:   getEnvBool("DEBUG"),

		StoreDSN:   getEnvOr("STORE_DSN", "data/vecdoc.db"),
		Collection: getEnvOr("COLLECTION_NAME", "documents"),

		EmbedProvider: getEnvOr("EMBED_PROVIDER", "local"),
		EmbedModel:    os.Getenv("EMBED_MODEL"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OllamaURL:     getEnvOr("OLLAMA_URL", "http://localhost:11434"),

		JWTEnabled: getEnvBool("JWT_ENABLED"),
		JWTSecret:  os.Getenv("JWT_SECRET_KEY"),
	}
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	if c.Collection == "" {
		return fmt.Errorf("config: collection name is empty")
	}
	switch c.EmbedProvider {
	case "local", "openai", "ollama":
	default:
		return fmt.Errorf("config: unknown embed provider %q", c.EmbedProvider)
	}
	if c.EmbedProvider == "openai" && c.OpenAIAPIKey == "" {
		return fmt.Errorf("config: OPENAI_API_KEY is required for the openai provider")
	}
	if c.JWTEnabled && c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET_KEY is required when JWT_ENABLED is set")
	}
	return nil
}

// ServerAddress returns the host:port listen address.
func (c Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True", "yes":
		return true
	}
	return false
}
