package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "documents", cfg.Collection)
	assert.Equal(t, "local", cfg.EmbedProvider)
	assert.False(t, cfg.JWTEnabled)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DSN", ":memory:")
	t.Setenv("COLLECTION_NAME", "notes")
	t.Setenv("JWT_ENABLED", "true")
	t.Setenv("JWT_SECRET_KEY", "s3cret")

	cfg := Load()
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, ":memory:", cfg.StoreDSN)
	assert.Equal(t, "notes", cfg.Collection)
	assert.True(t, cfg.JWTEnabled)
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := Load()
	cfg.Port = 0
	assert.Error(t, cfg.Validate())

	cfg.Port = 70000
	assert.Error(t, cfg.Validate())
}

func TestValidateJWTRequiresSecret(t *testing.T) {
	cfg := Load()
	cfg.JWTEnabled = true
	cfg.JWTSecret = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateOpenAIRequiresKey(t *testing.T) {
	cfg := Load()
	cfg.EmbedProvider = "openai"
	cfg.OpenAIAPIKey = ""
	assert.Error(t, cfg.Validate())

	cfg.OpenAIAPIKey = "sk-test"
	assert.NoError(t, cfg.Validate())
}

func TestValidateUnknownProvider(t *testing.T) {
	cfg := Load()
	cfg.EmbedProvider = "bedrock"
	assert.Error(t, cfg.Validate())
}

func TestServerAddress(t *testing.T) {
	cfg := Config{Host: "127.0.0.1", Port: 8080}
	assert.Equal(t, "127.0.0.1:8080", cfg.ServerAddress())
}

func TestInvalidPortEnvFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	assert.Equal(t, 8000, Load().Port)
}
