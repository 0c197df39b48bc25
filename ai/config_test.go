package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "all-MiniLM-L6-v2", cfg.EmbeddingModel)
	assert.NotEqual(t, cfg.EmbeddingModel, cfg.FallbackEmbeddingModel)
}

func TestNewConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://localhost:9100"),
		WithEmbeddingModel("text-embedding-3-small"),
		WithFallbackEmbeddingModel("text-embedding-3-large"),
		WithGenerationModel("gpt-4o-mini"),
		WithToken("sk-test"),
		WithRequestTimeout(10*time.Second),
	)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:9100/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:9100/v1", cfg.GenerationHost)
	assert.Equal(t, "sk-test", cfg.Token)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestConfigNormalize(t *testing.T) {
	t.Run("adds v1 suffix", func(t *testing.T) {
		cfg := &Config{EmbeddingHost: "http://host:1234/", GenerationHost: "http://host:1234"}
		cfg.Normalize()
		assert.Equal(t, "http://host:1234/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://host:1234/v1", cfg.GenerationHost)
	})

	t.Run("keeps existing v1 suffix", func(t *testing.T) {
		cfg := &Config{EmbeddingHost: "http://host:1234/v1"}
		cfg.Normalize()
		assert.Equal(t, "http://host:1234/v1", cfg.EmbeddingHost)
	})

	t.Run("fills token and timeout defaults", func(t *testing.T) {
		cfg := &Config{}
		cfg.Normalize()
		assert.Equal(t, "none", cfg.Token)
		assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing embedding host", func(c *Config) { c.EmbeddingHost = "" }},
		{"missing generation host", func(c *Config) { c.GenerationHost = "" }},
		{"missing embedding model", func(c *Config) { c.EmbeddingModel = "" }},
		{"missing generation model", func(c *Config) { c.GenerationModel = "" }},
		{"fallback equals primary", func(c *Config) { c.FallbackEmbeddingModel = c.EmbeddingModel }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	t.Run("empty fallback disables the tier", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.FallbackEmbeddingModel = ""
		assert.NoError(t, cfg.Validate())
	})
}
