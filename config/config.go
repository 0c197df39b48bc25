// Package config loads the YAML application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lexibase/lexibase/ai"
	"github.com/lexibase/lexibase/chunk"
	"github.com/lexibase/lexibase/indexer"
	"github.com/lexibase/lexibase/resolve"
)

// StorageConfig locates the on-disk index database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// AIConfig configures the embedding and generation services.
type AIConfig struct {
	EmbeddingHost          string `yaml:"embedding_host"`
	GenerationHost         string `yaml:"generation_host"`
	EmbeddingModel         string `yaml:"embedding_model"`
	FallbackEmbeddingModel string `yaml:"fallback_embedding_model"`
	GenerationModel        string `yaml:"generation_model"`
	TokenEnv               string `yaml:"token_env"`
	TimeoutSecs            int    `yaml:"timeout_secs"`
}

// ChunkingConfig configures how documents are split into fragments.
// Overlap is a pointer so an explicit zero in the YAML is distinguishable
// from an absent key.
type ChunkingConfig struct {
	MaxChars int  `yaml:"max_chars"`
	Overlap  *int `yaml:"overlap"`
}

// OverlapChars returns the configured chunk overlap.
func (c *ChunkingConfig) OverlapChars() int {
	if c.Overlap == nil {
		return chunk.DefaultOverlap
	}
	return *c.Overlap
}

// IndexerConfig configures embedding batching and retry during builds.
type IndexerConfig struct {
	BatchSize          int    `yaml:"batch_size"`
	MaxRetries         int    `yaml:"max_retries"`
	RetryBaseDelaySecs int    `yaml:"retry_base_delay_secs"`
	MismatchPolicy     string `yaml:"mismatch_policy"`
}

// ResolverConfig configures query resolution. Threshold is a pointer so
// an explicit zero in the YAML is distinguishable from an absent key.
type ResolverConfig struct {
	TopK           int      `yaml:"top_k"`
	Threshold      *float32 `yaml:"threshold"`
	MinAnswerWords int      `yaml:"min_answer_words"`
}

// ConfidenceThreshold returns the configured similarity cutoff.
func (c *ResolverConfig) ConfidenceThreshold() float32 {
	if c.Threshold == nil {
		return resolve.DefaultThreshold
	}
	return *c.Threshold
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Storage  StorageConfig  `yaml:"storage"`
	AI       AIConfig       `yaml:"ai"`
	Chunking ChunkingConfig `yaml:"chunking"`
	Indexer  IndexerConfig  `yaml:"indexer"`
	Resolver ResolverConfig `yaml:"resolver"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

// Validate checks cross-field constraints not covered by defaults.
func (c *AppConfig) Validate() error {
	overlap := c.Chunking.OverlapChars()
	if overlap < 0 || c.Chunking.MaxChars <= 0 || overlap >= c.Chunking.MaxChars {
		return fmt.Errorf("config: chunking overlap %d must be non-negative and smaller than max_chars %d",
			overlap, c.Chunking.MaxChars)
	}
	threshold := c.Resolver.ConfidenceThreshold()
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("config: resolver threshold %.2f must be within [0, 1]", threshold)
	}
	if _, err := c.Indexer.Policy(); err != nil {
		return err
	}
	return nil
}

// AIOptions maps the YAML section onto ai.Config options. The token is
// resolved from the environment variable named by token_env.
func (c *AIConfig) AIOptions() []ai.ConfigOption {
	opts := []ai.ConfigOption{
		ai.WithEmbeddingHost(c.EmbeddingHost),
		ai.WithGenerationHost(c.GenerationHost),
		ai.WithEmbeddingModel(c.EmbeddingModel),
		ai.WithFallbackEmbeddingModel(c.FallbackEmbeddingModel),
		ai.WithGenerationModel(c.GenerationModel),
		ai.WithRequestTimeout(time.Duration(c.TimeoutSecs) * time.Second),
	}
	if token := os.Getenv(c.TokenEnv); token != "" {
		opts = append(opts, ai.WithToken(token))
	}
	return opts
}

// Policy translates the mismatch_policy string into an indexer policy.
func (c *IndexerConfig) Policy() (indexer.MismatchPolicy, error) {
	switch c.MismatchPolicy {
	case "", "warn":
		return indexer.MismatchWarn, nil
	case "fail":
		return indexer.MismatchFail, nil
	default:
		return 0, fmt.Errorf("config: unknown mismatch_policy %q (want warn or fail)", c.MismatchPolicy)
	}
}

// RetryBaseDelay returns the configured backoff base.
func (c *IndexerConfig) RetryBaseDelay() time.Duration {
	return time.Duration(c.RetryBaseDelaySecs) * time.Second
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "lexibase.db"
	}

	defaults := ai.DefaultConfig()
	if cfg.AI.EmbeddingHost == "" {
		cfg.AI.EmbeddingHost = defaults.EmbeddingHost
	}
	if cfg.AI.GenerationHost == "" {
		cfg.AI.GenerationHost = defaults.GenerationHost
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = defaults.EmbeddingModel
	}
	if cfg.AI.FallbackEmbeddingModel == "" {
		cfg.AI.FallbackEmbeddingModel = defaults.FallbackEmbeddingModel
	}
	if cfg.AI.GenerationModel == "" {
		cfg.AI.GenerationModel = defaults.GenerationModel
	}
	if cfg.AI.TokenEnv == "" {
		cfg.AI.TokenEnv = "LEXIBASE_API_TOKEN"
	}
	if cfg.AI.TimeoutSecs == 0 {
		cfg.AI.TimeoutSecs = 60
	}

	if cfg.Chunking.MaxChars == 0 {
		cfg.Chunking.MaxChars = chunk.DefaultMaxChars
	}
	if cfg.Chunking.Overlap == nil {
		overlap := chunk.DefaultOverlap
		cfg.Chunking.Overlap = &overlap
	}

	if cfg.Indexer.BatchSize == 0 {
		cfg.Indexer.BatchSize = 8
	}
	if cfg.Indexer.MaxRetries == 0 {
		cfg.Indexer.MaxRetries = 4
	}
	if cfg.Indexer.RetryBaseDelaySecs == 0 {
		cfg.Indexer.RetryBaseDelaySecs = 5
	}

	if cfg.Resolver.TopK == 0 {
		cfg.Resolver.TopK = resolve.DefaultTopK
	}
	if cfg.Resolver.Threshold == nil {
		threshold := resolve.DefaultThreshold
		cfg.Resolver.Threshold = &threshold
	}
	if cfg.Resolver.MinAnswerWords == 0 {
		cfg.Resolver.MinAnswerWords = resolve.DefaultMinAnswerWords
	}
}
