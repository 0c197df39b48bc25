// Copyright 2025 Lexibase Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"log/slog"

	"github.com/lexibase/lexibase/ai"
)

// Provider implements ai.Provider using OpenAI-compatible services.
// It manages the primary embedder, the optional fallback embedder, and
// the generator.
type Provider struct {
	config    *ai.Config
	embedders []ai.Embedder
	generator *Generator
	logger    *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	primary, err := newEmbedder(config, config.EmbeddingModel)
	if err != nil {
		return nil, err
	}

	embedders := []ai.Embedder{primary}
	if config.FallbackEmbeddingModel != "" {
		fallback, err := newEmbedder(config, config.FallbackEmbeddingModel)
		if err != nil {
			return nil, err
		}
		embedders = append(embedders, fallback)
	}

	generator, err := newGenerator(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:    config,
		embedders: embedders,
		generator: generator,
		logger:    slog.Default().With("component", "openai-provider"),
	}, nil
}

// Embedders returns the ordered embedding strategies, primary first.
func (p *Provider) Embedders() []ai.Embedder {
	return p.embedders
}

// Generator returns the text generation service.
func (p *Provider) Generator() ai.Generator {
	return p.generator
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
