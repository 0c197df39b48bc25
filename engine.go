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


package lexibase

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/lexibase/lexibase/ai"
	"github.com/lexibase/lexibase/ai/openai"
	"github.com/lexibase/lexibase/core"
	"github.com/lexibase/lexibase/indexer"
	"github.com/lexibase/lexibase/resolve"
	"github.com/lexibase/lexibase/search"
	"github.com/lexibase/lexibase/storage"
	"github.com/lexibase/lexibase/storage/badger"
)

// Engine is the top-level facade: it owns the storage backend, the AI
// provider, and the currently published index. Index swaps are atomic;
// in-flight queries keep using the index they started with.
type Engine struct {
	backend  *badger.Backend
	repo     storage.IndexRepository
	provider ai.Provider

	index    atomic.Pointer[search.Index]
	resolver atomic.Pointer[resolve.Resolver]

	resolverOpts []resolve.Option
	builderOpts  []indexer.Option
	logger       *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig     *ai.Config
	provider     ai.Provider
	inMemory     bool
	resolverOpts []resolve.Option
	builderOpts  []indexer.Option
}

// WithAIConfig sets the AI service configuration used to construct the
// default OpenAI-compatible provider. Ignored when WithProvider is given.
func WithAIConfig(cfg *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = cfg
	}
}

// WithProvider injects a pre-built AI provider, typically a mock in tests.
func WithProvider(provider ai.Provider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithInMemory keeps all storage in memory. Intended for tests.
func WithInMemory() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// WithResolverOptions forwards options to every resolver the engine builds.
func WithResolverOptions(opts ...resolve.Option) EngineOption {
	return func(o *engineOptions) {
		o.resolverOpts = append(o.resolverOpts, opts...)
	}
}

// WithBuilderOptions forwards options to every index build.
func WithBuilderOptions(opts ...indexer.Option) EngineOption {
	return func(o *engineOptions) {
		o.builderOpts = append(o.builderOpts, opts...)
	}
}

// New opens or creates an engine at filePath. A previously built index is
// loaded and published; a fresh database starts without one, and queries
// return storage.ErrIndexUnavailable until BuildIndex succeeds.
func New(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	repo, err := badger.NewIndexRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			repo.Close()
			backend.Close()
			return nil, err
		}
	}

	e := &Engine{
		backend:      backend,
		repo:         repo,
		provider:     provider,
		resolverOpts: options.resolverOpts,
		builderOpts:  options.builderOpts,
		logger:       slog.Default().With("component", "engine"),
	}

	if err := e.Reload(context.Background()); err != nil && !errors.Is(err, storage.ErrIndexUnavailable) {
		e.Close()
		return nil, err
	}

	return e, nil
}

// Close releases the provider, repository, and backend.
func (e *Engine) Close() error {
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}
	if err := e.repo.Close(); err != nil {
		e.logger.Error("error closing index repository", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Current returns the published index, or storage.ErrIndexUnavailable if
// none has been built yet. Implements resolve.IndexSource.
func (e *Engine) Current() (*search.Index, error) {
	index := e.index.Load()
	if index == nil {
		return nil, storage.ErrIndexUnavailable
	}
	return index, nil
}

// Meta returns the metadata of the persisted index.
func (e *Engine) Meta(ctx context.Context) (*core.IndexMeta, error) {
	return e.repo.Meta(ctx)
}

// BuildIndex chunks, embeds, and persists the documents, then publishes
// the result as the current index.
func (e *Engine) BuildIndex(ctx context.Context, docs []core.Document) (*core.BuildReport, error) {
	builder, err := indexer.NewBuilder(e.repo, e.provider, e.builderOpts...)
	if err != nil {
		return nil, err
	}
	defer builder.Release()

	report, err := builder.Build(ctx, docs)
	if err != nil {
		return nil, err
	}

	if err := e.Reload(ctx); err != nil {
		return nil, err
	}
	return report, nil
}

// Reload reads the persisted index and atomically publishes it, together
// with a resolver bound to the embedding model the index was built with.
func (e *Engine) Reload(ctx context.Context) error {
	artifact, err := e.repo.Load(ctx)
	if err != nil {
		return err
	}

	index, err := search.FromArtifact(artifact)
	if err != nil {
		return err
	}

	embedder, err := e.embedderForModel(artifact.Meta.Model)
	if err != nil {
		return err
	}

	resolver, err := resolve.NewResolver(e, embedder, e.provider.Generator(), e.resolverOpts...)
	if err != nil {
		return err
	}

	e.index.Store(index)
	e.resolver.Store(resolver)

	e.logger.Info("index loaded",
		"fragments", artifact.Meta.FragmentCount,
		"dimension", artifact.Meta.Dimension,
		"model", artifact.Meta.Model)
	return nil
}

// Resolve answers a question against the published index.
func (e *Engine) Resolve(ctx context.Context, question string) (*core.QueryResult, error) {
	resolver := e.resolver.Load()
	if resolver == nil {
		return nil, storage.ErrIndexUnavailable
	}
	return resolver.Resolve(ctx, question)
}

// embedderForModel selects the provider embedder matching the model the
// index was built with, so query vectors live in the same space as the
// stored ones.
func (e *Engine) embedderForModel(model string) (ai.Embedder, error) {
	embedders := e.provider.Embedders()
	if len(embedders) == 0 {
		return nil, indexer.ErrNoEmbedders
	}
	for _, embedder := range embedders {
		if embedder.Model() == model {
			return embedder, nil
		}
	}
	e.logger.Warn("no embedder matches index model, using primary",
		"indexModel", model, "primary", embedders[0].Model())
	return embedders[0], nil
}
