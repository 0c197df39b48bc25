package indexer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/lexibase/lexibase/ai"
	"github.com/lexibase/lexibase/chunk"
	"github.com/lexibase/lexibase/core"
	"github.com/lexibase/lexibase/search"
	"github.com/lexibase/lexibase/storage"
	"github.com/panjf2000/ants/v2"
)

const (
	defaultBatchSize  = 8
	defaultMaxRetries = 4
	defaultBaseDelay  = 5 * time.Second
)

// Builder turns a document corpus into a persisted, searchable index.
// Documents are chunked concurrently, embedded in batches with retry and
// model fallback, and published atomically through the repository.
type Builder struct {
	repo           storage.IndexRepository
	provider       ai.Provider
	maxChars       int
	overlap        int
	batchSize      int
	maxRetries     int
	retryBaseDelay time.Duration
	policy         MismatchPolicy
	pool           *ants.Pool
	progressWriter io.Writer
	logger         *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithChunking sets the chunk window size and overlap in characters.
func WithChunking(maxChars, overlap int) Option {
	return func(b *Builder) error {
		if overlap < 0 || maxChars <= 0 || overlap >= maxChars {
			return fmt.Errorf("%w: maxChars=%d overlap=%d", chunk.ErrConfig, maxChars, overlap)
		}
		b.maxChars = maxChars
		b.overlap = overlap
		return nil
	}
}

// WithBatchSize sets how many fragments are sent per embedding request.
func WithBatchSize(size int) Option {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}
		b.batchSize = size
		return nil
	}
}

// WithRetry sets the per-batch retry budget and base backoff delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(b *Builder) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		b.maxRetries = maxAttempts
		b.retryBaseDelay = baseDelay
		return nil
	}
}

// WithMismatchPolicy sets how embedding count mismatches are handled.
// Default is MismatchWarn.
func WithMismatchPolicy(policy MismatchPolicy) Option {
	return func(b *Builder) error {
		b.policy = policy
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent chunking.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}
		if b.pool != nil {
			b.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		b.pool = pool
		return nil
	}
}

// WithProgress enables progress reporting to the given writer.
func WithProgress(writer io.Writer) Option {
	return func(b *Builder) error {
		b.progressWriter = writer
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger.With("component", "index_builder")
		return nil
	}
}

// NewBuilder creates a Builder with the given repository and provider.
func NewBuilder(repo storage.IndexRepository, provider ai.Provider, opts ...Option) (*Builder, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		repo:           repo,
		provider:       provider,
		maxChars:       chunk.DefaultMaxChars,
		overlap:        chunk.DefaultOverlap,
		batchSize:      defaultBatchSize,
		maxRetries:     defaultMaxRetries,
		retryBaseDelay: defaultBaseDelay,
		policy:         MismatchWarn,
		pool:           pool,
		logger:         slog.Default().With("component", "index_builder"),
	}

	for _, opt := range opts {
		if optErr := opt(b); optErr != nil {
			b.Release()
			return nil, optErr
		}
	}

	return b, nil
}

// Release releases the chunking worker pool.
// The builder should not be used after calling Release.
func (b *Builder) Release() {
	if b.pool != nil {
		b.pool.Release()
	}
}

// Build chunks, embeds, and persists the given documents as the new
// current index. Returns a report describing what was built.
func (b *Builder) Build(ctx context.Context, docs []core.Document) (*core.BuildReport, error) {
	for i := range docs {
		if err := core.ValidateDocument(&docs[i]); err != nil {
			return nil, err
		}
	}

	fragments, err := b.chunkAll(docs)
	if err != nil {
		return nil, err
	}
	if len(fragments) == 0 {
		return nil, ErrNoFragments
	}

	b.logger.Info("corpus chunked", "documents", len(docs), "fragments", len(fragments))

	texts := make([]string, len(fragments))
	for i := range fragments {
		texts[i] = fragments[i].Text
	}

	vectors, embeddedIdx, model, err := b.embedWithFallback(ctx, texts)
	if err != nil {
		return nil, err
	}

	if len(embeddedIdx) != len(fragments) {
		b.logger.Warn("dropping fragments without embeddings",
			"fragments", len(fragments), "embedded", len(embeddedIdx))
		// Keep only fragments that actually received a vector, so row i of
		// both slices always describes the same fragment. Ids are reassigned
		// to stay dense.
		aligned := make([]core.Fragment, len(embeddedIdx))
		for i, idx := range embeddedIdx {
			aligned[i] = fragments[idx]
			aligned[i].Id = core.ID(i)
		}
		fragments = aligned
	}
	if len(fragments) == 0 {
		return nil, ErrNoFragments
	}

	for i := range vectors {
		vectors[i] = search.NormalizeVector(vectors[i])
	}

	meta := &core.IndexMeta{
		Dimension:     len(vectors[0]),
		FragmentCount: len(fragments),
		DocumentCount: len(docs),
		Model:         model,
		Fingerprint:   corpusFingerprint(fragments),
		BuiltAt:       time.Now().UTC(),
	}

	artifact := &core.IndexArtifact{
		Fragments: fragments,
		Vectors:   vectors,
		Meta:      meta,
	}
	if err := b.repo.Save(ctx, artifact); err != nil {
		return nil, err
	}

	b.logger.Info("index built",
		"documents", meta.DocumentCount,
		"fragments", meta.FragmentCount,
		"dimension", meta.Dimension,
		"model", meta.Model)

	return &core.BuildReport{
		DocumentCount: meta.DocumentCount,
		FragmentCount: meta.FragmentCount,
		Dimension:     meta.Dimension,
		Model:         meta.Model,
		Fingerprint:   meta.Fingerprint,
	}, nil
}

// chunkAll splits every document concurrently and assembles the fragments
// in document order with dense sequential ids.
func (b *Builder) chunkAll(docs []core.Document) ([]core.Fragment, error) {
	type result struct {
		pieces []string
		err    error
	}
	results := make([]result, len(docs))

	var wg sync.WaitGroup
	for i := range docs {
		wg.Add(1)
		idx := i
		err := b.pool.Submit(func() {
			defer wg.Done()
			pieces, err := chunk.Split(docs[idx].Text, b.maxChars, b.overlap)
			results[idx] = result{pieces: pieces, err: err}
		})
		if err != nil {
			wg.Done()
			results[idx] = result{err: err}
		}
	}
	wg.Wait()

	var fragments []core.Fragment
	for i := range docs {
		if results[i].err != nil {
			return nil, fmt.Errorf("chunking document %s: %w", docs[i].ID, results[i].err)
		}
		pieces := results[i].pieces
		for n, piece := range pieces {
			title := docs[i].Title
			if len(pieces) > 1 {
				title = fmt.Sprintf("%s - Part %d", docs[i].Title, n+1)
			}
			fragments = append(fragments, core.Fragment{
				Id:          core.ID(len(fragments)),
				DocumentID:  docs[i].ID,
				Title:       title,
				Text:        piece,
				SourceLabel: docs[i].SourceLabel,
			})
		}
	}
	return fragments, nil
}

// embedWithFallback tries each embedder in provider order until one
// embeds the full corpus. Returns the vectors, the input indexes they
// cover, and the model that produced them.
func (b *Builder) embedWithFallback(ctx context.Context, texts []string) ([][]float32, []int, string, error) {
	embedders := b.provider.Embedders()
	if len(embedders) == 0 {
		return nil, nil, "", ErrNoEmbedders
	}

	var lastErr error
	for i, embedder := range embedders {
		if i > 0 {
			b.logger.Warn("falling back to secondary embedding model",
				"model", embedder.Model(), "previousError", lastErr)
		}

		var progress *ProgressTracker
		if b.progressWriter != nil {
			progress = NewProgressTracker(b.progressWriter, len(texts), b.batchSize)
			progress.Start()
		}

		be := &batchEmbedder{
			embedder:       embedder,
			batchSize:      b.batchSize,
			maxRetries:     b.maxRetries,
			retryBaseDelay: b.retryBaseDelay,
			policy:         b.policy,
			logger:         b.logger,
			progress:       progress,
		}

		vectors, embeddedIdx, err := be.embedAll(ctx, texts)
		if err == nil {
			if progress != nil {
				progress.Finish()
			}
			return vectors, embeddedIdx, embedder.Model(), nil
		}
		if ctx.Err() != nil {
			return nil, nil, "", err
		}
		lastErr = err
	}

	return nil, nil, "", fmt.Errorf("%w: %w", ErrEmbeddingFailed, lastErr)
}

func corpusFingerprint(fragments []core.Fragment) core.ID {
	var sb strings.Builder
	for i := range fragments {
		sb.WriteString(fragments[i].DocumentID)
		sb.WriteByte(0)
		sb.WriteString(fragments[i].Text)
		sb.WriteByte(0)
	}
	return core.IDFromContent(sb.String())
}
