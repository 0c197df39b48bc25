package resolve

import (
	"context"
	"log/slog"
	"strings"

	"github.com/lexibase/lexibase/ai"
	"github.com/lexibase/lexibase/core"
	"github.com/lexibase/lexibase/search"
)

const (
	// DefaultTopK is how many fragments are retrieved as context.
	DefaultTopK = 5

	// DefaultThreshold is the minimum best score for a query to be
	// answered from the knowledge base. Exactly at the threshold stays
	// in the knowledge base tier.
	DefaultThreshold float32 = 0.40

	// DefaultMinAnswerWords is the shortest grounded answer accepted
	// before falling back to the ungrounded tier.
	DefaultMinAnswerWords = 5

	temperatureStructural = 0.1
	temperatureGrounded   = 0.15
	temperatureUngrounded = 0.3
)

// IndexSource supplies the current searchable index. The engine
// implements it with an atomically swappable pointer so resolvers always
// see a complete index.
type IndexSource interface {
	Current() (*search.Index, error)
}

// Resolver answers questions with a tiered strategy: exact statute
// lookup first, then vector retrieval gated by a confidence threshold,
// then an ungrounded generative fallback.
type Resolver struct {
	source         IndexSource
	embedder       ai.Embedder
	generator      ai.Generator
	topK           int
	threshold      float32
	minAnswerWords int
	logger         *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTopK sets how many fragments are retrieved as context.
func WithTopK(topK int) Option {
	return func(r *Resolver) {
		if topK > 0 {
			r.topK = topK
		}
	}
}

// WithThreshold sets the minimum best score for knowledge-base answers.
func WithThreshold(threshold float32) Option {
	return func(r *Resolver) {
		r.threshold = threshold
	}
}

// WithMinAnswerWords sets the shortest grounded answer accepted.
func WithMinAnswerWords(words int) Option {
	return func(r *Resolver) {
		if words > 0 {
			r.minAnswerWords = words
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "resolver")
	}
}

// NewResolver creates a Resolver. The embedder must be the model the
// current index was built with.
func NewResolver(source IndexSource, embedder ai.Embedder, generator ai.Generator, opts ...Option) (*Resolver, error) {
	if source == nil {
		return nil, ErrIndexSourceRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	r := &Resolver{
		source:         source,
		embedder:       embedder,
		generator:      generator,
		topK:           DefaultTopK,
		threshold:      DefaultThreshold,
		minAnswerWords: DefaultMinAnswerWords,
		logger:         slog.Default().With("component", "resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve answers the question. Errors from the embedding or generation
// services, including ai.ErrQuotaExceeded, are returned unmodified for
// the caller to map.
func (r *Resolver) Resolve(ctx context.Context, question string) (*core.QueryResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	index, err := r.source.Current()
	if err != nil {
		return nil, err
	}

	// Tier 1: exact statute lookup
	if section, ok := sectionNumber(question); ok {
		matches := index.FindByTitle(titlePattern(section))
		if len(matches) > 0 {
			scored := make([]core.ScoredFragment, len(matches))
			for i, fragment := range matches {
				scored[i] = core.ScoredFragment{Fragment: fragment, Score: 1.0}
			}

			r.logger.Debug("structural lookup hit", "section", section, "matches", len(scored))

			answer, err := r.generator.Generate(ctx, buildKBPrompt(joinContext(scored), question), temperatureStructural)
			if err != nil {
				return nil, err
			}
			return &core.QueryResult{
				Answer:  strings.TrimSpace(answer),
				Source:  core.SourceKB,
				Matches: scored,
			}, nil
		}
		r.logger.Debug("structural lookup miss", "section", section)
	}

	// Tier 2: vector retrieval
	queryVector, err := r.embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, err
	}
	matches, err := index.Search(queryVector, r.topK)
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 || matches[0].Score < r.threshold {
		var best float32
		if len(matches) > 0 {
			best = matches[0].Score
		}
		r.logger.Debug("confidence below threshold", "best", best, "threshold", r.threshold)
		return r.resolveUngrounded(ctx, question)
	}

	// Tier 3: grounded generation over retrieved context
	answer, err := r.generator.Generate(ctx, buildKBPrompt(joinContext(matches), question), temperatureGrounded)
	if err != nil {
		return nil, err
	}
	answer = strings.TrimSpace(answer)

	// Tier 4: the model judged the context useless, or the answer is
	// too thin to trust
	if strings.Contains(answer, NotFoundSentinel) || len(strings.Fields(answer)) < r.minAnswerWords {
		r.logger.Debug("grounded answer rejected", "words", len(strings.Fields(answer)))
		return r.resolveUngrounded(ctx, question)
	}

	return &core.QueryResult{
		Answer:  answer,
		Source:  core.SourceKB,
		Matches: matches,
	}, nil
}

func (r *Resolver) resolveUngrounded(ctx context.Context, question string) (*core.QueryResult, error) {
	answer, err := r.generator.Generate(ctx, buildWebPrompt(question), temperatureUngrounded)
	if err != nil {
		return nil, err
	}
	return &core.QueryResult{
		Answer: strings.TrimSpace(answer),
		Source: core.SourceWeb,
	}, nil
}
