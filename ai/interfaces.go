package ai

import "context"

// Embedder converts text into fixed-dimension vectors for semantic
// similarity search. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string,
	// typically a query.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in
	// one provider call. The returned slice is index-aligned with the
	// input texts.
	// Returns an error if the embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// Model returns the model identifier this embedder calls. Indexes are
	// tagged with the model actually used so queries embed with the same
	// model.
	Model() string
}

// Generator produces text from a prompt at a given sampling temperature.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate returns generated text for the prompt. Provider quota
	// exhaustion is reported as an error wrapping ErrQuotaExceeded so
	// callers can distinguish "no answer produced" from a produced answer.
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and
// Generator instances, ensuring they share configuration and resources.
type Provider interface {
	// Embedders returns the ordered embedding strategies: the primary
	// embedder first, then any fallback with a potentially different
	// model and dimensionality. The slice is never empty.
	Embedders() []Embedder

	// Generator returns the text generation service.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
