package mock

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"sync"
)

// ErrEmbedFailed is the default error returned by failure injection.
var ErrEmbedFailed = errors.New("mock embedding failure")

// Embedder is a test double for ai.Embedder.
// It allows custom behavior injection via function fields.
type Embedder struct {
	// EmbedTextFunc is called by EmbedText if set.
	// If nil, uses default deterministic behavior.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedTextsFunc is called by EmbedTexts if set.
	// If nil, uses default deterministic behavior.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	// FailTimes makes the first N calls fail with ErrEmbedFailed before
	// the default behavior resumes. Used for retry and fallback tests.
	FailTimes int

	model string
	dim   int

	mu        sync.Mutex
	callCount int
	failed    int
}

// NewEmbedder creates a mock embedder producing deterministic unit vectors
// of the given dimension.
// Note: Returns concrete type to allow test assertions.
func NewEmbedder(model string, dim int) *Embedder {
	if dim <= 0 {
		dim = 384
	}
	return &Embedder{model: model, dim: dim}
}

// Model returns the configured model identifier.
func (m *Embedder) Model() string {
	return m.model
}

// EmbedText generates a deterministic embedding based on text hash.
func (m *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := m.recordCall(); err != nil {
		return nil, err
	}

	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}

	return DeterministicVector(text, m.dim), nil
}

// EmbedTexts generates deterministic embeddings for multiple texts.
func (m *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if err := m.recordCall(); err != nil {
		return nil, err
	}

	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = DeterministicVector(text, m.dim)
	}
	return vectors, nil
}

// CallCount returns the number of times any embed method was called,
// including calls that failed via FailTimes.
func (m *Embedder) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears call counts and injected behavior.
func (m *Embedder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.failed = 0
	m.FailTimes = 0
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
}

func (m *Embedder) recordCall() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	if m.failed < m.FailTimes {
		m.failed++
		return ErrEmbedFailed
	}
	return nil
}

// DeterministicVector creates a deterministic unit embedding vector from
// text. It uses FNV hash so the same text always produces the same vector.
func DeterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		// LCG constants
		seed = seed*1664525 + 1013904223
		vector[i] = float32(seed%1000)/500.0 - 1.0
	}

	// Normalize to unit length
	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares > 0 {
		inv := float32(1.0 / math.Sqrt(sumSquares))
		for i := range vector {
			vector[i] *= inv
		}
	}

	return vector
}
