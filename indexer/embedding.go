package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexibase/lexibase/ai"
)

// MismatchPolicy controls what happens when the embedding service returns
// fewer or more vectors than texts sent in a batch.
type MismatchPolicy int

const (
	// MismatchWarn logs the discrepancy and keeps the aligned prefix.
	MismatchWarn MismatchPolicy = iota
	// MismatchFail aborts the build with ErrCountMismatch.
	MismatchFail
)

// batchEmbedder embeds texts in fixed-size batches with per-batch retry.
type batchEmbedder struct {
	embedder       ai.Embedder
	batchSize      int
	maxRetries     int
	retryBaseDelay time.Duration
	policy         MismatchPolicy
	logger         *slog.Logger
	progress       *ProgressTracker
}

// embedAll embeds every text with the configured model. It returns the
// vectors together with the input indexes they belong to: under
// MismatchWarn a short batch keeps only its aligned prefix, so the
// remaining texts of that batch get no vector and no index entry. Under
// MismatchFail any short batch aborts the run.
func (be *batchEmbedder) embedAll(ctx context.Context, texts []string) ([][]float32, []int, error) {
	vectors := make([][]float32, 0, len(texts))
	embeddedIdx := make([]int, 0, len(texts))

	for start := 0; start < len(texts); start += be.batchSize {
		end := start + be.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		var embedded [][]float32
		err := RetryWithBackoff(ctx, func() error {
			var err error
			embedded, err = be.embedder.EmbedTexts(ctx, batch)
			return err
		}, be.maxRetries, be.retryBaseDelay)
		if err != nil {
			return nil, nil, fmt.Errorf("batch %d-%d failed after %d attempts: %w", start, end, be.maxRetries, err)
		}

		if len(embedded) != len(batch) {
			if be.policy == MismatchFail {
				return nil, nil, fmt.Errorf("%w: batch %d-%d sent %d texts, got %d vectors",
					ErrCountMismatch, start, end, len(batch), len(embedded))
			}
			be.logger.Warn("embedding count mismatch, keeping aligned prefix",
				"model", be.embedder.Model(),
				"sent", len(batch),
				"received", len(embedded))
			if len(embedded) > len(batch) {
				embedded = embedded[:len(batch)]
			}
		}

		for j := range embedded {
			embeddedIdx = append(embeddedIdx, start+j)
		}
		vectors = append(vectors, embedded...)

		be.logger.Debug("embedded batch",
			"model", be.embedder.Model(),
			"range", fmt.Sprintf("%d-%d", start, end),
			"size", len(embedded))

		if be.progress != nil {
			be.progress.Increment(len(batch))
		}
	}

	return vectors, embeddedIdx, nil
}
