package storage

import (
	"context"

	"github.com/lexibase/lexibase/core"
)

// IndexRepository persists built indexes and loads them for query serving.
// Implementations must be thread-safe and publish atomically: a crash
// mid-save never leaves a partially-updated index visible to loads.
type IndexRepository interface {
	// Save persists the artifact and atomically publishes it as the
	// current index, replacing any previous one. The artifact's fragment
	// metadata and vector table must be index-aligned by fragment id.
	Save(ctx context.Context, artifact *core.IndexArtifact) error

	// Load reads the current index artifact.
	// Returns ErrIndexUnavailable if no index has ever been published.
	Load(ctx context.Context) (*core.IndexArtifact, error)

	// Meta reads only the metadata of the current index, without loading
	// fragment or vector rows.
	// Returns ErrIndexUnavailable if no index has ever been published.
	Meta(ctx context.Context) (*core.IndexMeta, error)

	// Close releases resources held by the repository.
	Close() error
}
