package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/lexibase/lexibase/core"
	"github.com/lexibase/lexibase/storage"
)

// IndexRepository implements storage.IndexRepository for BadgerDB.
//
// Each Save writes the full artifact under a fresh generation prefix and
// then flips the current-generation pointer in a single transaction, so a
// reader either sees the complete previous index or the complete new one.
type IndexRepository struct {
	backend *Backend
	genSeq  *badger.Sequence
	logger  *slog.Logger
}

var _ storage.IndexRepository = (*IndexRepository)(nil)

// NewIndexRepository creates a new IndexRepository.
func NewIndexRepository(backend *Backend) (*IndexRepository, error) {
	genSeq, err := backend.GetSequence(generationSeq)
	if err != nil {
		return nil, err
	}

	return &IndexRepository{
		backend: backend,
		genSeq:  genSeq,
		logger:  slog.Default().With("component", "index_repository"),
	}, nil
}

// Close releases the generation sequence.
func (r *IndexRepository) Close() error {
	return r.genSeq.Release()
}

// Save persists the artifact and atomically publishes it as the current
// index. The previous generation is removed afterwards on a best-effort
// basis; a failed cleanup never fails the save.
func (r *IndexRepository) Save(ctx context.Context, artifact *core.IndexArtifact) error {
	if artifact == nil || artifact.Meta == nil {
		return fmt.Errorf("%w: nil artifact", storage.ErrSerializationFailed)
	}
	if len(artifact.Fragments) != len(artifact.Vectors) {
		return fmt.Errorf("%w: %d fragments but %d vectors",
			storage.ErrSerializationFailed, len(artifact.Fragments), len(artifact.Vectors))
	}

	generation, err := r.nextGeneration()
	if err != nil {
		return err
	}

	// Write all rows outside the pointer transaction. The generation is
	// invisible until the pointer flips, so a partial write batch leaves
	// only unreferenced garbage behind.
	wb := r.backend.NewWriteBatch()
	defer wb.Cancel()

	for i := range artifact.Fragments {
		if err := ctx.Err(); err != nil {
			return err
		}
		fragment := &artifact.Fragments[i]
		if err := wb.Set(makeFragmentKey(generation, fragment.Id), storage.MarshalFragment(fragment)); err != nil {
			return err
		}
		if err := wb.Set(makeVectorKey(generation, fragment.Id), storage.MarshalVector(artifact.Vectors[i])); err != nil {
			return err
		}
	}
	if err := wb.Set(makeMetaKey(generation), storage.MarshalIndexMeta(artifact.Meta)); err != nil {
		return err
	}
	if err := wb.Flush(); err != nil {
		return err
	}

	var previous uint64
	var hadPrevious bool
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		previous, hadPrevious, err = readCurrentGeneration(tx)
		if err != nil {
			return err
		}
		if err := tx.Set(currentGenKey(), encodeGeneration(generation)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	r.logger.Info("index published",
		"generation", generation,
		"fragments", artifact.Meta.FragmentCount,
		"dimension", artifact.Meta.Dimension)

	if hadPrevious && previous != generation {
		if err := r.dropGeneration(previous); err != nil {
			r.logger.Warn("failed to remove superseded index generation",
				"generation", previous, "error", err)
		}
	}

	return nil
}

// Load reads the current index artifact.
// Returns storage.ErrIndexUnavailable when no index has been published.
func (r *IndexRepository) Load(ctx context.Context) (*core.IndexArtifact, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var artifact *core.IndexArtifact
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		generation, ok, err := readCurrentGeneration(tx)
		if err != nil {
			return err
		}
		if !ok {
			return storage.ErrIndexUnavailable
		}

		meta, err := readMeta(tx, generation)
		if err != nil {
			return err
		}

		fragments, err := readFragments(tx, generation)
		if err != nil {
			return err
		}
		vectors, err := readVectors(tx, generation)
		if err != nil {
			return err
		}

		if len(fragments) != len(vectors) || len(fragments) != meta.FragmentCount {
			return fmt.Errorf("%w: %d fragments, %d vectors, meta says %d",
				storage.ErrCorruptIndex, len(fragments), len(vectors), meta.FragmentCount)
		}

		artifact = &core.IndexArtifact{
			Fragments: fragments,
			Vectors:   vectors,
			Meta:      meta,
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return artifact, nil
}

// Meta reads only the metadata of the current index.
// Returns storage.ErrIndexUnavailable when no index has been published.
func (r *IndexRepository) Meta(ctx context.Context) (*core.IndexMeta, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var meta *core.IndexMeta
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		generation, ok, err := readCurrentGeneration(tx)
		if err != nil {
			return err
		}
		if !ok {
			return storage.ErrIndexUnavailable
		}
		meta, err = readMeta(tx, generation)
		return err
	}, false)
	if err != nil {
		return nil, err
	}

	return meta, nil
}

func (r *IndexRepository) nextGeneration() (uint64, error) {
	generation, err := r.genSeq.Next()
	if err != nil {
		return 0, err
	}
	// BadgerDB sequences can return 0 on first call, so we skip it
	if generation == 0 {
		generation, err = r.genSeq.Next()
		if err != nil {
			return 0, err
		}
	}
	return generation, nil
}

func (r *IndexRepository) dropGeneration(generation uint64) error {
	prefix := makeGenerationPrefix(generation)

	var keys [][]byte
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		return nil
	}, false)
	if err != nil {
		return err
	}

	wb := r.backend.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			return err
		}
	}
	return wb.Flush()
}

func readCurrentGeneration(tx *badger.Txn) (uint64, bool, error) {
	item, err := tx.Get(currentGenKey())
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	var generation uint64
	var ok bool
	err = item.Value(func(val []byte) error {
		generation, ok = decodeGeneration(val)
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	if !ok {
		return 0, false, fmt.Errorf("%w: malformed generation pointer", storage.ErrCorruptIndex)
	}
	return generation, true, nil
}

func readMeta(tx *badger.Txn, generation uint64) (*core.IndexMeta, error) {
	item, err := tx.Get(makeMetaKey(generation))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: missing metadata for generation %d", storage.ErrCorruptIndex, generation)
	}
	if err != nil {
		return nil, err
	}

	var meta *core.IndexMeta
	err = item.Value(func(val []byte) error {
		var err error
		meta, err = storage.UnmarshalIndexMeta(val)
		if err != nil {
			return fmt.Errorf("%w: %w", storage.ErrCorruptIndex, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return meta, nil
}

func readFragments(tx *badger.Txn, generation uint64) ([]core.Fragment, error) {
	var fragments []core.Fragment

	opts := badger.DefaultIteratorOptions
	opts.Prefix = makeRowPrefix(generation, fragmentSegment)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		err := iter.Item().Value(func(val []byte) error {
			fragment, err := storage.UnmarshalFragment(val)
			if err != nil {
				return fmt.Errorf("%w: %w", storage.ErrCorruptIndex, err)
			}
			fragments = append(fragments, *fragment)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return fragments, nil
}

func readVectors(tx *badger.Txn, generation uint64) ([][]float32, error) {
	var vectors [][]float32

	opts := badger.DefaultIteratorOptions
	opts.Prefix = makeRowPrefix(generation, vectorSegment)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		err := iter.Item().Value(func(val []byte) error {
			vector, err := storage.UnmarshalVector(val)
			if err != nil {
				return fmt.Errorf("%w: %w", storage.ErrCorruptIndex, err)
			}
			vectors = append(vectors, vector)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return vectors, nil
}
