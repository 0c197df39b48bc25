package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexibase/lexibase/core"
	"github.com/lexibase/lexibase/storage"
)

func newTestArtifact(t *testing.T, texts ...string) *core.IndexArtifact {
	t.Helper()

	fragments := make([]core.Fragment, len(texts))
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		fragments[i] = core.Fragment{
			Id:          core.ID(i),
			DocumentID:  "doc",
			Title:       "Section 302: Punishment for murder",
			Text:        text,
			SourceLabel: "test",
		}
		vectors[i] = []float32{float32(i), 1, 0}
	}

	return &core.IndexArtifact{
		Fragments: fragments,
		Vectors:   vectors,
		Meta: &core.IndexMeta{
			Dimension:     3,
			FragmentCount: len(texts),
			DocumentCount: 1,
			Model:         "all-MiniLM-L6-v2",
			Fingerprint:   core.ID(99),
			BuiltAt:       time.Now().UTC(),
		},
	}
}

func TestLoadWithoutSave(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	_, err = repo.Load(context.Background())
	assert.ErrorIs(t, err, storage.ErrIndexUnavailable)

	_, err = repo.Meta(context.Background())
	assert.ErrorIs(t, err, storage.ErrIndexUnavailable)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	artifact := newTestArtifact(t, "first fragment", "second fragment", "third fragment")
	require.NoError(t, repo.Save(context.Background(), artifact))

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, artifact.Fragments, loaded.Fragments)
	assert.Equal(t, artifact.Vectors, loaded.Vectors)
	assert.Equal(t, artifact.Meta.Dimension, loaded.Meta.Dimension)
	assert.Equal(t, artifact.Meta.Model, loaded.Meta.Model)
	assert.Equal(t, artifact.Meta.Fingerprint, loaded.Meta.Fingerprint)
}

func TestSaveReplacesPrevious(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	first := newTestArtifact(t, "old one", "old two")
	require.NoError(t, repo.Save(context.Background(), first))

	second := newTestArtifact(t, "new one", "new two", "new three")
	require.NoError(t, repo.Save(context.Background(), second))

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded.Fragments, 3)
	assert.Equal(t, "new one", loaded.Fragments[0].Text)
	assert.Equal(t, 3, loaded.Meta.FragmentCount)
}

func TestMetaOnly(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	artifact := newTestArtifact(t, "a", "b")
	require.NoError(t, repo.Save(context.Background(), artifact))

	meta, err := repo.Meta(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, meta.FragmentCount)
	assert.Equal(t, "all-MiniLM-L6-v2", meta.Model)
}

func TestSaveRejectsMismatchedCounts(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	artifact := newTestArtifact(t, "a", "b")
	artifact.Vectors = artifact.Vectors[:1]

	err = repo.Save(context.Background(), artifact)
	assert.ErrorIs(t, err, storage.ErrSerializationFailed)
}

func TestSaveRejectsNilArtifact(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	err = repo.Save(context.Background(), nil)
	assert.ErrorIs(t, err, storage.ErrSerializationFailed)
}
