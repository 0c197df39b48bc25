package search

import (
	"regexp"
	"testing"

	"github.com/lexibase/lexibase/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFragments(n int) []core.Fragment {
	fragments := make([]core.Fragment, n)
	for i := range fragments {
		fragments[i] = core.Fragment{
			Id:         core.ID(i),
			DocumentID: "doc",
			Title:      "Fragment",
			Text:       "text",
		}
	}
	return fragments
}

func TestBuild(t *testing.T) {
	t.Run("valid build", func(t *testing.T) {
		index, err := Build(testFragments(2), [][]float32{{3, 4}, {0, 1}})
		require.NoError(t, err)
		assert.Equal(t, 2, index.Len())
		assert.Equal(t, 2, index.Dimension())

		// Vectors are normalized on build.
		assert.InDelta(t, 0.6, index.Vectors()[0][0], 1e-6)
		assert.InDelta(t, 0.8, index.Vectors()[0][1], 1e-6)
	})

	t.Run("count mismatch", func(t *testing.T) {
		_, err := Build(testFragments(2), [][]float32{{1, 0}})
		assert.ErrorIs(t, err, ErrCountMismatch)
	})

	t.Run("mixed dimensions are fatal", func(t *testing.T) {
		_, err := Build(testFragments(2), [][]float32{{1, 0}, {1, 0, 0}})
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("zero fragments", func(t *testing.T) {
		_, err := Build(nil, nil)
		assert.ErrorIs(t, err, ErrEmptyIndex)
	})

	t.Run("zero vector survives normalization", func(t *testing.T) {
		index, err := Build(testFragments(1), [][]float32{{0, 0}})
		require.NoError(t, err)
		assert.Equal(t, []float32{0, 0}, index.Vectors()[0])
	})
}

func TestSearch(t *testing.T) {
	fragments := testFragments(3)
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.7, 0.7, 0},
	}
	index, err := Build(fragments, vectors)
	require.NoError(t, err)

	t.Run("stored vector finds itself with score one", func(t *testing.T) {
		results, err := index.Search([]float32{1, 0, 0}, 3)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, core.ID(0), results[0].Fragment.Id)
		assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	})

	t.Run("query is normalized before scoring", func(t *testing.T) {
		// Same direction, much larger magnitude.
		results, err := index.Search([]float32{250, 0, 0}, 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	})

	t.Run("topK bounds the result count", func(t *testing.T) {
		results, err := index.Search([]float32{1, 1, 0}, 2)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("ties break by ascending fragment id", func(t *testing.T) {
		tieIndex, err := Build(testFragments(3), [][]float32{
			{0, 1},
			{1, 0},
			{1, 0},
		})
		require.NoError(t, err)

		results, err := tieIndex.Search([]float32{1, 0}, 3)
		require.NoError(t, err)
		assert.Equal(t, core.ID(1), results[0].Fragment.Id)
		assert.Equal(t, core.ID(2), results[1].Fragment.Id)
		assert.Equal(t, core.ID(0), results[2].Fragment.Id)
	})

	t.Run("query dimension mismatch", func(t *testing.T) {
		_, err := index.Search([]float32{1, 0}, 5)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})
}

func TestFromArtifact(t *testing.T) {
	fragments := testFragments(2)
	vectors := [][]float32{{1, 0}, {0, 1}}

	t.Run("round trip", func(t *testing.T) {
		built, err := Build(fragments, vectors)
		require.NoError(t, err)

		artifact := &core.IndexArtifact{
			Fragments: built.Fragments(),
			Vectors:   built.Vectors(),
			Meta:      &core.IndexMeta{Dimension: 2},
		}
		loaded, err := FromArtifact(artifact)
		require.NoError(t, err)
		assert.Equal(t, built.Len(), loaded.Len())
		assert.Equal(t, built.Dimension(), loaded.Dimension())
	})

	t.Run("meta dimension mismatch", func(t *testing.T) {
		artifact := &core.IndexArtifact{
			Fragments: fragments,
			Vectors:   vectors,
			Meta:      &core.IndexMeta{Dimension: 384},
		}
		_, err := FromArtifact(artifact)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("nil artifact", func(t *testing.T) {
		_, err := FromArtifact(nil)
		assert.ErrorIs(t, err, ErrEmptyIndex)
	})
}

func TestFindByTitle(t *testing.T) {
	fragments := []core.Fragment{
		{Id: 0, DocumentID: "a", Title: "IPC Section 302: Murder", Text: "..."},
		{Id: 1, DocumentID: "b", Title: "IPC Section 304: Culpable homicide", Text: "..."},
		{Id: 2, DocumentID: "c", Title: "Bail Guide - Part 1", Text: "..."},
	}
	vectors := [][]float32{{1, 0}, {0, 1}, {1, 1}}
	index, err := Build(fragments, vectors)
	require.NoError(t, err)

	t.Run("word-boundary anchored match", func(t *testing.T) {
		pattern := regexp.MustCompile(`(?i)(?:^|\b)(?:Section|IPC)\s*302(?:\b|$)`)
		matches := index.FindByTitle(pattern)
		require.Len(t, matches, 1)
		assert.Equal(t, core.ID(0), matches[0].Id)
	})

	t.Run("302 does not match 3020-style titles", func(t *testing.T) {
		pattern := regexp.MustCompile(`(?i)(?:^|\b)(?:Section|IPC)\s*30(?:\b|$)`)
		assert.Empty(t, index.FindByTitle(pattern))
	})

	t.Run("no match", func(t *testing.T) {
		pattern := regexp.MustCompile(`(?i)(?:^|\b)(?:Section|IPC)\s*999(?:\b|$)`)
		assert.Empty(t, index.FindByTitle(pattern))
	})
}
