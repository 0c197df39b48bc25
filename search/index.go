package search

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/lexibase/lexibase/core"
)

// Index is an immutable in-memory vector index over text fragments.
// Vectors are held L2-normalized, so similarity search reduces to a
// brute-force inner-product scan. Built once, read-only afterwards:
// concurrent searches need no synchronization.
type Index struct {
	fragments []core.Fragment
	vectors   [][]float32
	dimension int
}

// Build validates fragments and vectors, L2-normalizes every vector, and
// returns the index. Count mismatches and mixed dimensionalities are
// fatal build errors.
func Build(fragments []core.Fragment, vectors [][]float32) (*Index, error) {
	if len(fragments) != len(vectors) {
		return nil, fmt.Errorf("%w: %d fragments, %d vectors", ErrCountMismatch, len(fragments), len(vectors))
	}
	if len(fragments) == 0 {
		return nil, ErrEmptyIndex
	}

	dimension := len(vectors[0])
	if dimension == 0 {
		return nil, fmt.Errorf("%w: vector 0 is empty", ErrDimensionMismatch)
	}

	normalized := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dimension {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, index dimension is %d",
				ErrDimensionMismatch, i, len(v), dimension)
		}
		normalized[i] = NormalizeVector(v)
	}

	return &Index{
		fragments: fragments,
		vectors:   normalized,
		dimension: dimension,
	}, nil
}

// FromArtifact reconstructs an index from its persisted form. Vectors are
// re-normalized, which is a no-op for correctly persisted artifacts.
func FromArtifact(artifact *core.IndexArtifact) (*Index, error) {
	if artifact == nil {
		return nil, ErrEmptyIndex
	}
	index, err := Build(artifact.Fragments, artifact.Vectors)
	if err != nil {
		return nil, err
	}
	if artifact.Meta != nil && artifact.Meta.Dimension != 0 && artifact.Meta.Dimension != index.dimension {
		return nil, fmt.Errorf("%w: artifact meta declares dimension %d, vectors have %d",
			ErrDimensionMismatch, artifact.Meta.Dimension, index.dimension)
	}
	return index, nil
}

// Search L2-normalizes the query vector and returns the topK stored
// fragments by inner-product score, descending. Ties are broken by
// ascending fragment id, so results are fully deterministic.
func (ix *Index) Search(query []float32, topK int) ([]core.ScoredFragment, error) {
	if len(query) != ix.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, index dimension is %d",
			ErrDimensionMismatch, len(query), ix.dimension)
	}
	if topK <= 0 {
		topK = 5
	}

	unit := NormalizeVector(query)

	results := make([]core.ScoredFragment, len(ix.fragments))
	for i := range ix.fragments {
		results[i] = core.ScoredFragment{
			Fragment: ix.fragments[i],
			Score:    dotProduct(unit, ix.vectors[i]),
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Fragment.Id < results[j].Fragment.Id
	})

	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

// FindByTitle returns all fragments whose title matches the pattern, in
// fragment id order. Used for exact structural lookups that bypass
// similarity search.
func (ix *Index) FindByTitle(pattern *regexp.Regexp) []core.Fragment {
	var matches []core.Fragment
	for _, fragment := range ix.fragments {
		if pattern.MatchString(fragment.Title) {
			matches = append(matches, fragment)
		}
	}
	return matches
}

// Len returns the number of indexed fragments.
func (ix *Index) Len() int {
	return len(ix.fragments)
}

// Dimension returns the vector dimensionality of the index.
func (ix *Index) Dimension() int {
	return ix.dimension
}

// Fragments returns the indexed fragments in id order. Callers must not
// mutate the returned slice.
func (ix *Index) Fragments() []core.Fragment {
	return ix.fragments
}

// Vectors returns the normalized vector table aligned with Fragments.
// Callers must not mutate the returned slices.
func (ix *Index) Vectors() [][]float32 {
	return ix.vectors
}
