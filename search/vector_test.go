package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVector(t *testing.T) {
	t.Run("normalizes to unit length", func(t *testing.T) {
		v := NormalizeVector([]float32{3, 4})
		assert.InDelta(t, 0.6, v[0], 1e-6)
		assert.InDelta(t, 0.8, v[1], 1e-6)

		var mag float64
		for _, x := range v {
			mag += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, math.Sqrt(mag), 1e-6)
	})

	t.Run("zero vector stays zero", func(t *testing.T) {
		v := NormalizeVector([]float32{0, 0, 0})
		assert.Equal(t, []float32{0, 0, 0}, v)
	})

	t.Run("empty vector", func(t *testing.T) {
		assert.Empty(t, NormalizeVector(nil))
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		in := []float32{3, 4}
		NormalizeVector(in)
		assert.Equal(t, []float32{3, 4}, in)
	})
}

func TestDotProduct(t *testing.T) {
	assert.InDelta(t, 11.0, dotProduct([]float32{1, 2}, []float32{3, 4}), 1e-6)
	assert.InDelta(t, 0.0, dotProduct([]float32{1, 0}, []float32{0, 1}), 1e-6)
}
