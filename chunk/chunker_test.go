package chunk

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	t.Run("short text is a single fragment", func(t *testing.T) {
		fragments, err := Split("hello world", 100, 10)
		require.NoError(t, err)
		require.Len(t, fragments, 1)
		assert.Equal(t, "hello world", fragments[0])
	})

	t.Run("window advances by maxChars minus overlap", func(t *testing.T) {
		text := "abcdefghij" // 10 chars
		fragments, err := Split(text, 4, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"abcd", "cdef", "efgh", "ghij"}, fragments)
	})

	t.Run("final fragment may be shorter", func(t *testing.T) {
		fragments, err := Split("abcdefg", 4, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"abcd", "defg", "g"}, fragments)
	})

	t.Run("empty text produces zero fragments", func(t *testing.T) {
		fragments, err := Split("", 100, 10)
		require.NoError(t, err)
		assert.Empty(t, fragments)
	})

	t.Run("whitespace-only text produces zero fragments", func(t *testing.T) {
		fragments, err := Split("  \n\t  ", 100, 10)
		require.NoError(t, err)
		assert.Empty(t, fragments)
	})

	t.Run("overlap equal to maxChars is a config error", func(t *testing.T) {
		_, err := Split("some text", 10, 10)
		assert.ErrorIs(t, err, ErrConfig)
	})

	t.Run("overlap greater than maxChars is a config error", func(t *testing.T) {
		_, err := Split("some text", 10, 20)
		assert.ErrorIs(t, err, ErrConfig)
	})

	t.Run("negative overlap is a config error", func(t *testing.T) {
		_, err := Split("some text", 10, -1)
		assert.ErrorIs(t, err, ErrConfig)
	})

	t.Run("zero maxChars is a config error", func(t *testing.T) {
		_, err := Split("some text", 0, 0)
		assert.ErrorIs(t, err, ErrConfig)
	})

	t.Run("multi-byte text splits on rune boundaries", func(t *testing.T) {
		text := strings.Repeat("धारा ", 20) // Devanagari, 5 runes per repeat
		fragments, err := Split(text, 30, 5)
		require.NoError(t, err)
		for _, f := range fragments {
			assert.LessOrEqual(t, len([]rune(f)), 30)
			assert.True(t, strings.Contains(text, f))
		}
	})
}

// Property coverage: for random inputs with 0 <= overlap < maxChars, the
// split is deterministic, every fragment fits the window, and consecutive
// fragments share exactly overlap characters (except around the final
// fragment, which may be shorter).
func TestSplitProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("abcdefghijklmnopqrstuvwxyz ")

	for i := 0; i < 200; i++ {
		length := rng.Intn(2000)
		runes := make([]rune, length)
		for j := range runes {
			runes[j] = alphabet[rng.Intn(len(alphabet))]
		}
		text := string(runes)

		maxChars := 1 + rng.Intn(200)
		overlap := rng.Intn(maxChars)

		first, err := Split(text, maxChars, overlap)
		require.NoError(t, err)
		second, err := Split(text, maxChars, overlap)
		require.NoError(t, err)
		require.Equal(t, first, second, "split must be deterministic")

		if strings.TrimSpace(text) == "" {
			require.Empty(t, first)
			continue
		}

		for k, fragment := range first {
			require.LessOrEqual(t, len([]rune(fragment)), maxChars)

			if k+1 < len(first) {
				next := []rune(first[k+1])
				cur := []rune(fragment)
				if len(cur) == maxChars {
					shared := cur[len(cur)-overlap:]
					require.Equal(t, string(shared), string(next[:min(overlap, len(next))]),
						"consecutive fragments must share exactly the overlap")
				}
			}
		}
	}
}
