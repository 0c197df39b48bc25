package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFragmentMUSRoundTrip(t *testing.T) {
	fragment := Fragment{
		Id:          42,
		DocumentID:  "ipc_section_302",
		Title:       "IPC Section 302: Murder",
		Text:        "Whoever commits murder shall be punished with death or imprisonment for life.",
		SourceLabel: "IPC Dataset",
	}

	buf := make([]byte, FragmentMUS.Size(fragment))
	n := FragmentMUS.Marshal(fragment, buf)
	require.Equal(t, len(buf), n)

	decoded, n, err := FragmentMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, fragment, decoded)
}

func TestFragmentMUSTruncated(t *testing.T) {
	fragment := Fragment{
		Id:         7,
		DocumentID: "doc",
		Text:       "fragment text",
	}
	buf := make([]byte, FragmentMUS.Size(fragment))
	FragmentMUS.Marshal(fragment, buf)

	_, _, err := FragmentMUS.Unmarshal(buf[:len(buf)/2])
	assert.Error(t, err)
}

func TestVectorMUSRoundTrip(t *testing.T) {
	vector := []float32{0.25, -0.5, 0.80901699, 0}

	buf := make([]byte, VectorMUS.Size(vector))
	VectorMUS.Marshal(vector, buf)

	decoded, n, err := VectorMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, vector, decoded)
}

func TestIndexMetaMUSRoundTrip(t *testing.T) {
	meta := IndexMeta{
		Dimension:     384,
		FragmentCount: 120,
		DocumentCount: 14,
		Model:         "all-MiniLM-L6-v2",
		Fingerprint:   IDFromContent("corpus"),
		BuiltAt:       time.Date(2025, 11, 2, 10, 30, 0, 123000, time.UTC),
	}

	buf := make([]byte, IndexMetaMUS.Size(meta))
	IndexMetaMUS.Marshal(meta, buf)

	decoded, _, err := IndexMetaMUS.Unmarshal(buf)
	require.NoError(t, err)
	// BuiltAt survives at microsecond precision.
	assert.Equal(t, meta, decoded)
}
