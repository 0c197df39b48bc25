package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexibase/lexibase/core"
)

func TestFragmentRoundTrip(t *testing.T) {
	fragment := &core.Fragment{
		Id:          core.ID(42),
		DocumentID:  "ipc_302",
		Title:       "Section 302: Punishment for murder - Part 2",
		Text:        "Whoever commits murder shall be punished with death.",
		SourceLabel: "ipc_sections.csv",
	}

	data := MarshalFragment(fragment)
	decoded, err := UnmarshalFragment(data)
	require.NoError(t, err)
	assert.Equal(t, fragment, decoded)
}

func TestFragmentUnmarshalCorrupt(t *testing.T) {
	fragment := &core.Fragment{Id: core.ID(7), DocumentID: "d", Text: "t"}
	data := MarshalFragment(fragment)

	_, err := UnmarshalFragment(data[:len(data)-2])
	assert.Error(t, err)
}

func TestVectorRoundTrip(t *testing.T) {
	vector := []float32{0.25, -0.5, 0.125, 1.0}

	data := MarshalVector(vector)
	decoded, err := UnmarshalVector(data)
	require.NoError(t, err)
	assert.Equal(t, vector, decoded)
}

func TestIndexMetaRoundTrip(t *testing.T) {
	meta := &core.IndexMeta{
		Dimension:     384,
		FragmentCount: 120,
		DocumentCount: 10,
		Model:         "all-MiniLM-L6-v2",
		Fingerprint:   core.ID(0xdeadbeef),
		BuiltAt:       time.Now().Truncate(time.Microsecond).UTC(),
	}

	data := MarshalIndexMeta(meta)
	decoded, err := UnmarshalIndexMeta(data)
	require.NoError(t, err)
	assert.Equal(t, meta.Dimension, decoded.Dimension)
	assert.Equal(t, meta.FragmentCount, decoded.FragmentCount)
	assert.Equal(t, meta.DocumentCount, decoded.DocumentCount)
	assert.Equal(t, meta.Model, decoded.Model)
	assert.Equal(t, meta.Fingerprint, decoded.Fingerprint)
	assert.True(t, meta.BuiltAt.Equal(decoded.BuiltAt))
}

func TestIDRoundTrip(t *testing.T) {
	data := MarshalID(core.ID(1 << 40))
	id, err := UnmarshalID(data)
	require.NoError(t, err)
	assert.Equal(t, core.ID(1<<40), id)
}
