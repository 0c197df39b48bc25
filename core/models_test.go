package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent("IPC Section 302: Murder")
		id2 := IDFromContent("IPC Section 302: Murder")
		assert.Equal(t, id1, id2)
	})

	t.Run("different content different id", func(t *testing.T) {
		id1 := IDFromContent("IPC Section 302: Murder")
		id2 := IDFromContent("IPC Section 303: Murder by life-convict")
		assert.NotEqual(t, id1, id2)
	})

	t.Run("empty content is valid", func(t *testing.T) {
		id := IDFromContent("")
		assert.Equal(t, id, IDFromContent(""))
	})
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "kb", SourceKB.String())
	assert.Equal(t, "web", SourceWeb.String())
	assert.Equal(t, "unknown", Source(0).String())
}
