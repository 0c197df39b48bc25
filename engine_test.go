package lexibase

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexibase/lexibase/ai/mock"
	"github.com/lexibase/lexibase/core"
	"github.com/lexibase/lexibase/storage"
)

func testDocs() []core.Document {
	return []core.Document{
		{
			ID:          "ipc_section_302",
			Title:       "IPC Section 302: Punishment for murder",
			Text:        "IPC Section 302: Punishment for murder\n\nDescription: Whoever commits murder shall be punished with death or imprisonment for life.\n\nPunishment: Death or imprisonment for life and fine.",
			SourceLabel: "ipc_dataset.csv",
		},
		{
			ID:          "bail_guide.md",
			Title:       "Bail Guide",
			Text:        "Bail is the conditional release of an accused person awaiting trial, usually on payment of a security.",
			SourceLabel: "bail_guide.md",
		},
	}
}

func newMemoryEngine(t *testing.T) (*Engine, *mock.Provider) {
	t.Helper()

	provider := mock.NewProvider()
	engine, err := New("", WithInMemory(), WithProvider(provider))
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return engine, provider
}

func TestResolveBeforeBuild(t *testing.T) {
	engine, _ := newMemoryEngine(t)

	_, err := engine.Resolve(context.Background(), "What is IPC 302?")
	assert.ErrorIs(t, err, storage.ErrIndexUnavailable)

	_, err = engine.Current()
	assert.ErrorIs(t, err, storage.ErrIndexUnavailable)
}

func TestBuildThenResolveStructural(t *testing.T) {
	engine, provider := newMemoryEngine(t)

	report, err := engine.BuildIndex(context.Background(), testDocs())
	require.NoError(t, err)
	assert.Equal(t, 2, report.DocumentCount)
	assert.Equal(t, mock.PrimaryModel, report.Model)

	result, err := engine.Resolve(context.Background(), "What is the punishment under IPC 302?")
	require.NoError(t, err)

	assert.Equal(t, core.SourceKB, result.Source)
	require.NotEmpty(t, result.Matches)
	assert.Equal(t, "ipc_section_302", result.Matches[0].Fragment.DocumentID)
	assert.Equal(t, float32(1.0), result.Matches[0].Score)

	// Structural lookups do not call the embedding service
	assert.Equal(t, 1, provider.Gen().CallCount())
}

func TestBuildThenResolveUnrelated(t *testing.T) {
	engine, _ := newMemoryEngine(t)

	_, err := engine.BuildIndex(context.Background(), testDocs())
	require.NoError(t, err)

	result, err := engine.Resolve(context.Background(), "how do I bake sourdough bread")
	require.NoError(t, err)
	// Mock vectors are effectively random, so an off-topic question falls
	// below the confidence gate and is answered ungrounded.
	assert.Equal(t, core.SourceWeb, result.Source)
	assert.Empty(t, result.Matches)
}

func TestIndexSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb")

	engine, err := New(path, WithProvider(mock.NewProvider()))
	require.NoError(t, err)
	_, err = engine.BuildIndex(context.Background(), testDocs())
	require.NoError(t, err)
	require.NoError(t, engine.Close())

	reopened, err := New(path, WithProvider(mock.NewProvider()))
	require.NoError(t, err)
	defer reopened.Close()

	index, err := reopened.Current()
	require.NoError(t, err)
	assert.Equal(t, 2, index.Len())

	meta, err := reopened.Meta(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mock.PrimaryModel, meta.Model)

	result, err := reopened.Resolve(context.Background(), "Explain section 302")
	require.NoError(t, err)
	assert.Equal(t, core.SourceKB, result.Source)
}

func TestResolverFollowsIndexModel(t *testing.T) {
	provider := mock.NewProvider()
	provider.Primary().FailTimes = 100

	engine, err := New("", WithInMemory(), WithProvider(provider))
	require.NoError(t, err)
	defer engine.Close()

	report, err := engine.BuildIndex(context.Background(), testDocs())
	require.NoError(t, err)
	require.Equal(t, mock.FallbackModel, report.Model)

	// A non-structural query must embed with the fallback model the index
	// was built with, or the dimensions would not line up.
	fallbackCalls := provider.Fallback().CallCount()
	result, err := engine.Resolve(context.Background(), "general legal question about contracts")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Answer)
	assert.Greater(t, provider.Fallback().CallCount(), fallbackCalls)
}

func TestRebuildSwapsIndex(t *testing.T) {
	engine, _ := newMemoryEngine(t)

	_, err := engine.BuildIndex(context.Background(), testDocs())
	require.NoError(t, err)

	first, err := engine.Current()
	require.NoError(t, err)

	docs := append(testDocs(), core.Document{
		ID:    "ipc_section_378",
		Title: "IPC Section 378: Theft",
		Text:  "IPC Section 378: Theft\n\nDescription: Dishonest taking of movable property without consent.",
	})
	_, err = engine.BuildIndex(context.Background(), docs)
	require.NoError(t, err)

	second, err := engine.Current()
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, 3, second.Len())

	// The old index value is untouched by the swap
	assert.Equal(t, 2, first.Len())
}
