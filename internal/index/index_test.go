package index

import (
	"context"
	"errors"
	"hash/fnv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridoc/internal/ai"
	"veridoc/internal/model"
)

const testDimension = 8

// fakeEmbedder derives a deterministic vector from the text itself, so equal
// texts embed identically and distinct texts land far apart.
type fakeEmbedder struct {
	dimension  int
	embedCalls int
	batchCalls int
	err        error
}

func (f *fakeEmbedder) Embed(_ context.Context, _ ai.EmbeddingConfig, text string) ([]float32, error) {
	f.embedCalls++
	if f.err != nil {
		return nil, f.err
	}
	return deterministicVector(text, f.dimension), nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, _ ai.EmbeddingConfig, texts []string) ([][]float32, error) {
	f.batchCalls++
	if f.err != nil {
		return nil, f.err
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = deterministicVector(text, f.dimension)
	}
	return vectors, nil
}

func deterministicVector(text string, dimension int) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	state := h.Sum64()

	vec := make([]float32, dimension)
	for i := range vec {
		state = state*6364136223846793005 + 1442695040888963407
		vec[i] = float32(state%1000) / 1000
	}
	return vec
}

func textChunks(contents ...string) []model.Chunk {
	chunks := make([]model.Chunk, len(contents))
	for i, content := range contents {
		chunks[i] = model.Chunk{
			Content:    content,
			Type:       model.ChunkTypeText,
			CharCount:  len(content),
			Confidence: 1.0,
		}
	}
	return chunks
}

func newTestIndex(t *testing.T, dir string) (*VectorIndex, *fakeEmbedder) {
	t.Helper()
	embedder := &fakeEmbedder{dimension: testDimension}
	idx, err := New(embedder, ai.EmbeddingConfig{Model: "fake"}, testDimension, dir)
	require.NoError(t, err)
	return idx, embedder
}

func TestNewRejectsNonPositiveDimension(t *testing.T) {
	_, err := New(&fakeEmbedder{}, ai.EmbeddingConfig{}, 0, t.TempDir())
	require.Error(t, err)
}

func TestSearchEmptyIndexReturnsNoResults(t *testing.T) {
	idx, embedder := newTestIndex(t, t.TempDir())

	results, err := idx.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, embedder.embedCalls)
}

func TestAddGrowsSizeAndChunksAreRetrievable(t *testing.T) {
	idx, _ := newTestIndex(t, t.TempDir())

	require.NoError(t, idx.Add(context.Background(), textChunks(
		"Paris is the capital of France.",
		"The Eiffel Tower is in Paris.",
	), "doc-1"))
	assert.Equal(t, 2, idx.Size())

	require.NoError(t, idx.Add(context.Background(), textChunks("Berlin is the capital of Germany."), "doc-2"))
	assert.Equal(t, 3, idx.Size())

	results, err := idx.Search(context.Background(), "Paris is the capital of France.", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)

	top := results[0]
	assert.Equal(t, "Paris is the capital of France.", top.Content)
	assert.Equal(t, "doc-1", top.Metadata.DocumentID)
	assert.Equal(t, 0, top.Metadata.ChunkIndex)
	assert.InDelta(t, 0.0, top.Distance, 1e-6)
	assert.InDelta(t, 1.0, top.Relevance, 1e-6)
}

func TestSearchOrdersByAscendingDistance(t *testing.T) {
	idx, _ := newTestIndex(t, t.TempDir())
	require.NoError(t, idx.Add(context.Background(), textChunks("alpha", "beta", "gamma", "delta"), "doc-1"))

	results, err := idx.Search(context.Background(), "beta", 4)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, "beta", results[0].Content)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i].Distance, results[i-1].Distance)
	}
	for _, result := range results {
		assert.Greater(t, result.Relevance, 0.0)
		assert.LessOrEqual(t, result.Relevance, 1.0)
		assert.InDelta(t, 1/(1+result.Distance), result.Relevance, 1e-9)
	}
}

func TestSearchCapsKAtIndexSize(t *testing.T) {
	idx, _ := newTestIndex(t, t.TempDir())
	require.NoError(t, idx.Add(context.Background(), textChunks("one", "two"), "doc-1"))

	results, err := idx.Search(context.Background(), "one", 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchDefaultsKWhenNonPositive(t *testing.T) {
	idx, _ := newTestIndex(t, t.TempDir())
	contents := []string{"a", "b", "c", "d", "e", "f", "g"}
	require.NoError(t, idx.Add(context.Background(), textChunks(contents...), "doc-1"))

	results, err := idx.Search(context.Background(), "a", 0)
	require.NoError(t, err)
	assert.Len(t, results, defaultTopK)
}

func TestAddEmptyChunksIsNoop(t *testing.T) {
	idx, embedder := newTestIndex(t, t.TempDir())

	require.NoError(t, idx.Add(context.Background(), nil, "doc-1"))
	assert.Zero(t, idx.Size())
	assert.Zero(t, embedder.batchCalls)
}

func TestAddBatchesEmbeddingCalls(t *testing.T) {
	idx, embedder := newTestIndex(t, t.TempDir())

	contents := make([]string, 23)
	for i := range contents {
		contents[i] = string(rune('a' + i))
	}
	require.NoError(t, idx.Add(context.Background(), textChunks(contents...), "doc-1"))

	assert.Equal(t, 3, embedder.batchCalls)
	assert.Equal(t, 23, idx.Size())
}

func TestAddEmbeddingFailureLeavesIndexUntouched(t *testing.T) {
	idx, embedder := newTestIndex(t, t.TempDir())
	embedder.err = errors.New("embedding service down")

	err := idx.Add(context.Background(), textChunks("content"), "doc-1")
	require.Error(t, err)
	assert.Zero(t, idx.Size())
}

func TestAddRejectsDimensionMismatch(t *testing.T) {
	dir := t.TempDir()
	embedder := &fakeEmbedder{dimension: testDimension + 1}
	idx, err := New(embedder, ai.EmbeddingConfig{}, testDimension, dir)
	require.NoError(t, err)

	err = idx.Add(context.Background(), textChunks("content"), "doc-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	assert.Zero(t, idx.Size())

	// Nothing was persisted either.
	_, statErr := os.Stat(filepath.Join(dir, indexFileName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	idx, _ := newTestIndex(t, dir)

	chunks := textChunks("Paris is the capital of France.")
	chunks[0].HasImages = true
	chunks[0].Page = 3
	require.NoError(t, idx.Add(context.Background(), chunks, "doc-1"))

	reopened, _ := newTestIndex(t, dir)
	assert.Equal(t, 1, reopened.Size())

	results, err := reopened.Search(context.Background(), "Paris is the capital of France.", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Paris is the capital of France.", results[0].Content)
	assert.Equal(t, "doc-1", results[0].Metadata.DocumentID)
	assert.Equal(t, 3, results[0].Metadata.Page)
	assert.True(t, results[0].Metadata.HasImages)
}

func TestLoadRequiresBothArtifacts(t *testing.T) {
	dir := t.TempDir()
	idx, _ := newTestIndex(t, dir)
	require.NoError(t, idx.Add(context.Background(), textChunks("content"), "doc-1"))

	require.NoError(t, os.Remove(filepath.Join(dir, metadataFileName)))

	reopened, _ := newTestIndex(t, dir)
	assert.Zero(t, reopened.Size())
}

func TestLoadDiscardsStateOnDimensionChange(t *testing.T) {
	dir := t.TempDir()
	idx, _ := newTestIndex(t, dir)
	require.NoError(t, idx.Add(context.Background(), textChunks("content"), "doc-1"))

	embedder := &fakeEmbedder{dimension: testDimension * 2}
	reopened, err := New(embedder, ai.EmbeddingConfig{}, testDimension*2, dir)
	require.NoError(t, err)
	assert.Zero(t, reopened.Size())
}

func TestLoadToleratesCorruptIndexBlob(t *testing.T) {
	dir := t.TempDir()
	idx, _ := newTestIndex(t, dir)
	require.NoError(t, idx.Add(context.Background(), textChunks("content"), "doc-1"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, indexFileName), []byte("not gob"), 0o644))

	reopened, _ := newTestIndex(t, dir)
	assert.Zero(t, reopened.Size())
}
