package vectorindex

import (
	"context"
	"testing"

	"github.com/clearsight-ai/reportforge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id string, vec []float32) VectorRecord {
	return VectorRecord{
		ID:     id,
		Vector: vec,
		Payload: domain.TextChunk{
			ID:      id,
			Content: "content for " + id,
		},
	}
}

func TestLocalIndex_ExactMatchScoresOne(t *testing.T) {
	ctx := context.Background()
	idx := NewLocalIndex()

	vec := []float32{0.3, 0.5, 0.2}
	require.NoError(t, idx.Upsert(ctx, record("a", vec)))
	require.NoError(t, idx.Upsert(ctx, record("b", []float32{-0.4, 0.1, 0.9})))

	results, err := idx.Search(ctx, vec, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "a", results[0].Chunk.ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.Less(t, results[1].Score, results[0].Score)
}

func TestLocalIndex_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	idx := NewLocalIndex()

	require.NoError(t, idx.Upsert(ctx, record("a", []float32{1, 0})))
	rec := record("a", []float32{0, 1})
	rec.Payload.Content = "replacement"
	require.NoError(t, idx.Upsert(ctx, rec))

	count, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := idx.Search(ctx, []float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "replacement", results[0].Chunk.Content)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
}

func TestLocalIndex_TopKLimit(t *testing.T) {
	ctx := context.Background()
	idx := NewLocalIndex()

	vecs := [][]float32{{1, 0}, {0.9, 0.1}, {0, 1}, {-1, 0}}
	for i, v := range vecs {
		require.NoError(t, idx.Upsert(ctx, record(string(rune('a'+i)), v)))
	}

	results, err := idx.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Score >= results[1].Score)
}

func TestLocalIndex_EmptyIndex(t *testing.T) {
	idx := NewLocalIndex()

	results, err := idx.Search(context.Background(), []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCosineSimilarity_DegenerateInputs(t *testing.T) {
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}))
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
	assert.Equal(t, 0.0, cosineSimilarity(nil, nil))
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)
}
