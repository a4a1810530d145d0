package vectorstore

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"askpdf/internal/config"
	"askpdf/internal/domain"
	"askpdf/internal/vectorstore/memory"
	"askpdf/internal/vectorstore/sqlite"
)

var testSpec = domain.CollectionSpec{Name: "docs", Dimension: 3, Distance: domain.DistanceCosine}

func backends(t *testing.T) map[string]Storage {
	t.Helper()
	lite, err := sqlite.Open(filepath.Join(t.TempDir(), "store", "vectors.db"))
	require.NoError(t, err)
	t.Cleanup(func() { lite.Close() })
	return map[string]Storage{
		"memory": memory.NewStorage(),
		"sqlite": lite,
	}
}

func makeChunks(n int) ([]domain.Chunk, [][]float64) {
	chunks := make([]domain.Chunk, n)
	vectors := make([][]float64, n)
	for i := 0; i < n; i++ {
		chunks[i] = domain.Chunk{Source: "doc.pdf", Text: fmt.Sprintf("chunk %d", i), Index: i}
		vectors[i] = []float64{float64(i + 1), 1, 0}
	}
	return chunks, vectors
}

func TestOpen_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c1, err := Open(ctx, st, testSpec)
			require.NoError(t, err)
			chunks, vectors := makeChunks(2)
			require.NoError(t, c1.Append(ctx, chunks, vectors))

			// a second ensure with a different schema changes nothing
			other := testSpec
			other.Dimension = 1536
			c2, err := Open(ctx, st, other)
			require.NoError(t, err)

			n, err := c2.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 2, n)
			require.NoError(t, c1.Append(ctx, chunks[:1], vectors[:1]))
		})
	}
}

func TestAppend_IncreasesCountByN(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c, err := Open(ctx, st, testSpec)
			require.NoError(t, err)

			chunks, vectors := makeChunks(5)
			require.NoError(t, c.Append(ctx, chunks, vectors))
			n, err := c.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 5, n)

			// same chunks again: no dedup
			require.NoError(t, c.Append(ctx, chunks, vectors))
			n, err = c.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 10, n)
		})
	}
}

func TestAppend_RejectsWrongDimension(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c, err := Open(ctx, st, testSpec)
			require.NoError(t, err)
			err = c.Append(ctx, []domain.Chunk{{Text: "x"}}, [][]float64{{1, 2}})
			require.Error(t, err)
			err = c.Append(ctx, []domain.Chunk{{Text: "x"}}, nil)
			require.Error(t, err)
		})
	}
}

func TestSearch_TopKBoundedByCount(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c, err := Open(ctx, st, testSpec)
			require.NoError(t, err)
			chunks, vectors := makeChunks(4)
			require.NoError(t, c.Append(ctx, chunks, vectors))

			res, err := c.Search(ctx, []float64{1, 0, 0}, 10)
			require.NoError(t, err)
			assert.Len(t, res, 4)
			for i := 1; i < len(res); i++ {
				assert.GreaterOrEqual(t, res[i-1].Score, res[i].Score)
			}
			// the most x-aligned vector wins under cosine
			assert.Equal(t, "chunk 3", res[0].Chunk.Text)
			assert.NotEmpty(t, res[0].Chunk.ID)
			assert.Equal(t, "doc.pdf", res[0].Chunk.Source)

			res, err = c.Search(ctx, []float64{1, 0, 0}, 2)
			require.NoError(t, err)
			assert.Len(t, res, 2)
		})
	}
}

func TestSearch_UnknownCollection(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := st.Search(ctx, "missing", []float64{1, 0, 0}, 10)
			assert.ErrorIs(t, err, domain.ErrCollectionNotFound)
			_, err = st.Count(ctx, "missing")
			assert.ErrorIs(t, err, domain.ErrCollectionNotFound)
		})
	}
}

func TestNew(t *testing.T) {
	st, err := New(config.VectorStoreConfig{Type: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &memory.Storage{}, st)

	st, err = New(config.VectorStoreConfig{Type: "sqlite", Path: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	_, err = New(config.VectorStoreConfig{Type: "qdrant"})
	require.Error(t, err)
	_, err = New(config.VectorStoreConfig{Type: "faiss"})
	require.Error(t, err)
}

func TestSpecFromConfig(t *testing.T) {
	spec := SpecFromConfig(config.VectorStoreConfig{Collection: "c", Dimension: 1536, Distance: "Cosine"})
	assert.Equal(t, domain.CollectionSpec{Name: "c", Dimension: 1536, Distance: domain.DistanceCosine}, spec)
}
