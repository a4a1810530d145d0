package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"askpdf/internal/domain"
)

func TestSimilarity(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{0, 1}
	c := []float64{2, 0}

	assert.InDelta(t, 1.0, Similarity(domain.DistanceCosine, a, c), 1e-12)
	assert.InDelta(t, 0.0, Similarity(domain.DistanceCosine, a, b), 1e-12)
	assert.InDelta(t, 2.0, Similarity(domain.DistanceDot, a, c), 1e-12)
	assert.InDelta(t, -1.0, Similarity(domain.DistanceEuclid, a, c), 1e-12)
	assert.Zero(t, Similarity(domain.DistanceCosine, a, []float64{1, 2, 3}))
	assert.Zero(t, Similarity(domain.DistanceCosine, []float64{0, 0}, a))
}

func TestTopK(t *testing.T) {
	results := []domain.SearchResult{
		{Chunk: domain.Chunk{Index: 0}, Score: 0.1},
		{Chunk: domain.Chunk{Index: 1}, Score: 0.9},
		{Chunk: domain.Chunk{Index: 2}, Score: 0.5},
	}
	top := TopK(results, 2)
	if assert.Len(t, top, 2) {
		assert.Equal(t, 1, top[0].Chunk.Index)
		assert.Equal(t, 2, top[1].Chunk.Index)
	}
	assert.Len(t, TopK(results, 10), 3)
}
