package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarity(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{-2, 0.5, 4}

	assert.InDelta(t, 1.0, Similarity(a, a), 1e-9)
	assert.InDelta(t, Similarity(a, b), Similarity(b, a), 1e-12)
	assert.InDelta(t, 0.0, Similarity([]float32{1, 0}, []float32{0, 1}), 1e-12)
	assert.InDelta(t, -1.0, Similarity([]float32{1, 1}, []float32{-1, -1}), 1e-9)

	assert.Zero(t, Similarity(a, []float32{1, 2}))
	assert.Zero(t, Similarity(a, []float32{0, 0, 0}))
	assert.Zero(t, Similarity(nil, nil))
}

type vecItem struct {
	id  string
	vec []float32
}

func TestRank(t *testing.T) {
	query := []float32{1, 0}
	items := []vecItem{
		{"far", []float32{0, 1}},
		{"tie-a", []float32{1, 1}},
		{"exact", []float32{2, 0}},
		{"tie-b", []float32{1, 1}},
		{"short", []float32{1}},
	}

	ranked := Rank(query, items, func(v vecItem) []float32 { return v.vec }, 0.5)

	require.Len(t, ranked, 3)
	assert.Equal(t, "exact", ranked[0].Item.id)
	assert.Equal(t, "tie-a", ranked[1].Item.id)
	assert.Equal(t, "tie-b", ranked[2].Item.id)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
}

func TestRankThresholdIsStrict(t *testing.T) {
	items := []vecItem{{"same", []float32{1, 0}}}
	vec := func(v vecItem) []float32 { return v.vec }

	assert.Empty(t, Rank([]float32{1, 0}, items, vec, 1.0))
	assert.Len(t, Rank([]float32{1, 0}, items, vec, 0.99), 1)
	assert.Empty(t, Rank([]float32{1, 0}, nil, vec, 0))
}
