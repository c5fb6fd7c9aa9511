package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarityIdentical(t *testing.T) {
	v := []float64{1, 2, 3}
	assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
}

func TestCosineSimilarityOrthogonal(t *testing.T) {
	assert.InDelta(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
}

func TestCosineSimilarityMismatchedLength(t *testing.T) {
	assert.Equal(t, 0.0, CosineSimilarity([]float64{1}, []float64{1, 2}))
}

func TestDistanceIdenticalIsZero(t *testing.T) {
	v := []float64{1, 2, 3}
	assert.InDelta(t, 0.0, Distance(v, v), 1e-9)
}

func TestNormalizeUnitLength(t *testing.T) {
	out := Normalize([]float64{3, 4})
	assert.InDelta(t, 0.6, out[0], 1e-9)
	assert.InDelta(t, 0.8, out[1], 1e-9)
}

func TestNormalizeZeroVector(t *testing.T) {
	out := Normalize([]float64{0, 0})
	assert.Equal(t, []float64{0, 0}, out)
}
