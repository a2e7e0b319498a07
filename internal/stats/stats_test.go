package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, Mean([]float64{}))
	assert.Equal(t, 5.0, Mean([]float64{5}))
	assert.Equal(t, 3.0, Mean([]float64{1, 2, 3, 4, 5}))
}

func TestStdDev_Population(t *testing.T) {
	// population formula divides by n, not n-1
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 2.0, StdDev(xs), 1e-9)
}

func TestStdDev_Degenerate(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{42}))
	assert.Equal(t, 0.0, StdDev([]float64{7, 7, 7}))
}

func TestZScore(t *testing.T) {
	assert.InDelta(t, 2.0, ZScore(120, 100, 10), 1e-9)
	assert.InDelta(t, -1.5, ZScore(85, 100, 10), 1e-9)
	// zero stddev never divides by zero
	assert.Equal(t, 0.0, ZScore(999, 100, 0))
}

func TestNormFloat64(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const n = 20000
	var sum float64
	for i := 0; i < n; i++ {
		x := NormFloat64(rng, 100, 15)
		assert.False(t, math.IsNaN(x))
		assert.False(t, math.IsInf(x, 0))
		sum += x
	}
	// sample mean converges on the requested mean
	assert.InDelta(t, 100, sum/n, 1.0)
}
