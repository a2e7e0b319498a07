// Package stats holds the small numeric helpers shared by the detectors
// and the synthetic data generators.
package stats

import (
	"math"
	"math/rand"
)

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// StdDev returns the population standard deviation (divide by n).
// Returns 0 for empty or single-element input.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

// ZScore returns (x-mean)/stddev, or 0 when stddev is 0 so degenerate
// groups never divide by zero.
func ZScore(x, mean, stddev float64) float64 {
	if stddev == 0 {
		return 0
	}
	return (x - mean) / stddev
}

// NormFloat64 draws a normally distributed sample via Box-Muller.
func NormFloat64(rng *rand.Rand, mean, stddev float64) float64 {
	// 1-Float64() keeps u1 in (0,1] so the log is defined
	u1 := 1 - rng.Float64()
	u2 := rng.Float64()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + stddev*z
}
