// Package isoforest implements a random-partition isolation forest. Points
// that isolate in few splits score close to 1, dense points close to 0.
package isoforest

import (
	"errors"
	"math"
	"math/rand"
)

const (
	numTrees  = 100
	sampleCap = 256

	eulerMascheroni = 0.5772156649

	// Threshold above which a score counts as anomalous.
	Threshold = 0.6
)

type node struct {
	feature int
	split   float64
	left    *node
	right   *node
	size    int
	leaf    bool
}

// Forest is a trained ensemble. Not safe for concurrent Fit; Score is
// read-only once fitted.
type Forest struct {
	trees []*node
	rng   *rand.Rand
}

// New builds an empty forest around the given source of randomness.
// Production callers seed from the wall clock; tests pass a fixed seed.
func New(rng *rand.Rand) *Forest {
	return &Forest{rng: rng}
}

// Fit trains the ensemble. Each tree sees a bootstrap sample of up to
// sampleCap points drawn with replacement, grown to depth ceil(log2(sample)).
func (f *Forest) Fit(data [][]float64) error {
	if len(data) == 0 {
		return errors.New("isoforest: empty training set")
	}
	if len(data[0]) == 0 {
		return errors.New("isoforest: empty feature vector")
	}

	sampleSize := len(data)
	if sampleSize > sampleCap {
		sampleSize = sampleCap
	}
	maxDepth := int(math.Ceil(math.Log2(float64(sampleSize))))

	f.trees = make([]*node, 0, numTrees)
	for i := 0; i < numTrees; i++ {
		sample := make([][]float64, sampleSize)
		for j := range sample {
			sample[j] = data[f.rng.Intn(len(data))]
		}
		f.trees = append(f.trees, f.build(sample, 0, maxDepth))
	}
	return nil
}

func (f *Forest) build(data [][]float64, depth, maxDepth int) *node {
	if depth >= maxDepth || len(data) <= 1 {
		return &node{leaf: true, size: len(data)}
	}

	feature := f.rng.Intn(len(data[0]))
	lo, hi := data[0][feature], data[0][feature]
	for _, p := range data[1:] {
		if p[feature] < lo {
			lo = p[feature]
		}
		if p[feature] > hi {
			hi = p[feature]
		}
	}
	// all points identical on this feature, no split possible
	if lo == hi {
		return &node{leaf: true, size: len(data)}
	}

	split := lo + f.rng.Float64()*(hi-lo)
	var left, right [][]float64
	for _, p := range data {
		if p[feature] < split {
			left = append(left, p)
		} else {
			right = append(right, p)
		}
	}
	return &node{
		feature: feature,
		split:   split,
		left:    f.build(left, depth+1, maxDepth),
		right:   f.build(right, depth+1, maxDepth),
		size:    len(data),
	}
}

// Score returns the anomaly score of x in (0, 1]. The average path length is
// normalized by c(sampleCap) regardless of the actual training size, keeping
// scores comparable across runs of different dataset sizes.
func (f *Forest) Score(x []float64) (float64, error) {
	if len(f.trees) == 0 {
		return 0, errors.New("isoforest: score called before fit")
	}
	var total float64
	for _, t := range f.trees {
		total += pathLength(t, x, 0)
	}
	avg := total / float64(len(f.trees))
	return math.Pow(2, -avg/avgPathLength(sampleCap)), nil
}

// Anomalous reports whether a score crosses the decision threshold.
func Anomalous(score float64) bool {
	return score > Threshold
}

func pathLength(n *node, x []float64, depth int) float64 {
	if n.leaf {
		return float64(depth) + avgPathLength(n.size)
	}
	if x[n.feature] < n.split {
		return pathLength(n.left, x, depth+1)
	}
	return pathLength(n.right, x, depth+1)
}

// avgPathLength is c(n), the expected path length of an unsuccessful search
// in a binary tree of n points.
func avgPathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	nf := float64(n)
	return 2*(math.Log(nf-1)+eulerMascheroni) - 2*(nf-1)/nf
}
