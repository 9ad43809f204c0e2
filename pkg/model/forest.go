package model

import (
	"errors"
	"math/rand"
	"runtime"
	"sync"
)

// RandomForest averages bootstrap-bagged regression trees grown on random
// feature subsets.
type RandomForest struct {
	NEstimators    int
	MaxDepth       int
	MinSamplesLeaf int
	MaxFeatures    int // 0 => one third of the features
	MaxSamples     float64
	Bootstrap      bool
	Seed           int64

	Trees []*RegressionTree
}

// RandomForestOption functional config
type RandomForestOption func(*RandomForest)

func WithNEstimators(n int) RandomForestOption { return func(rf *RandomForest) { rf.NEstimators = n } }
func WithBootstrap(b bool) RandomForestOption  { return func(rf *RandomForest) { rf.Bootstrap = b } }
func WithForestDepth(d int) RandomForestOption { return func(rf *RandomForest) { rf.MaxDepth = d } }
func WithForestMinLeaf(n int) RandomForestOption {
	return func(rf *RandomForest) { rf.MinSamplesLeaf = n }
}
func WithForestMaxFeatures(k int) RandomForestOption {
	return func(rf *RandomForest) { rf.MaxFeatures = k }
}
func WithMaxSamples(ratio float64) RandomForestOption {
	return func(rf *RandomForest) { rf.MaxSamples = ratio }
}
func WithForestSeed(seed int64) RandomForestOption { return func(rf *RandomForest) { rf.Seed = seed } }

// NewRandomForest returns a forest with sensible defaults
func NewRandomForest(opts ...RandomForestOption) *RandomForest {
	rf := &RandomForest{
		NEstimators:    20,
		MaxDepth:       16,
		MinSamplesLeaf: 5,
		MaxSamples:     1.0,
		Bootstrap:      true,
		Seed:           42,
	}
	for _, o := range opts {
		o(rf)
	}
	return rf
}

// Fit grows the trees concurrently. Each tree has its own seeded source, so
// the result does not depend on scheduling.
func (rf *RandomForest) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("forest: empty X")
	}
	if len(X) != len(y) {
		return errors.New("forest: X and y length mismatch")
	}
	if rf.NEstimators <= 0 {
		return errors.New("forest: NEstimators must be positive")
	}

	n, p := len(X), len(X[0])
	maxFeatures := rf.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = p / 3
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}
	sampleSize := int(float64(n) * rf.MaxSamples)
	if sampleSize <= 0 || sampleSize > n {
		sampleSize = n
	}

	bd := newBinnedData(X, defaultMaxBins)
	rf.Trees = make([]*RegressionTree, rf.NEstimators)

	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	for t := 0; t < rf.NEstimators; t++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(t int) {
			defer wg.Done()
			defer func() { <-sem }()

			seed := rf.Seed + int64(t)
			rnd := rand.New(rand.NewSource(seed))
			idx := make([]int, sampleSize)
			if rf.Bootstrap {
				for i := range idx {
					idx[i] = rnd.Intn(n)
				}
			} else {
				copy(idx, rnd.Perm(n)[:sampleSize])
			}

			tree := NewRegressionTree(
				WithMaxDepth(rf.MaxDepth),
				WithMinSamplesLeaf(rf.MinSamplesLeaf),
				WithMinSamplesSplit(2*rf.MinSamplesLeaf),
				WithMaxFeatures(maxFeatures),
				WithSeed(seed),
			)
			tree.fitBinned(bd, y, idx, rnd)
			rf.Trees[t] = tree
		}(t)
	}
	wg.Wait()
	return nil
}

// Predict averages the trees
func (rf *RandomForest) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	if len(rf.Trees) == 0 {
		return out
	}
	for i, x := range X {
		s := 0.0
		for _, tree := range rf.Trees {
			s += tree.predictRow(x)
		}
		out[i] = s / float64(len(rf.Trees))
	}
	return out
}
