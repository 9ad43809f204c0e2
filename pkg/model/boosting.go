package model

import (
	"errors"
	"math/rand"
)

// GradientBoosting fits shallow trees to squared-error residuals
type GradientBoosting struct {
	NRounds        int
	LearningRate   float64
	MaxDepth       int
	MinSamplesLeaf int
	Subsample      float64
	Seed           int64

	Init  float64
	Trees []*RegressionTree
}

// BoostingOption functional config
type BoostingOption func(*GradientBoosting)

func WithRounds(n int) BoostingOption            { return func(g *GradientBoosting) { g.NRounds = n } }
func WithLearningRate(lr float64) BoostingOption { return func(g *GradientBoosting) { g.LearningRate = lr } }
func WithBoostDepth(d int) BoostingOption        { return func(g *GradientBoosting) { g.MaxDepth = d } }
func WithSubsample(r float64) BoostingOption     { return func(g *GradientBoosting) { g.Subsample = r } }
func WithBoostSeed(seed int64) BoostingOption    { return func(g *GradientBoosting) { g.Seed = seed } }

// NewGradientBoosting returns a booster with sensible defaults
func NewGradientBoosting(opts ...BoostingOption) *GradientBoosting {
	g := &GradientBoosting{
		NRounds:        100,
		LearningRate:   0.1,
		MaxDepth:       6,
		MinSamplesLeaf: 20,
		Subsample:      0.8,
		Seed:           42,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Fit runs NRounds of boosting starting from the target mean
func (g *GradientBoosting) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("boosting: empty X")
	}
	if len(X) != len(y) {
		return errors.New("boosting: X and y length mismatch")
	}

	n := len(X)
	g.Init = 0
	for _, v := range y {
		g.Init += v
	}
	g.Init /= float64(n)

	current := make([]float64, n)
	for i := range current {
		current[i] = g.Init
	}

	sampleSize := int(float64(n) * g.Subsample)
	if sampleSize <= 0 || sampleSize > n {
		sampleSize = n
	}

	bd := newBinnedData(X, defaultMaxBins)
	rnd := rand.New(rand.NewSource(g.Seed))
	residuals := make([]float64, n)
	g.Trees = make([]*RegressionTree, 0, g.NRounds)

	minLeaf := g.MinSamplesLeaf
	if minLeaf > n/2 {
		minLeaf = 1
	}

	for round := 0; round < g.NRounds; round++ {
		for i := range residuals {
			residuals[i] = y[i] - current[i]
		}

		idx := rnd.Perm(n)[:sampleSize]
		tree := NewRegressionTree(
			WithMaxDepth(g.MaxDepth),
			WithMinSamplesLeaf(minLeaf),
			WithMinSamplesSplit(2*minLeaf),
		)
		tree.fitBinned(bd, residuals, idx, rnd)
		g.Trees = append(g.Trees, tree)

		for i, x := range X {
			current[i] += g.LearningRate * tree.predictRow(x)
		}
	}
	return nil
}

// Predict sums the scaled tree outputs on top of the initial value
func (g *GradientBoosting) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		s := g.Init
		for _, tree := range g.Trees {
			s += g.LearningRate * tree.predictRow(x)
		}
		out[i] = s
	}
	return out
}
