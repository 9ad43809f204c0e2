package model

import (
	"errors"
	"math/rand"
	"sort"
)

const defaultMaxBins = 64

// TreeNode is a node of a regression tree. Rows with x[Feature] <= Threshold go left.
type TreeNode struct {
	Leaf      bool
	Value     float64
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
	N         int
}

// RegressionTree is a CART regressor minimizing squared error. Candidate
// thresholds come from per-feature histograms of at most MaxBins bins.
type RegressionTree struct {
	MaxDepth        int // 0 => no limit
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int // 0 => all features
	MaxBins         int
	Seed            int64

	Root *TreeNode
}

// TreeOption functional config
type TreeOption func(*RegressionTree)

func WithMaxDepth(d int) TreeOption { return func(t *RegressionTree) { t.MaxDepth = d } }
func WithMinSamplesSplit(n int) TreeOption {
	return func(t *RegressionTree) { t.MinSamplesSplit = n }
}
func WithMinSamplesLeaf(n int) TreeOption {
	return func(t *RegressionTree) { t.MinSamplesLeaf = n }
}
func WithMaxFeatures(k int) TreeOption { return func(t *RegressionTree) { t.MaxFeatures = k } }
func WithMaxBins(b int) TreeOption     { return func(t *RegressionTree) { t.MaxBins = b } }
func WithSeed(seed int64) TreeOption   { return func(t *RegressionTree) { t.Seed = seed } }

// NewRegressionTree returns a tree with sensible defaults
func NewRegressionTree(opts ...TreeOption) *RegressionTree {
	t := &RegressionTree{
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxBins:         defaultMaxBins,
		Seed:            1,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Fit grows the tree on all rows of X
func (t *RegressionTree) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("tree: empty X")
	}
	if len(X) != len(y) {
		return errors.New("tree: X and y length mismatch")
	}

	bd := newBinnedData(X, t.MaxBins)
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	t.fitBinned(bd, y, idx, rand.New(rand.NewSource(t.Seed)))
	return nil
}

// Predict routes every row to a leaf
func (t *RegressionTree) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		out[i] = t.predictRow(x)
	}
	return out
}

func (t *RegressionTree) predictRow(x []float64) float64 {
	node := t.Root
	for node != nil && !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	if node == nil {
		return 0
	}
	return node.Value
}

func (t *RegressionTree) fitBinned(bd *binnedData, y []float64, idx []int, rnd *rand.Rand) {
	t.Root = t.build(bd, y, idx, 0, rnd)
}

func (t *RegressionTree) build(bd *binnedData, y []float64, idx []int, depth int, rnd *rand.Rand) *TreeNode {
	n := len(idx)
	sum, sumSq := 0.0, 0.0
	for _, i := range idx {
		sum += y[i]
		sumSq += y[i] * y[i]
	}
	mean := 0.0
	if n > 0 {
		mean = sum / float64(n)
	}
	leaf := &TreeNode{Leaf: true, Value: mean, N: n}

	if n < t.MinSamplesSplit || n < 2*t.MinSamplesLeaf {
		return leaf
	}
	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		return leaf
	}
	if sumSq-sum*sum/float64(n) <= 1e-12 {
		return leaf
	}

	feature, bin, ok := t.bestSplit(bd, y, idx, sum, rnd)
	if !ok {
		return leaf
	}

	bins := bd.bins[feature]
	left := make([]int, 0, n/2)
	right := make([]int, 0, n/2)
	for _, i := range idx {
		if int(bins[i]) <= bin {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: bd.edges[feature][bin],
		N:         n,
		Value:     mean,
		Left:      t.build(bd, y, left, depth+1, rnd),
		Right:     t.build(bd, y, right, depth+1, rnd),
	}
}

// bestSplit maximizes sumL²/nL + sumR²/nR, which is the same as minimizing
// the children's squared error.
func (t *RegressionTree) bestSplit(bd *binnedData, y []float64, idx []int, total float64, rnd *rand.Rand) (int, int, bool) {
	n := len(idx)
	features := bd.candidateFeatures(t.MaxFeatures, rnd)

	bestScore := total * total / float64(n)
	bestFeature, bestBin := -1, -1

	counts := make([]int, bd.maxBins)
	sums := make([]float64, bd.maxBins)

	for _, f := range features {
		nEdges := len(bd.edges[f])
		if nEdges == 0 {
			continue
		}
		for b := 0; b <= nEdges; b++ {
			counts[b], sums[b] = 0, 0
		}
		bins := bd.bins[f]
		for _, i := range idx {
			b := bins[i]
			counts[b]++
			sums[b] += y[i]
		}

		nl, sl := 0, 0.0
		for b := 0; b < nEdges; b++ {
			nl += counts[b]
			sl += sums[b]
			nr := n - nl
			if nl < t.MinSamplesLeaf || nr < t.MinSamplesLeaf {
				continue
			}
			if nl == 0 || nr == 0 {
				continue
			}
			sr := total - sl
			score := sl*sl/float64(nl) + sr*sr/float64(nr)
			if score > bestScore+1e-12 {
				bestScore = score
				bestFeature, bestBin = f, b
			}
		}
	}

	return bestFeature, bestBin, bestFeature >= 0
}

// binnedData holds X discretized column by column. Bin b of feature f covers
// values x with edges[f][b-1] < x <= edges[f][b].
type binnedData struct {
	bins    [][]uint8
	edges   [][]float64
	maxBins int
}

func newBinnedData(X [][]float64, maxBins int) *binnedData {
	if maxBins <= 1 || maxBins > 256 {
		maxBins = defaultMaxBins
	}
	n, p := len(X), len(X[0])
	bd := &binnedData{
		bins:    make([][]uint8, p),
		edges:   make([][]float64, p),
		maxBins: maxBins,
	}

	col := make([]float64, n)
	for f := 0; f < p; f++ {
		for i := range X {
			col[i] = X[i][f]
		}
		edges := binEdges(col, maxBins)
		bd.edges[f] = edges

		bins := make([]uint8, n)
		for i := range X {
			bins[i] = uint8(sort.SearchFloat64s(edges, X[i][f]))
		}
		bd.bins[f] = bins
	}
	return bd
}

func (bd *binnedData) candidateFeatures(maxFeatures int, rnd *rand.Rand) []int {
	p := len(bd.edges)
	if maxFeatures <= 0 || maxFeatures >= p {
		all := make([]int, p)
		for i := range all {
			all[i] = i
		}
		return all
	}
	return rnd.Perm(p)[:maxFeatures]
}

// binEdges returns at most maxBins-1 increasing split points for the values
func binEdges(values []float64, maxBins int) []float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	unique := sorted[:0:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			unique = append(unique, v)
		}
	}
	if len(unique) < 2 {
		return nil
	}

	if len(unique) <= maxBins {
		edges := make([]float64, len(unique)-1)
		for i := range edges {
			edges[i] = (unique[i] + unique[i+1]) / 2
		}
		return edges
	}

	edges := make([]float64, 0, maxBins-1)
	for k := 1; k < maxBins; k++ {
		q := sorted[k*len(sorted)/maxBins]
		if len(edges) == 0 || q > edges[len(edges)-1] {
			if q < unique[len(unique)-1] {
				edges = append(edges, q)
			}
		}
	}
	return edges
}
