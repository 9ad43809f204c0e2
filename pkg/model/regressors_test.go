package model

import (
	"math"
	"math/rand"
	"testing"
)

func stepData(n int) ([][]float64, []float64) {
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n) * 10
		X[i] = []float64{x, float64(i % 3)}
		if x > 5 {
			y[i] = 10
		}
	}
	return X, y
}

func linearData(n int, seed int64) ([][]float64, []float64) {
	rnd := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := range X {
		a, b := rnd.NormFloat64(), rnd.NormFloat64()
		X[i] = []float64{a, b}
		y[i] = 3*a - 2*b + 5
	}
	return X, y
}

func TestLinearRegressionRecoversCoefficients(t *testing.T) {
	X, y := linearData(500, 1)
	m := NewLinearRegression(1e-6)
	if err := m.Fit(X, y); err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	if !almostEqual(m.Weights[0], 3, 1e-4) || !almostEqual(m.Weights[1], -2, 1e-4) || !almostEqual(m.Bias, 5, 1e-4) {
		t.Errorf("coefficients = %v bias %v", m.Weights, m.Bias)
	}
}

func TestLinearRegressionHandlesCollinearOneHot(t *testing.T) {
	// two one-hot columns always sum to 1, which is collinear with the intercept
	X := [][]float64{{1, 0}, {0, 1}, {1, 0}, {0, 1}}
	y := []float64{10, 20, 10, 20}
	m := NewLinearRegression(0.01)
	if err := m.Fit(X, y); err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	pred := m.Predict(X)
	for i := range y {
		if !almostEqual(pred[i], y[i], 0.1) {
			t.Errorf("pred[%d] = %v, want %v", i, pred[i], y[i])
		}
	}
}

func TestRegressionTreeLearnsStep(t *testing.T) {
	X, y := stepData(200)
	tree := NewRegressionTree(WithMaxDepth(3))
	if err := tree.Fit(X, y); err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	pred := tree.Predict([][]float64{{1, 0}, {4.9, 1}, {5.2, 2}, {9, 0}})
	want := []float64{0, 0, 10, 10}
	for i := range want {
		if !almostEqual(pred[i], want[i], 1e-9) {
			t.Errorf("pred[%d] = %v, want %v", i, pred[i], want[i])
		}
	}
	if tree.Root.Leaf || tree.Root.Feature != 0 {
		t.Errorf("root should split on feature 0, got %+v", tree.Root)
	}
}

func TestRegressionTreeErrors(t *testing.T) {
	if err := NewRegressionTree().Fit(nil, nil); err == nil {
		t.Error("expected error for empty X")
	}
	if err := NewRegressionTree().Fit([][]float64{{1}}, []float64{1, 2}); err == nil {
		t.Error("expected error for length mismatch")
	}
}

func TestBinEdges(t *testing.T) {
	edges := binEdges([]float64{3, 1, 2, 2, 1}, 64)
	want := []float64{1.5, 2.5}
	if len(edges) != len(want) {
		t.Fatalf("edges = %v", edges)
	}
	for i := range want {
		if edges[i] != want[i] {
			t.Errorf("edges[%d] = %v, want %v", i, edges[i], want[i])
		}
	}

	if binEdges([]float64{4, 4, 4}, 64) != nil {
		t.Error("constant column should have no edges")
	}

	many := make([]float64, 1000)
	for i := range many {
		many[i] = float64(i)
	}
	edges = binEdges(many, 16)
	if len(edges) == 0 || len(edges) > 15 {
		t.Fatalf("quantile edges = %d", len(edges))
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			t.Fatalf("edges not increasing: %v", edges)
		}
	}
}

func TestRandomForestAndBoostingFitStep(t *testing.T) {
	X, y := stepData(400)

	models := map[string]Regressor{
		NameForest:   NewRandomForest(WithNEstimators(8), WithForestMinLeaf(2)),
		NameBoosting: NewGradientBoosting(WithRounds(60), WithLearningRate(0.3), WithBoostDepth(3)),
	}
	for name, m := range models {
		if err := m.Fit(X, y); err != nil {
			t.Fatalf("%s Fit error: %v", name, err)
		}
		if rmse := RMSE(y, m.Predict(X)); rmse > 1.5 {
			t.Errorf("%s training RMSE = %v", name, rmse)
		}
	}
}

func TestRandomForestDeterministic(t *testing.T) {
	X, y := linearData(300, 7)
	a := NewRandomForest(WithNEstimators(5), WithForestSeed(3))
	b := NewRandomForest(WithNEstimators(5), WithForestSeed(3))
	if err := a.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	if err := b.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	pa, pb := a.Predict(X), b.Predict(X)
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("row %d: %v != %v", i, pa[i], pb[i])
		}
	}
	if math.IsNaN(pa[0]) {
		t.Fatal("NaN prediction")
	}
}

func TestWeightedEnsemble(t *testing.T) {
	y := []float64{1, 2, 3, 4}
	preds := [][]float64{
		{1, 2, 3, 4},     // perfect
		{10, 10, 10, 10}, // useless
	}
	ens, err := FitEnsemble([]string{"good", "bad"}, preds, y, 10)
	if err != nil {
		t.Fatalf("FitEnsemble error: %v", err)
	}
	if ens.Weights[0] != 1 || ens.Weights[1] != 0 {
		t.Errorf("weights = %v, want [1 0]", ens.Weights)
	}

	// two biased members on opposite sides balance out
	preds = [][]float64{
		{0, 1, 2, 3},
		{2, 3, 4, 5},
	}
	ens, err = FitEnsemble([]string{"low", "high"}, preds, y, 10)
	if err != nil {
		t.Fatal(err)
	}
	sum := 0.0
	for _, w := range ens.Weights {
		if w < 0 {
			t.Errorf("negative weight %v", w)
		}
		sum += w
	}
	if !almostEqual(sum, 1, 1e-12) {
		t.Errorf("weights sum to %v", sum)
	}
	if !almostEqual(ens.Weights[0], 0.5, 1e-12) {
		t.Errorf("weights = %v, want an even blend", ens.Weights)
	}
	if rmse := RMSE(y, ens.Blend(preds)); rmse > 1e-12 {
		t.Errorf("blended RMSE = %v", rmse)
	}

	if _, err := FitEnsemble([]string{"a"}, nil, y, 5); err == nil {
		t.Error("expected mismatch error")
	}
}
