// Package model is the fare prediction engine: a handful of tabular
// regressors fitted on one-hot encoded frames and blended by a greedy
// weighted ensemble.
package model

// Regressor is a supervised learner over dense rows
type Regressor interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) []float64
}

// Member names, as reported in evaluation output
const (
	NameLinear   = "LinearRegression"
	NameForest   = "RandomForest"
	NameBoosting = "GradientBoosting"
	NameEnsemble = "WeightedEnsemble"
)
