package model

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LinearRegression is ridge-regularized least squares. The intercept is not penalized.
type LinearRegression struct {
	Lambda  float64
	Weights []float64
	Bias    float64
}

// NewLinearRegression returns a ridge regressor with the given penalty
func NewLinearRegression(lambda float64) *LinearRegression {
	return &LinearRegression{Lambda: lambda}
}

// Fit solves (XᵀX + λI)β = Xᵀy. The normal equations are accumulated row by
// row so the design matrix is never materialized.
func (m *LinearRegression) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("linear: empty X")
	}
	if len(X) != len(y) {
		return errors.New("linear: X and y length mismatch")
	}

	p := len(X[0])
	d := p + 1 // trailing intercept column
	xtx := make([]float64, d*d)
	xty := make([]float64, d)

	row := make([]float64, d)
	for i, x := range X {
		if len(x) != p {
			return fmt.Errorf("linear: row %d has %d features, want %d", i, len(x), p)
		}
		copy(row, x)
		row[p] = 1
		for a := 0; a < d; a++ {
			if row[a] == 0 {
				continue
			}
			xty[a] += row[a] * y[i]
			for b := 0; b < d; b++ {
				xtx[a*d+b] += row[a] * row[b]
			}
		}
	}
	for a := 0; a < p; a++ {
		xtx[a*d+a] += m.Lambda
	}

	var beta mat.VecDense
	if err := beta.SolveVec(mat.NewDense(d, d, xtx), mat.NewVecDense(d, xty)); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return fmt.Errorf("linear: solve failed: %w", err)
		}
		// ill-conditioned but solved; keep the estimate
	}

	m.Weights = make([]float64, p)
	for j := 0; j < p; j++ {
		m.Weights[j] = beta.AtVec(j)
	}
	m.Bias = beta.AtVec(p)
	return nil
}

// Predict returns Xβ + b for every row
func (m *LinearRegression) Predict(X [][]float64) []float64 {
	pred := make([]float64, len(X))
	for i, row := range X {
		sum := m.Bias
		for j, v := range row {
			sum += m.Weights[j] * v
		}
		pred[i] = sum
	}
	return pred
}
