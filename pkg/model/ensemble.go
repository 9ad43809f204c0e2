package model

import (
	"errors"
	"math"
)

// WeightedEnsemble blends member predictions with non-negative weights that
// sum to one. Weights come from greedy forward selection with replacement
// on a validation set.
type WeightedEnsemble struct {
	Members []string
	Weights []float64
}

// FitEnsemble selects members for the given number of iterations. preds[m]
// holds member m's predictions for the rows of y.
func FitEnsemble(members []string, preds [][]float64, y []float64, iterations int) (*WeightedEnsemble, error) {
	if len(members) == 0 || len(members) != len(preds) {
		return nil, errors.New("ensemble: members and predictions mismatch")
	}
	if len(y) == 0 {
		return nil, errors.New("ensemble: empty validation set")
	}
	if iterations <= 0 {
		iterations = 25
	}

	n := len(y)
	counts := make([]int, len(members))
	sum := make([]float64, n)
	candidate := make([]float64, n)

	for it := 1; it <= iterations; it++ {
		best, bestErr := -1, math.Inf(1)
		for m, p := range preds {
			for i := range candidate {
				candidate[i] = (sum[i] + p[i]) / float64(it)
			}
			if e := RMSE(y, candidate); e < bestErr {
				best, bestErr = m, e
			}
		}
		counts[best]++
		for i := range sum {
			sum[i] += preds[best][i]
		}
	}

	ens := &WeightedEnsemble{
		Members: append([]string(nil), members...),
		Weights: make([]float64, len(members)),
	}
	for m, c := range counts {
		ens.Weights[m] = float64(c) / float64(iterations)
	}
	return ens, nil
}

// Blend combines member predictions. preds must be ordered like Members.
func (e *WeightedEnsemble) Blend(preds [][]float64) []float64 {
	if len(preds) == 0 {
		return nil
	}
	out := make([]float64, len(preds[0]))
	for m, p := range preds {
		w := e.Weights[m]
		if w == 0 {
			continue
		}
		for i, v := range p {
			out[i] += w * v
		}
	}
	return out
}
