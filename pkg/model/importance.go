package model

import (
	"fmt"
	"math/rand"
	"sort"

	"airfare-service/pkg/utils"

	"github.com/go-gota/gota/dataframe"
)

// Importance is the RMSE increase caused by shuffling one source column
type Importance struct {
	Feature    string
	Importance float64
}

// PermutationImportance scores each source column of df for the named model.
// One-hot groups are permuted together. Results are sorted by importance, descending.
func PermutationImportance(p *Predictor, name string, df dataframe.DataFrame, seed int64) ([]Importance, error) {
	X, err := p.Encoder.Encode(df)
	if err != nil {
		return nil, fmt.Errorf("importance: %w", err)
	}
	y, err := utils.Floats(df, p.Label)
	if err != nil {
		return nil, fmt.Errorf("importance: %w", err)
	}

	basePred, err := p.PredictMatrix(X, name)
	if err != nil {
		return nil, err
	}
	base := RMSE(y, basePred)

	rnd := rand.New(rand.NewSource(seed))
	groups := p.Encoder.Groups()
	out := make([]Importance, 0, len(groups))

	shuffled := make([][]float64, len(X))
	for _, col := range p.Encoder.Columns {
		perm := rnd.Perm(len(X))
		for i := range X {
			row := append([]float64(nil), X[i]...)
			for _, j := range groups[col.Name] {
				row[j] = X[perm[i]][j]
			}
			shuffled[i] = row
		}

		pred, err := p.PredictMatrix(shuffled, name)
		if err != nil {
			return nil, err
		}
		out = append(out, Importance{Feature: col.Name, Importance: RMSE(y, pred) - base})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Importance > out[j].Importance })
	return out, nil
}
