package model

import (
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"airfare-service/pkg/utils"

	"github.com/go-gota/gota/dataframe"
)

// TrainOptions tunes Train
type TrainOptions struct {
	ForestTrees        int
	BoostRounds        int
	RidgeLambda        float64
	ValidationRatio    float64
	EnsembleIterations int
	Seed               int64
}

// DefaultTrainOptions mirrors a medium-quality, fast-to-train preset
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		ForestTrees:        20,
		BoostRounds:        100,
		RidgeLambda:        1.0,
		ValidationRatio:    0.1,
		EnsembleIterations: 25,
		Seed:               42,
	}
}

// Predictor is the persisted model bundle: the encoder that fixes the input
// schema, the fitted members and the ensemble over them.
type Predictor struct {
	Label          string
	Encoder        *Encoder
	Linear         *LinearRegression
	Forest         *RandomForest
	Boosting       *GradientBoosting
	Ensemble       *WeightedEnsemble
	Best           string
	ValidationRMSE map[string]float64
	TrainedAt      time.Time
	TrainRows      int
}

// Train fits every member on df and picks the one with the lowest validation RMSE
func Train(df dataframe.DataFrame, label string, opts TrainOptions) (*Predictor, error) {
	if !utils.HasColumn(df, label) {
		return nil, fmt.Errorf("train: label column %q not found", label)
	}
	if df.Nrow() < 10 {
		return nil, fmt.Errorf("train: need at least 10 rows, got %d", df.Nrow())
	}

	enc, err := FitEncoder(df, label)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	X, err := enc.Encode(df)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	y, err := utils.Floats(df, label)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	fitIdx, valIdx := TrainTestSplit(len(X), opts.ValidationRatio, opts.Seed)
	if len(valIdx) == 0 {
		valIdx = fitIdx
	}
	Xfit, yfit := selectRows(X, fitIdx), selectValues(y, fitIdx)
	Xval, yval := selectRows(X, valIdx), selectValues(y, valIdx)

	p := &Predictor{
		Label:          label,
		Encoder:        enc,
		Linear:         NewLinearRegression(opts.RidgeLambda),
		Forest:         NewRandomForest(WithNEstimators(opts.ForestTrees), WithForestSeed(opts.Seed)),
		Boosting:       NewGradientBoosting(WithRounds(opts.BoostRounds), WithBoostSeed(opts.Seed)),
		ValidationRMSE: make(map[string]float64),
		TrainedAt:      time.Now().UTC(),
		TrainRows:      len(fitIdx),
	}

	members := p.baseNames()
	valPreds := make([][]float64, len(members))
	for m, name := range members {
		r := p.member(name)
		if err := r.Fit(Xfit, yfit); err != nil {
			return nil, fmt.Errorf("train %s: %w", name, err)
		}
		valPreds[m] = r.Predict(Xval)
		p.ValidationRMSE[name] = RMSE(yval, valPreds[m])
	}

	p.Ensemble, err = FitEnsemble(members, valPreds, yval, opts.EnsembleIterations)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	p.ValidationRMSE[NameEnsemble] = RMSE(yval, p.Ensemble.Blend(valPreds))

	best := ""
	for _, name := range p.ModelNames() {
		if best == "" || p.ValidationRMSE[name] < p.ValidationRMSE[best] {
			best = name
		}
	}
	p.Best = best

	return p, nil
}

func (p *Predictor) baseNames() []string {
	return []string{NameLinear, NameForest, NameBoosting}
}

// ModelNames lists the members and the ensemble
func (p *Predictor) ModelNames() []string {
	return append(p.baseNames(), NameEnsemble)
}

func (p *Predictor) member(name string) Regressor {
	switch name {
	case NameLinear:
		return p.Linear
	case NameForest:
		return p.Forest
	case NameBoosting:
		return p.Boosting
	}
	return nil
}

// PredictMatrix predicts already encoded rows with the named model
func (p *Predictor) PredictMatrix(X [][]float64, name string) ([]float64, error) {
	if name == NameEnsemble {
		if p.Ensemble == nil {
			return nil, errors.New("predictor: ensemble not fitted")
		}
		preds := make([][]float64, len(p.Ensemble.Members))
		for m, member := range p.Ensemble.Members {
			r := p.member(member)
			if r == nil {
				return nil, fmt.Errorf("predictor: unknown ensemble member %q", member)
			}
			preds[m] = r.Predict(X)
		}
		return p.Ensemble.Blend(preds), nil
	}

	r := p.member(name)
	if r == nil {
		return nil, fmt.Errorf("predictor: unknown model %q", name)
	}
	return r.Predict(X), nil
}

// Predict encodes df and predicts with the named model
func (p *Predictor) Predict(df dataframe.DataFrame, name string) ([]float64, error) {
	X, err := p.Encoder.Encode(df)
	if err != nil {
		return nil, err
	}
	return p.PredictMatrix(X, name)
}

// PredictBest predicts with the model chosen during training
func (p *Predictor) PredictBest(df dataframe.DataFrame) ([]float64, error) {
	return p.Predict(df, p.Best)
}

// Save writes the bundle as a gob blob
func (p *Predictor) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("predictor: failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("predictor: failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(p); err != nil {
		return fmt.Errorf("predictor: failed to encode: %w", err)
	}
	return nil
}

// LoadPredictor reads a bundle written by Save
func LoadPredictor(path string) (*Predictor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("predictor: failed to open %s: %w", path, err)
	}
	defer f.Close()

	var p Predictor
	if err := gob.NewDecoder(f).Decode(&p); err != nil {
		return nil, fmt.Errorf("predictor: failed to decode %s: %w", path, err)
	}
	if p.Encoder == nil || p.Best == "" {
		return nil, fmt.Errorf("predictor: %s is incomplete", path)
	}
	return &p, nil
}

// IsFinite reports whether every value is a finite number
func IsFinite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
