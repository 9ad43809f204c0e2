// Package scaler standardizes named numeric columns to zero mean and unit
// variance and persists the fitted parameters so serving applies exactly the
// transform used in training.
package scaler

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"airfare-service/pkg/utils"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"
)

var ErrNotFitted = errors.New("scaler: not fitted")

// StandardScaler holds per-column mean and scale. Values are addressed by
// column name, so column order in a frame does not matter.
type StandardScaler struct {
	Columns []string
	Mean    map[string]float64
	Scale   map[string]float64

	// ReferenceDate is the days_left reference of the training data
	ReferenceDate time.Time
	FittedAt      time.Time
	Rows          int
}

// Fit computes the population mean and standard deviation of each column.
// A constant column gets scale 1 so it maps to zero instead of NaN.
func Fit(df dataframe.DataFrame, columns []string) (*StandardScaler, error) {
	if df.Nrow() == 0 {
		return nil, errors.New("scaler: cannot fit on an empty frame")
	}

	s := &StandardScaler{
		Columns:  append([]string(nil), columns...),
		Mean:     make(map[string]float64, len(columns)),
		Scale:    make(map[string]float64, len(columns)),
		FittedAt: time.Now().UTC(),
		Rows:     df.Nrow(),
	}

	for _, col := range columns {
		values, err := utils.Floats(df, col)
		if err != nil {
			return nil, fmt.Errorf("scaler: %w", err)
		}
		mean, std := stat.PopMeanStdDev(values, nil)
		if std == 0 {
			std = 1
		}
		s.Mean[col] = mean
		s.Scale[col] = std
	}

	return s, nil
}

// Transform returns a copy of df with the fitted columns standardized. Other
// columns pass through unchanged.
func (s *StandardScaler) Transform(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := s.validate(); err != nil {
		return df, err
	}

	out := df.Copy()
	for _, col := range s.Columns {
		values, err := utils.Floats(df, col)
		if err != nil {
			return df, fmt.Errorf("scaler: %w", err)
		}
		for i, v := range values {
			values[i] = (v - s.Mean[col]) / s.Scale[col]
		}
		out = out.Mutate(utils.FloatSeries(col, values))
		if out.Err != nil {
			return df, fmt.Errorf("scaler: %w", out.Err)
		}
	}
	return out, nil
}

// TransformValue standardizes a single value of a fitted column
func (s *StandardScaler) TransformValue(col string, v float64) (float64, error) {
	mean, scale, err := s.params(col)
	if err != nil {
		return 0, err
	}
	return (v - mean) / scale, nil
}

// InverseValue maps a standardized value back to its original unit
func (s *StandardScaler) InverseValue(col string, v float64) (float64, error) {
	mean, scale, err := s.params(col)
	if err != nil {
		return 0, err
	}
	return v*scale + mean, nil
}

// TransformValues standardizes a set of named values. Every fitted column must be present.
func (s *StandardScaler) TransformValues(values map[string]float64) (map[string]float64, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(values))
	for k, v := range values {
		out[k] = v
	}
	for _, col := range s.Columns {
		v, ok := values[col]
		if !ok {
			return nil, fmt.Errorf("scaler: missing column %q", col)
		}
		out[col] = (v - s.Mean[col]) / s.Scale[col]
	}
	return out, nil
}

func (s *StandardScaler) params(col string) (float64, float64, error) {
	if err := s.validate(); err != nil {
		return 0, 0, err
	}
	mean, ok := s.Mean[col]
	if !ok {
		return 0, 0, fmt.Errorf("scaler: column %q was not fitted", col)
	}
	return mean, s.Scale[col], nil
}

func (s *StandardScaler) validate() error {
	if s == nil || len(s.Columns) == 0 {
		return ErrNotFitted
	}
	for _, col := range s.Columns {
		if _, ok := s.Mean[col]; !ok {
			return fmt.Errorf("scaler: no mean for %q", col)
		}
		if scale, ok := s.Scale[col]; !ok || scale == 0 {
			return fmt.Errorf("scaler: invalid scale for %q", col)
		}
	}
	return nil
}

// Save writes the scaler as a gob blob
func (s *StandardScaler) Save(path string) error {
	if err := s.validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("scaler: failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("scaler: failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(s); err != nil {
		return fmt.Errorf("scaler: failed to encode: %w", err)
	}
	return nil
}

// Load reads a scaler written by Save
func Load(path string) (*StandardScaler, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scaler: failed to open %s: %w", path, err)
	}
	defer f.Close()

	var s StandardScaler
	if err := gob.NewDecoder(f).Decode(&s); err != nil {
		return nil, fmt.Errorf("scaler: failed to decode %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
