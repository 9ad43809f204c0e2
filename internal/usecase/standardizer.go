package usecase

import (
	"context"
	"fmt"
	"time"

	"airfare-service/pkg/features"
	"airfare-service/pkg/logger"
	"airfare-service/pkg/scaler"
	"airfare-service/pkg/utils"
)

// StandardizerOptions configures a Standardizer
type StandardizerOptions struct {
	InputPath  string
	OutputPath string
	ScalerPath string
}

// Standardizer fits the scaler on the cleaned data and writes the model-ready file
type Standardizer struct {
	opts   StandardizerOptions
	logger logger.Logger
}

// NewStandardizer creates a new standardizer
func NewStandardizer(opts StandardizerOptions, logger logger.Logger) *Standardizer {
	return &Standardizer{
		opts:   opts,
		logger: logger,
	}
}

// Standardize fits and saves the scaler, then writes the scaled columns first
// followed by every other column in its cleaned order.
func (s *Standardizer) Standardize(ctx context.Context) (*scaler.StandardScaler, error) {
	df, err := utils.ReadCSV(s.opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("standardize: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sc, err := scaler.Fit(df, features.NumericColumns)
	if err != nil {
		return nil, fmt.Errorf("standardize: %w", err)
	}

	if stats, err := ReadStats(StatsPath(s.opts.InputPath)); err == nil {
		sc.ReferenceDate = stats.ReferenceDate
	} else {
		s.logger.Warn("Cleaning summary not found, scaler will not record the days_left reference", "error", err)
	}

	if err := sc.Save(s.opts.ScalerPath); err != nil {
		return nil, fmt.Errorf("standardize: %w", err)
	}
	s.logger.Info("Saved scaler",
		"path", s.opts.ScalerPath,
		"rows", sc.Rows,
		"reference", sc.ReferenceDate.Format(time.DateOnly),
	)

	scaled, err := sc.Transform(df)
	if err != nil {
		return nil, fmt.Errorf("standardize: %w", err)
	}

	order := append([]string(nil), features.NumericColumns...)
	for _, name := range scaled.Names() {
		if !utils.Contains(features.NumericColumns, name) {
			order = append(order, name)
		}
	}
	final := scaled.Select(order)
	if final.Err != nil {
		return nil, fmt.Errorf("standardize: %w", final.Err)
	}

	if err := utils.WriteCSV(final, s.opts.OutputPath); err != nil {
		return nil, fmt.Errorf("standardize: %w", err)
	}
	s.logger.Info("Wrote standardized dataset", "path", s.opts.OutputPath, "rows", final.Nrow())
	return sc, nil
}
