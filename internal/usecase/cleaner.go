package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"airfare-service/pkg/features"
	"airfare-service/pkg/logger"
	"airfare-service/pkg/metrics"
	"airfare-service/pkg/utils"
)

// Raw column names of the combined file
const (
	rawAirline   = "airline"
	rawDate      = "date"
	rawFrom      = "from"
	rawTimeTaken = "time_taken"
	rawStop      = "stop"
	rawTo        = "to"
	rawDepTime   = "dep_time"
	rawArrTime   = "arr_time"
	rawPrice     = "price"
)

var rawColumns = []string{
	rawAirline, rawDate, rawFrom, rawTimeTaken, rawStop,
	rawTo, rawDepTime, rawArrTime, rawPrice, features.ColClass,
}

// ErrBadPrice aborts a cleaning run
var ErrBadPrice = errors.New("price column is not numeric")

// CleanStats reports what a cleaning run kept and dropped
type CleanStats struct {
	InputRows     int            `json:"inputRows"`
	OutputRows    int            `json:"outputRows"`
	Dropped       map[string]int `json:"dropped"` // by failing field
	ReferenceDate time.Time      `json:"referenceDate"`
}

// CleanerOptions configures a Cleaner
type CleanerOptions struct {
	InputPath    string
	OutputPath   string
	ExchangeRate float64
	// ReferenceDate in the raw date layout; empty picks the earliest flight date
	ReferenceDate string
}

// Cleaner turns combined raw listings into typed model features
type Cleaner struct {
	opts    CleanerOptions
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewCleaner creates a new cleaner. metrics may be nil.
func NewCleaner(opts CleanerOptions, metrics *metrics.Metrics, logger logger.Logger) *Cleaner {
	return &Cleaner{
		opts:    opts,
		metrics: metrics,
		logger:  logger,
	}
}

// StatsPath is where the run summary is written next to the cleaned file
func StatsPath(cleanedPath string) string {
	return cleanedPath + ".stats.json"
}

// Clean derives features for every row. Rows with an unparseable stop, clock
// time, duration or date are dropped; an unparseable price aborts the run.
func (c *Cleaner) Clean(ctx context.Context) (*CleanStats, error) {
	df, err := utils.ReadCSV(c.opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}

	cols := make(map[string][]string, len(rawColumns))
	for _, name := range rawColumns {
		records, err := utils.Column(df, name)
		if err != nil {
			return nil, fmt.Errorf("clean: %w", err)
		}
		cols[name] = records
	}

	reference, err := c.referenceDate(cols[rawDate])
	if err != nil {
		return nil, err
	}
	c.logger.Info("Using days_left reference", "date", reference.Format(time.DateOnly))

	opts := features.Options{
		DateLayout:    utils.RAW_DATE_LAYOUT,
		ReferenceDate: reference,
		ConvertPrice:  true,
		ExchangeRate:  c.opts.ExchangeRate,
	}

	stats := &CleanStats{
		InputRows:     df.Nrow(),
		Dropped:       make(map[string]int),
		ReferenceDate: reference,
	}
	rows := make([]features.Features, 0, df.Nrow())

	for i := 0; i < df.Nrow(); i++ {
		if i%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		f, err := features.Derive(features.RawFare{
			Class:         cols[features.ColClass][i],
			Airline:       cols[rawAirline][i],
			Date:          cols[rawDate][i],
			DepartureCity: cols[rawFrom][i],
			ArrivalCity:   cols[rawTo][i],
			DepTime:       cols[rawDepTime][i],
			ArrTime:       cols[rawArrTime][i],
			Stop:          cols[rawStop][i],
			TimeTaken:     cols[rawTimeTaken][i],
			Price:         cols[rawPrice][i],
		}, opts)
		if err != nil {
			if features.IsPriceError(err) {
				c.logger.Error("Price conversion failed", "row", i, "error", err)
				return nil, fmt.Errorf("clean: row %d: %w: %v", i, ErrBadPrice, err)
			}
			var fe *features.FieldError
			field := "unknown"
			if errors.As(err, &fe) {
				field = fe.Field
			}
			stats.Dropped[field]++
			if c.metrics != nil {
				c.metrics.RowsDropped.WithLabelValues(field).Inc()
			}
			continue
		}
		rows = append(rows, f)
	}
	stats.OutputRows = len(rows)

	if len(rows) == 0 {
		return nil, errors.New("clean: every row was dropped")
	}

	if err := utils.WriteCSV(features.Frame(rows, true), c.opts.OutputPath); err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}
	if err := writeStats(StatsPath(c.opts.OutputPath), stats); err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}

	c.logger.Info("Wrote cleaned listings",
		"path", c.opts.OutputPath,
		"input", stats.InputRows,
		"output", stats.OutputRows,
		"dropped", stats.Dropped,
	)
	return stats, nil
}

func (c *Cleaner) referenceDate(dates []string) (time.Time, error) {
	if c.opts.ReferenceDate != "" {
		ref, err := utils.ParseFlightDate(c.opts.ReferenceDate, utils.RAW_DATE_LAYOUT)
		if err != nil {
			return time.Time{}, fmt.Errorf("clean: invalid reference date: %w", err)
		}
		return ref, nil
	}

	var earliest time.Time
	for _, s := range dates {
		d, err := utils.ParseFlightDate(s, utils.RAW_DATE_LAYOUT)
		if err != nil {
			continue
		}
		if earliest.IsZero() || d.Before(earliest) {
			earliest = d
		}
	}
	if earliest.IsZero() {
		return time.Time{}, errors.New("clean: no parseable flight dates")
	}
	return earliest, nil
}

func writeStats(path string, stats *CleanStats) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadStats loads the summary written by Clean
func ReadStats(path string) (*CleanStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var stats CleanStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &stats, nil
}
