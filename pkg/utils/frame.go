package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// HasColumn reports whether the DataFrame has a column with the given name
func HasColumn(df dataframe.DataFrame, name string) bool {
	return Contains(df.Names(), name)
}

// Column returns the string records of a column
func Column(df dataframe.DataFrame, name string) ([]string, error) {
	if !HasColumn(df, name) {
		return nil, fmt.Errorf("column %q not found", name)
	}
	return df.Col(name).Records(), nil
}

// ReadCSV loads a CSV file with every column kept as a string series
func ReadCSV(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to parse %s: %w", path, df.Err)
	}

	return df, nil
}

// WriteCSV writes the DataFrame to path, creating parent directories
func WriteCSV(df dataframe.DataFrame, path string) error {
	if df.Err != nil {
		return fmt.Errorf("refusing to write invalid frame: %w", df.Err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := df.WriteCSV(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// FloatSeries builds a string series from floats using the shortest
// representation that round-trips.
func FloatSeries(name string, values []float64) series.Series {
	records := make([]string, len(values))
	for i, v := range values {
		records[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return series.New(records, series.String, name)
}

// Floats parses every record of a column as float64
func Floats(df dataframe.DataFrame, name string) ([]float64, error) {
	records, err := Column(df, name)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(records))
	for i, r := range records {
		v, err := strconv.ParseFloat(r, 64)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", name, i, err)
		}
		values[i] = v
	}
	return values, nil
}
