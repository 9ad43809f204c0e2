package utils

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrUnparseableStops    = errors.New("unparseable stop description")
	ErrUnparseableDuration = errors.New("unparseable duration")
	ErrUnparseableClock    = errors.New("unparseable clock time")
	ErrUnparseableDate     = errors.New("unparseable date")
	ErrUnparseablePrice    = errors.New("unparseable price")
)

var (
	durationPattern = regexp.MustCompile(`^(\d+)\s*h\s+(\d+)\s*m$`)
	pricePattern    = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)
)

// ParseStops maps a stop description such as "1-stop Via IDR" to a stop count.
// Matching is by substring after lower-casing and trimming.
func ParseStops(s string) (int, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))

	switch {
	case strings.Contains(normalized, "non-stop"):
		return 0, nil
	case strings.Contains(normalized, "1-stop"):
		return 1, nil
	case strings.Contains(normalized, "2+-stop"):
		return 2, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnparseableStops, s)
}

// ParseStopsField accepts the numeric stop counts posted by the web form
// as well as the textual descriptions found in the raw data.
func ParseStopsField(s string) (int, error) {
	switch strings.TrimSpace(s) {
	case "0":
		return 0, nil
	case "1":
		return 1, nil
	case "2":
		return 2, nil
	}
	return ParseStops(s)
}

// ParseDuration converts an "Nh Mm" duration such as "3h 10m" to minutes
func ParseDuration(s string) (int, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))

	match := durationPattern.FindStringSubmatch(normalized)
	if match == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnparseableDuration, s)
	}

	hours, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnparseableDuration, s)
	}
	minutes, err := strconv.Atoi(match[2])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnparseableDuration, s)
	}

	return hours*60 + minutes, nil
}

// ParseClock parses an "HH:MM" clock time
func ParseClock(s string) (ClockTime, error) {
	t, err := time.Parse(CLOCK_LAYOUT, strings.TrimSpace(s))
	if err != nil {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrUnparseableClock, s)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// ParseFlightDate parses a calendar date with the given layout. The result is
// midnight UTC so day arithmetic is not affected by DST.
func ParseFlightDate(s, layout string) (time.Time, error) {
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ParsePrice parses a plain decimal price with "," thousands separators,
// e.g. "12,345". NaN, Inf and hex floats are rejected.
func ParsePrice(s string) (float64, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if !pricePattern.MatchString(cleaned) {
		return 0, fmt.Errorf("%w: %q", ErrUnparseablePrice, s)
	}

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: %q", ErrUnparseablePrice, s)
	}
	return price, nil
}

// ConvertPrice parses a price and converts it with a multiplicative exchange rate
func ConvertPrice(s string, rate float64) (float64, error) {
	price, err := ParsePrice(s)
	if err != nil {
		return 0, err
	}
	return price * rate, nil
}
