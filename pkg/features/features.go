// Package features derives the model inputs of a flight-fare record from its
// raw text fields. The same derivation runs when cleaning historical data and
// when serving a single live request.
package features

import (
	"errors"
	"fmt"
	"time"

	"airfare-service/pkg/utils"
)

// Time-of-day labels keyed by departure hour
const (
	Night     = "night"
	Morning   = "morning"
	Afternoon = "afternoon"
	Evening   = "evening"
)

// Output column names
const (
	ColDepartureCity  = "departure_city"
	ColArrivalCity    = "arrival_city"
	ColStops          = "stops"
	ColFlightDuration = "flight_duration"
	ColDepHour        = "dep_hour"
	ColDepMins        = "dep_mins"
	ColArrHour        = "arr_hour"
	ColArrMins        = "arr_mins"
	ColMonth          = "month"
	ColDay            = "day"
	ColIsWeekend      = "is_weekend"
	ColTimeOfDay      = "time_of_day"
	ColDaysLeft       = "days_left"
	ColPrice          = "price"
	ColClass          = "class"
	ColAirline        = "airline"
)

// NumericColumns are the columns standardized before training and serving
var NumericColumns = []string{
	ColFlightDuration, ColStops, ColDepHour, ColDepMins,
	ColArrHour, ColArrMins, ColMonth, ColDay, ColDaysLeft,
}

// CleanedColumns is the column order of the cleaned dataset
var CleanedColumns = []string{
	ColAirline, ColDepartureCity, ColFlightDuration, ColStops, ColArrivalCity,
	ColPrice, ColClass, ColDepHour, ColDepMins, ColArrHour, ColArrMins,
	ColMonth, ColDay, ColIsWeekend, ColTimeOfDay, ColDaysLeft,
}

// RawFare holds the text fields of one flight listing
type RawFare struct {
	Class         string
	Airline       string
	Date          string
	DepartureCity string
	ArrivalCity   string
	DepTime       string
	ArrTime       string
	Stop          string
	TimeTaken     string // empty when serving; duration is then derived from clock times
	Price         string // empty when serving
}

// Features is a fully derived record. Price is zero unless Options.ConvertPrice is set.
type Features struct {
	Airline        string
	DepartureCity  string
	ArrivalCity    string
	Class          string
	Stops          int
	FlightDuration int
	DepHour        int
	DepMins        int
	ArrHour        int
	ArrMins        int
	Month          int
	Day            int
	IsWeekend      int
	TimeOfDay      string
	DaysLeft       int
	Price          float64
}

// Options controls the parts of the derivation that differ between cleaning and serving
type Options struct {
	DateLayout    string
	ReferenceDate time.Time
	ConvertPrice  bool
	ExchangeRate  float64
	// AcceptNumericStops lets "0", "1" and "2" stand in for stop descriptions
	AcceptNumericStops bool
}

// FieldError reports which raw field failed to parse
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// IsPriceError reports whether err came from the price field
func IsPriceError(err error) bool {
	var fe *FieldError
	return errors.As(err, &fe) && fe.Field == "price"
}

// TimeOfDay buckets an hour into night [0,6), morning [6,12), afternoon [12,18)
// and evening for everything else.
func TimeOfDay(hour int) string {
	switch {
	case hour >= 0 && hour < 6:
		return Night
	case hour >= 6 && hour < 12:
		return Morning
	case hour >= 12 && hour < 18:
		return Afternoon
	default:
		return Evening
	}
}

// FlightMinutes returns elapsed minutes from dep to arr. An arrival earlier in
// the day than the departure lands on the next day.
func FlightMinutes(dep, arr utils.ClockTime) int {
	minutes := arr.Minutes() - dep.Minutes()
	if arr.Before(dep) {
		minutes += 24 * 60
	}
	return minutes
}

// DaysLeft returns the signed number of calendar days from reference to date
func DaysLeft(date, reference time.Time) int {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	r := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(r).Hours() / 24)
}

// IsWeekend returns 1 for Saturday and Sunday, otherwise 0
func IsWeekend(date time.Time) int {
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return 1
	}
	return 0
}

// Derive turns one raw record into its features. Steps run in a fixed order and
// the first failing field is returned as a *FieldError.
func Derive(raw RawFare, opts Options) (Features, error) {
	f := Features{
		Airline:       raw.Airline,
		DepartureCity: raw.DepartureCity,
		ArrivalCity:   raw.ArrivalCity,
		Class:         raw.Class,
	}

	parseStops := utils.ParseStops
	if opts.AcceptNumericStops {
		parseStops = utils.ParseStopsField
	}
	stops, err := parseStops(raw.Stop)
	if err != nil {
		return Features{}, &FieldError{Field: "stop", Value: raw.Stop, Err: err}
	}
	f.Stops = stops

	dep, err := utils.ParseClock(raw.DepTime)
	if err != nil {
		return Features{}, &FieldError{Field: "dep_time", Value: raw.DepTime, Err: err}
	}
	arr, err := utils.ParseClock(raw.ArrTime)
	if err != nil {
		return Features{}, &FieldError{Field: "arr_time", Value: raw.ArrTime, Err: err}
	}
	f.DepHour, f.DepMins = dep.Hour, dep.Minute
	f.ArrHour, f.ArrMins = arr.Hour, arr.Minute

	if raw.TimeTaken != "" {
		minutes, err := utils.ParseDuration(raw.TimeTaken)
		if err != nil {
			return Features{}, &FieldError{Field: "time_taken", Value: raw.TimeTaken, Err: err}
		}
		f.FlightDuration = minutes
	} else {
		f.FlightDuration = FlightMinutes(dep, arr)
	}

	layout := opts.DateLayout
	if layout == "" {
		layout = utils.RAW_DATE_LAYOUT
	}
	date, err := utils.ParseFlightDate(raw.Date, layout)
	if err != nil {
		return Features{}, &FieldError{Field: "date", Value: raw.Date, Err: err}
	}
	f.Month = int(date.Month())
	f.Day = date.Day()
	f.IsWeekend = IsWeekend(date)
	f.DaysLeft = DaysLeft(date, opts.ReferenceDate)

	f.TimeOfDay = TimeOfDay(f.DepHour)

	if opts.ConvertPrice {
		price, err := utils.ConvertPrice(raw.Price, opts.ExchangeRate)
		if err != nil {
			return Features{}, &FieldError{Field: "price", Value: raw.Price, Err: err}
		}
		f.Price = price
	}

	return f, nil
}

// NumericValues returns the standardized columns of f keyed by column name
func (f Features) NumericValues() map[string]float64 {
	return map[string]float64{
		ColFlightDuration: float64(f.FlightDuration),
		ColStops:          float64(f.Stops),
		ColDepHour:        float64(f.DepHour),
		ColDepMins:        float64(f.DepMins),
		ColArrHour:        float64(f.ArrHour),
		ColArrMins:        float64(f.ArrMins),
		ColMonth:          float64(f.Month),
		ColDay:            float64(f.Day),
		ColDaysLeft:       float64(f.DaysLeft),
	}
}
