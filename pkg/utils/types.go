package utils

import "fmt"

// ClockTime is a wall-clock time of day without a date
type ClockTime struct {
	Hour   int
	Minute int
}

// Minutes returns the number of minutes since midnight
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

// Before reports whether c is earlier in the day than other
func (c ClockTime) Before(other ClockTime) bool {
	return c.Minutes() < other.Minutes()
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Constants
const (
	CLOCK_LAYOUT     = "15:04"
	RAW_DATE_LAYOUT  = "2-1-2006"
	FORM_DATE_LAYOUT = "2006-1-2"
)
