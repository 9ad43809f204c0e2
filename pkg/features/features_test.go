package features

import (
	"errors"
	"testing"
	"time"

	"airfare-service/pkg/utils"
)

func TestTimeOfDayBoundaries(t *testing.T) {
	tests := map[int]string{
		0: Night, 5: Night,
		6: Morning, 11: Morning,
		12: Afternoon, 17: Afternoon,
		18: Evening, 23: Evening,
	}
	for hour, want := range tests {
		if got := TimeOfDay(hour); got != want {
			t.Errorf("TimeOfDay(%d) = %q, want %q", hour, got, want)
		}
	}
}

func TestFlightMinutes(t *testing.T) {
	tests := []struct {
		dep, arr utils.ClockTime
		want     int
	}{
		{utils.ClockTime{Hour: 23, Minute: 50}, utils.ClockTime{Hour: 0, Minute: 10}, 20},
		{utils.ClockTime{Hour: 18, Minute: 55}, utils.ClockTime{Hour: 21, Minute: 5}, 130},
		{utils.ClockTime{Hour: 6, Minute: 0}, utils.ClockTime{Hour: 6, Minute: 0}, 0},
		{utils.ClockTime{Hour: 20, Minute: 0}, utils.ClockTime{Hour: 8, Minute: 15}, 735},
	}
	for _, tt := range tests {
		if got := FlightMinutes(tt.dep, tt.arr); got != tt.want {
			t.Errorf("FlightMinutes(%v, %v) = %d, want %d", tt.dep, tt.arr, got, tt.want)
		}
	}
}

func TestDaysLeftAndWeekend(t *testing.T) {
	ref := time.Date(2022, time.February, 11, 0, 0, 0, 0, time.UTC)

	if got := DaysLeft(ref, ref); got != 0 {
		t.Errorf("DaysLeft(ref, ref) = %d", got)
	}
	if got := DaysLeft(time.Date(2022, time.March, 31, 0, 0, 0, 0, time.UTC), ref); got != 48 {
		t.Errorf("DaysLeft(31-03-2022) = %d, want 48", got)
	}
	if got := DaysLeft(time.Date(2022, time.February, 1, 0, 0, 0, 0, time.UTC), ref); got != -10 {
		t.Errorf("DaysLeft before reference = %d, want -10", got)
	}
	// time of day on the reference must not shift the result
	if got := DaysLeft(time.Date(2022, time.February, 12, 0, 0, 0, 0, time.UTC), ref.Add(23*time.Hour)); got != 1 {
		t.Errorf("DaysLeft with late reference = %d, want 1", got)
	}

	if IsWeekend(ref) != 0 {
		t.Error("Friday 11-02-2022 reported as weekend")
	}
	if IsWeekend(ref.AddDate(0, 0, 1)) != 1 || IsWeekend(ref.AddDate(0, 0, 2)) != 1 {
		t.Error("Saturday/Sunday not reported as weekend")
	}
}

func trainingRaw() RawFare {
	return RawFare{
		Class:         "economy",
		Airline:       "SpiceJet",
		Date:          "12-02-2022",
		DepartureCity: "Delhi",
		ArrivalCity:   "Mumbai",
		DepTime:       "18:55",
		ArrTime:       "21:05",
		Stop:          "non-stop ",
		TimeTaken:     "02h 10m",
		Price:         "5,953",
	}
}

func trainingOptions() Options {
	return Options{
		ReferenceDate: time.Date(2022, time.February, 11, 0, 0, 0, 0, time.UTC),
		ConvertPrice:  true,
		ExchangeRate:  0.04,
	}
}

func TestDeriveTraining(t *testing.T) {
	f, err := Derive(trainingRaw(), trainingOptions())
	if err != nil {
		t.Fatalf("Derive error: %v", err)
	}

	want := Features{
		Airline:        "SpiceJet",
		DepartureCity:  "Delhi",
		ArrivalCity:    "Mumbai",
		Class:          "economy",
		Stops:          0,
		FlightDuration: 130,
		DepHour:        18,
		DepMins:        55,
		ArrHour:        21,
		ArrMins:        5,
		Month:          2,
		Day:            12,
		IsWeekend:      1,
		TimeOfDay:      Evening,
		DaysLeft:       1,
		Price:          5953 * 0.04,
	}
	if f != want {
		t.Errorf("Derive() =\n%+v\nwant\n%+v", f, want)
	}
}

func TestDeriveServingUsesClockTimes(t *testing.T) {
	raw := RawFare{
		Class:   "business",
		Airline: "Vistara",
		Date:    "2022-02-13",
		DepTime: "23:50",
		ArrTime: "00:10",
		Stop:    "1",
	}
	opts := Options{
		DateLayout:         utils.FORM_DATE_LAYOUT,
		ReferenceDate:      time.Date(2022, time.February, 11, 0, 0, 0, 0, time.UTC),
		AcceptNumericStops: true,
	}

	f, err := Derive(raw, opts)
	if err != nil {
		t.Fatalf("Derive error: %v", err)
	}
	if f.FlightDuration != 20 {
		t.Errorf("FlightDuration = %d, want 20", f.FlightDuration)
	}
	if f.Stops != 1 || f.DaysLeft != 2 || f.TimeOfDay != Evening || f.Price != 0 {
		t.Errorf("unexpected features %+v", f)
	}

	values := f.NumericValues()
	if len(values) != len(NumericColumns) {
		t.Fatalf("NumericValues has %d entries, want %d", len(values), len(NumericColumns))
	}
	for _, col := range NumericColumns {
		if _, ok := values[col]; !ok {
			t.Errorf("NumericValues missing %s", col)
		}
	}
}

func TestDeriveErrors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*RawFare)
		field    string
		sentinel error
	}{
		{"stop", func(r *RawFare) { r.Stop = "maybe" }, "stop", utils.ErrUnparseableStops},
		{"dep", func(r *RawFare) { r.DepTime = "25:61" }, "dep_time", utils.ErrUnparseableClock},
		{"arr", func(r *RawFare) { r.ArrTime = "" }, "arr_time", utils.ErrUnparseableClock},
		{"duration", func(r *RawFare) { r.TimeTaken = "2h" }, "time_taken", utils.ErrUnparseableDuration},
		{"date", func(r *RawFare) { r.Date = "2022-02-12" }, "date", utils.ErrUnparseableDate},
		{"price", func(r *RawFare) { r.Price = "N/A" }, "price", utils.ErrUnparseablePrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := trainingRaw()
			tt.mutate(&raw)

			_, err := Derive(raw, trainingOptions())
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("error = %v, want *FieldError", err)
			}
			if fe.Field != tt.field {
				t.Errorf("Field = %q, want %q", fe.Field, tt.field)
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("error %v does not wrap %v", err, tt.sentinel)
			}
			if IsPriceError(err) != (tt.field == "price") {
				t.Errorf("IsPriceError = %v", IsPriceError(err))
			}
		})
	}
}

func TestDeriveStopBeforePrice(t *testing.T) {
	raw := trainingRaw()
	raw.Stop = "unknown"
	raw.Price = "N/A"

	_, err := Derive(raw, trainingOptions())
	if IsPriceError(err) {
		t.Fatalf("bad stop must be reported before bad price, got %v", err)
	}
}

func TestFrameColumns(t *testing.T) {
	f, err := Derive(trainingRaw(), trainingOptions())
	if err != nil {
		t.Fatal(err)
	}

	df := Frame([]Features{f, f}, true)
	if df.Nrow() != 2 {
		t.Fatalf("Nrow = %d", df.Nrow())
	}
	names := df.Names()
	if len(names) != len(CleanedColumns) {
		t.Fatalf("columns = %v", names)
	}
	for i, name := range CleanedColumns {
		if names[i] != name {
			t.Errorf("column %d = %q, want %q", i, names[i], name)
		}
	}
	if got := df.Col(ColFlightDuration).Records()[0]; got != "130" {
		t.Errorf("flight_duration = %q", got)
	}
	if got := df.Col(ColPrice).Records()[0]; got != "238.12" {
		t.Errorf("price = %q", got)
	}

	serving := Frame([]Features{f}, false)
	if utils.HasColumn(serving, ColPrice) {
		t.Error("serving frame must not carry price")
	}
}
