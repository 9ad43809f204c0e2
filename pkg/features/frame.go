package features

import (
	"strconv"

	"airfare-service/pkg/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Frame builds a DataFrame in CleanedColumns order. The price column is left
// out when withPrice is false, which is the shape of a serving request.
func Frame(rows []Features, withPrice bool) dataframe.DataFrame {
	n := len(rows)
	str := func(get func(Features) string) []string {
		out := make([]string, n)
		for i, r := range rows {
			out[i] = get(r)
		}
		return out
	}
	num := func(get func(Features) int) []string {
		out := make([]string, n)
		for i, r := range rows {
			out[i] = strconv.Itoa(get(r))
		}
		return out
	}

	var cols []series.Series
	for _, name := range CleanedColumns {
		switch name {
		case ColAirline:
			cols = append(cols, series.New(str(func(f Features) string { return f.Airline }), series.String, name))
		case ColDepartureCity:
			cols = append(cols, series.New(str(func(f Features) string { return f.DepartureCity }), series.String, name))
		case ColArrivalCity:
			cols = append(cols, series.New(str(func(f Features) string { return f.ArrivalCity }), series.String, name))
		case ColClass:
			cols = append(cols, series.New(str(func(f Features) string { return f.Class }), series.String, name))
		case ColTimeOfDay:
			cols = append(cols, series.New(str(func(f Features) string { return f.TimeOfDay }), series.String, name))
		case ColPrice:
			if !withPrice {
				continue
			}
			prices := make([]float64, n)
			for i, r := range rows {
				prices[i] = r.Price
			}
			cols = append(cols, utils.FloatSeries(name, prices))
		case ColFlightDuration:
			cols = append(cols, series.New(num(func(f Features) int { return f.FlightDuration }), series.String, name))
		case ColStops:
			cols = append(cols, series.New(num(func(f Features) int { return f.Stops }), series.String, name))
		case ColDepHour:
			cols = append(cols, series.New(num(func(f Features) int { return f.DepHour }), series.String, name))
		case ColDepMins:
			cols = append(cols, series.New(num(func(f Features) int { return f.DepMins }), series.String, name))
		case ColArrHour:
			cols = append(cols, series.New(num(func(f Features) int { return f.ArrHour }), series.String, name))
		case ColArrMins:
			cols = append(cols, series.New(num(func(f Features) int { return f.ArrMins }), series.String, name))
		case ColMonth:
			cols = append(cols, series.New(num(func(f Features) int { return f.Month }), series.String, name))
		case ColDay:
			cols = append(cols, series.New(num(func(f Features) int { return f.Day }), series.String, name))
		case ColIsWeekend:
			cols = append(cols, series.New(num(func(f Features) int { return f.IsWeekend }), series.String, name))
		case ColDaysLeft:
			cols = append(cols, series.New(num(func(f Features) int { return f.DaysLeft }), series.String, name))
		}
	}

	return dataframe.New(cols...)
}
