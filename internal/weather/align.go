package weather

import "time"

// ForecastHour truncates t to the top of its hour in t's own location.
func ForecastHour(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), 0, 0, 0, t.Location())
}

// Align returns the first period starting at hour. Period start times are
// compared as instants with their seconds dropped, so offsets may differ.
func Align(hour time.Time, periods []ForecastPeriod) (ForecastPeriod, bool) {
	for _, p := range periods {
		if p.StartTime.Truncate(time.Minute).Equal(hour) {
			return p, true
		}
	}
	return ForecastPeriod{}, false
}
