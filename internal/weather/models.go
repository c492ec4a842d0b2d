package weather

import (
	"strconv"
	"time"
)

// Unavailable stands in for forecast fields when no period matches.
const Unavailable = "forecast unavailable"

// TimeLayout formats the instants in a Report.
const TimeLayout = "2006-01-02 15:04:05"

// Coordinates locate the campus for forecast lookups.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Key renders the coordinates for URLs and logs, e.g. "40.11,-88.24".
func (c Coordinates) Key() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

// ForecastPeriod is one hour of an hourly forecast.
type ForecastPeriod struct {
	StartTime       time.Time `json:"startTime"`
	Temperature     float64   `json:"temperature"`
	TemperatureUnit string    `json:"temperatureUnit"`
	ShortForecast   string    `json:"shortForecast"`
}

// Report is the answer to "what will the weather be at my next class".
// Temperature holds a number, or Unavailable when no period matched.
type Report struct {
	Course            string `json:"course"`
	NextCourseMeeting string `json:"nextCourseMeeting"`
	ForecastTime      string `json:"forecastTime"`
	Temperature       any    `json:"temperature"`
	ShortForecast     string `json:"shortForecast"`
	Nudge             string `json:"nudge,omitempty"`

	NextMeeting time.Time       `json:"-"`
	GeneratedAt time.Time       `json:"-"`
	Period      *ForecastPeriod `json:"-"`
}
