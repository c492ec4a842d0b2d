package nudge

import (
	"context"
	"fmt"
	"math"

	"github.com/i474232898/class-weather/internal/common"
	"github.com/i474232898/class-weather/internal/weather"
)

const (
	defaultColdBelow = 40.0
	defaultHotAbove  = 85.0
)

// Rules writes a one-line suggestion from the forecast attached to a report.
// Thresholds are in the forecast's unit; zero values use 40 and 85.
type Rules struct {
	ColdBelow float64
	HotAbove  float64
}

var _ weather.Nudger = Rules{}

func (r Rules) Nudge(_ context.Context, rep weather.Report) (string, error) {
	if rep.Period == nil {
		return fmt.Sprintf("No forecast yet for %s, check again closer to class.", rep.Course), nil
	}

	cold, hot := r.ColdBelow, r.HotAbove
	if cold == 0 {
		cold = defaultColdBelow
	}
	if hot == 0 {
		hot = defaultHotAbove
	}

	p := rep.Period
	temp := int(math.Round(p.Temperature))
	unit := p.TemperatureUnit
	if unit == "" {
		unit = "F"
	}

	switch {
	case common.HasAny(p.ShortForecast, "thunder"):
		return fmt.Sprintf("Storms around %s time. Leave early and bring an umbrella.", rep.Course), nil
	case common.HasAny(p.ShortForecast, "snow", "sleet", "ice", "flurries"):
		return fmt.Sprintf("Snow expected for %s. Boots and extra time recommended.", rep.Course), nil
	case common.HasAny(p.ShortForecast, "rain", "showers", "drizzle"):
		return fmt.Sprintf("Bring an umbrella to %s.", rep.Course), nil
	case p.Temperature < cold:
		return fmt.Sprintf("Bundle up, it will be %d°%s on the way to %s.", temp, unit, rep.Course), nil
	case p.Temperature > hot:
		return fmt.Sprintf("It will be %d°%s for %s. Bring water.", temp, unit, rep.Course), nil
	default:
		return fmt.Sprintf("%s and %d°%s, a good day to walk to %s.", p.ShortForecast, temp, unit, rep.Course), nil
	}
}
