package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"

	"github.com/i474232898/class-weather/internal/upstream"
	"github.com/i474232898/class-weather/internal/weather"
)

// NWSProvider implements weather.Provider for the National Weather Service
// API: a points lookup yields the grid's hourly forecast URL, which is then
// fetched.
type NWSProvider struct {
	name    string
	baseURL string
	httpCfg upstream.Config
	circuit *gobreaker.CircuitBreaker
}

// NewNWSProvider creates a provider rooted at baseURL, normally
// https://api.weather.gov. The service rejects requests without a User-Agent.
func NewNWSProvider(client *http.Client, baseURL, userAgent string) *NWSProvider {
	return &NWSProvider{
		name:    "nws",
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: upstream.Config{
			Client:    client,
			Backoff:   upstream.DefaultBackoff(),
			UserAgent: userAgent,
		},
		circuit: upstream.NewBreaker("nws"),
	}
}

func (p *NWSProvider) Name() string {
	return p.name
}

func (p *NWSProvider) HourlyForecast(ctx context.Context, at weather.Coordinates) ([]weather.ForecastPeriod, error) {
	var points struct {
		Properties struct {
			ForecastHourly string `json:"forecastHourly"`
		} `json:"properties"`
	}
	if err := p.getJSON(ctx, fmt.Sprintf("%s/points/%s", p.baseURL, at.Key()), &points); err != nil {
		return nil, fmt.Errorf("points lookup: %w", err)
	}
	if points.Properties.ForecastHourly == "" {
		return nil, fmt.Errorf("points lookup for %s returned no hourly forecast url", at.Key())
	}

	var forecast struct {
		Properties struct {
			Periods []struct {
				StartTime       string  `json:"startTime"`
				Temperature     float64 `json:"temperature"`
				TemperatureUnit string  `json:"temperatureUnit"`
				ShortForecast   string  `json:"shortForecast"`
			} `json:"periods"`
		} `json:"properties"`
	}
	if err := p.getJSON(ctx, points.Properties.ForecastHourly, &forecast); err != nil {
		return nil, fmt.Errorf("hourly forecast: %w", err)
	}

	periods := make([]weather.ForecastPeriod, 0, len(forecast.Properties.Periods))
	for _, raw := range forecast.Properties.Periods {
		start, err := time.Parse(time.RFC3339, raw.StartTime)
		if err != nil {
			continue
		}
		periods = append(periods, weather.ForecastPeriod{
			StartTime:       start,
			Temperature:     raw.Temperature,
			TemperatureUnit: raw.TemperatureUnit,
			ShortForecast:   raw.ShortForecast,
		})
	}
	return periods, nil
}

func (p *NWSProvider) getJSON(ctx context.Context, u string, out any) error {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/geo+json")
		return req, nil
	}

	resp, err := upstream.Do(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(out)
}
