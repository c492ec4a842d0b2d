package config

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/class-weather/internal/schedule"
	"github.com/i474232898/class-weather/internal/weather"
	"github.com/i474232898/class-weather/internal/weather/providers"
)

type AppConfig struct {
	Port            string        `env:"PORT" envDefault:"8080" validate:"required,numeric"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	AppEnv          string        `env:"APP_ENV" envDefault:"development" validate:"oneof=development production test"`
	HTTPTimeout     time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s" validate:"gt=0"`

	CatalogBaseURL   string `env:"CATALOG_BASE_URL" envDefault:"http://courses.illinois.edu/cisapp/explorer/schedule" validate:"required,url"`
	ScheduleCacheDir string `env:"SCHEDULE_CACHE_DIR" envDefault:"." validate:"required"`
	DayCodes         string `env:"DAY_CODES" envDefault:"MTWRFSU" validate:"min=1,max=7,alpha"`

	// CatalogRateLimit caps catalog requests per second; 0 disables throttling.
	CatalogRateLimit float64 `env:"CATALOG_RATE_LIMIT" envDefault:"5" validate:"gte=0"`
	CatalogRateBurst int     `env:"CATALOG_RATE_BURST" envDefault:"5" validate:"gte=1"`

	WeatherBaseURL   string `env:"WEATHER_BASE_URL" envDefault:"https://api.weather.gov" validate:"required,url"`
	OpenMeteoBaseURL string `env:"OPENMETEO_BASE_URL" envDefault:"https://api.open-meteo.com/v1/forecast" validate:"required,url"`
	WeatherUserAgent string `env:"WEATHER_USER_AGENT" envDefault:"class-weather (contact@example.com)" validate:"required"`

	CampusLat      float64 `env:"CAMPUS_LAT" envDefault:"40.11" validate:"gte=-90,lte=90"`
	CampusLon      float64 `env:"CAMPUS_LON" envDefault:"-88.24" validate:"gte=-180,lte=180"`
	CampusTimezone string  `env:"CAMPUS_TIMEZONE" envDefault:"America/Chicago" validate:"required"`
	CampusCity     string  `env:"CAMPUS_CITY"`
	CampusState    string  `env:"CAMPUS_STATE"`
	CampusCountry  string  `env:"CAMPUS_COUNTRY"`
	GeocoderAPIKey string  `env:"GEOCODER_API_KEY"`

	// ForecastRefreshInterval controls how often the hourly forecast is refetched.
	ForecastRefreshInterval time.Duration `env:"FORECAST_REFRESH_INTERVAL" envDefault:"30m" validate:"gte=1s"`
	// ResponseCacheMaxAge bounds how long a finished report is served from cache.
	ResponseCacheMaxAge     time.Duration `env:"RESPONSE_CACHE_MAX_AGE" envDefault:"1h" validate:"gte=0"`

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool

	location *time.Location
	days     schedule.DayTable
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*AppConfig, error) {
	loaded := godotenv.Load() == nil

	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.EnvFileLoaded = loaded

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	loc, err := time.LoadLocation(cfg.CampusTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid CAMPUS_TIMEZONE: %w", err)
	}
	cfg.location = loc

	days, err := schedule.NewDayTable(cfg.DayCodes)
	if err != nil {
		return nil, fmt.Errorf("invalid DAY_CODES: %w", err)
	}
	cfg.days = days

	return cfg, nil
}

// Location is the campus time zone.
func (c *AppConfig) Location() *time.Location {
	return c.location
}

// Days is the day-letter table parsed from DAY_CODES.
func (c *AppConfig) Days() schedule.DayTable {
	return c.days
}

// Campus returns the configured campus coordinates.
func (c *AppConfig) Campus() weather.Coordinates {
	return weather.Coordinates{Lat: c.CampusLat, Lon: c.CampusLon}
}

// CampusAddress returns the address used for geocoding, or an error when
// geocoding is not configured.
func (c *AppConfig) CampusAddress() (providers.CampusAddress, error) {
	if c.GeocoderAPIKey == "" || c.CampusCity == "" {
		return providers.CampusAddress{}, errors.New("campus geocoding not configured")
	}
	return providers.CampusAddress{City: c.CampusCity, State: c.CampusState, Country: c.CampusCountry}, nil
}
