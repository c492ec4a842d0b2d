package providers

import (
	"fmt"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/class-weather/internal/weather"
)

// CampusAddress names the campus for geocoding.
type CampusAddress struct {
	City    string
	State   string
	Country string
}

// GeocodeCampus resolves the campus address to coordinates with the Google
// geocoding API. Only used at startup when an API key is configured.
func GeocodeCampus(apiKey string, addr CampusAddress) (weather.Coordinates, error) {
	if apiKey == "" {
		return weather.Coordinates{}, fmt.Errorf("geocoder api key is not configured")
	}
	geocoder.ApiKey = apiKey

	loc, err := geocoder.Geocoding(geocoder.Address{
		City:    addr.City,
		State:   addr.State,
		Country: addr.Country,
	})
	if err != nil {
		return weather.Coordinates{}, fmt.Errorf("geocode %s, %s: %w", addr.City, addr.State, err)
	}
	return weather.Coordinates{Lat: loc.Latitude, Lon: loc.Longitude}, nil
}
