package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"
)

// GeocodeResult is one geocoder hit.
type GeocodeResult struct {
	Coordinates      Coordinates
	FormattedAddress string
	LocationType     string
	Types            []string
}

// Google location precision tiers, most precise first.
const (
	LocationTypeRooftop           = "ROOFTOP"
	LocationTypeRangeInterpolated = "RANGE_INTERPOLATED"
	LocationTypeGeometricCenter   = "GEOMETRIC_CENTER"
)

// GoogleGeocoder calls the Google Maps Geocoding API.
type GoogleGeocoder struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleGeocoder creates a geocoder client. The request timeout bounds how
// long a cold resolution can hold up a caller.
func NewGoogleGeocoder(apiKey string, timeout time.Duration) *GoogleGeocoder {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GoogleGeocoder{
		apiKey:  apiKey,
		baseURL: "https://maps.googleapis.com/maps/api/geocode/json",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// HasAPIKey reports whether the client is usable.
func (g *GoogleGeocoder) HasAPIKey() bool {
	return g.apiKey != ""
}

type googleGeocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string   `json:"formatted_address"`
		Types            []string `json:"types"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
			LocationType string `json:"location_type"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves a free-text query restricted to the given country and
// returns the first result, or nil when the provider finds nothing.
func (g *GoogleGeocoder) Geocode(ctx context.Context, query, countryCode string) (*GeocodeResult, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("geocoder API key not configured")
	}

	params := url.Values{}
	params.Set("address", query)
	params.Set("key", g.apiKey)
	if countryCode != "" {
		params.Set("components", "country:"+countryCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocoding request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call geocoding API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read geocoding response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding API returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed googleGeocodeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse geocoding response: %w", err)
	}

	if parsed.Status != "OK" || len(parsed.Results) == 0 {
		return nil, nil
	}

	first := parsed.Results[0]
	return &GeocodeResult{
		Coordinates: Coordinates{
			Lat: first.Geometry.Location.Lat,
			Lng: first.Geometry.Location.Lng,
		},
		FormattedAddress: first.FormattedAddress,
		LocationType:     first.Geometry.LocationType,
		Types:            first.Types,
	}, nil
}

// Confidence maps a result's precision tier to a 0-1 confidence estimate,
// boosted when the hit is tagged as an establishment or point of interest.
func Confidence(result *GeocodeResult) float64 {
	confidence := 0.7
	switch result.LocationType {
	case LocationTypeRooftop:
		confidence = 0.95
	case LocationTypeRangeInterpolated:
		confidence = 0.90
	case LocationTypeGeometricCenter:
		confidence = 0.80
	}

	for _, t := range result.Types {
		if t == "establishment" || t == "point_of_interest" {
			confidence = math.Min(confidence+0.1, 1.0)
			break
		}
	}

	// Two decimal places, matching what gets persisted.
	return math.Round(confidence*100) / 100
}
