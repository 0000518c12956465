package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Geocoder resolves coordinates to a human-readable address. Lookups are
// best-effort: callers store raw coordinates when the lookup fails or times
// out.
type Geocoder interface {
	Lookup(ctx context.Context, lat, lon float64) (string, error)
}

// HTTPGeocoder talks to a Nominatim-compatible reverse geocoding endpoint.
type HTTPGeocoder struct {
	baseURL string
	client  *http.Client
}

func NewHTTPGeocoder(baseURL string, timeout time.Duration) *HTTPGeocoder {
	return &HTTPGeocoder{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (g *HTTPGeocoder) Lookup(ctx context.Context, lat, lon float64) (string, error) {
	endpoint := fmt.Sprintf("%s/reverse?format=jsonv2&lat=%s&lon=%s",
		g.baseURL,
		url.QueryEscape(fmt.Sprintf("%f", lat)),
		url.QueryEscape(fmt.Sprintf("%f", lon)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build reverse geocode request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reverse geocode returned status %d", resp.StatusCode)
	}

	var body struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode reverse geocode response: %w", err)
	}

	if body.DisplayName == "" {
		return "", fmt.Errorf("reverse geocode returned no address")
	}

	return body.DisplayName, nil
}

// Noop always reports no address; used when no geocoder is configured.
type Noop struct{}

func (Noop) Lookup(ctx context.Context, lat, lon float64) (string, error) {
	return "", fmt.Errorf("geocoder not configured")
}
