// Package geocode resolves attraction addresses to coordinates through a
// Nominatim-compatible endpoint (OpenStreetMap's public instance by default).
// Geocoding is best effort: callers treat a failed lookup as "no coordinates",
// never as a request failure.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Coordinates is a successful geocoding result.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Geocoder resolves a free-text address to coordinates.
// Implementations return an error when the address cannot be resolved.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Coordinates, error)
}

// Client is a Geocoder backed by a Nominatim-compatible HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// NewClient builds a Client for the given base URL (e.g.
// "https://nominatim.openstreetmap.org"). Nominatim's usage policy requires an
// identifying User-Agent.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		userAgent:  "travenion/1.0",
	}
}

// nominatimResult is the subset of the search response we read.
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode looks up address and returns the best match's coordinates.
// Returns an error on transport failure, non-200 status, or zero results.
func (c *Client) Geocode(ctx context.Context, address string) (Coordinates, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode.Client.Geocode: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode.Client.Geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("geocode.Client.Geocode: status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Coordinates{}, fmt.Errorf("geocode.Client.Geocode: decode: %w", err)
	}
	if len(results) == 0 {
		return Coordinates{}, fmt.Errorf("geocode.Client.Geocode: no results for %q", address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode.Client.Geocode: parse lat: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode.Client.Geocode: parse lon: %w", err)
	}

	return Coordinates{Latitude: lat, Longitude: lon}, nil
}
