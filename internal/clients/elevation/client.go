package elevation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/swingify/server/internal/lib/geo"
)

// HTTPDoer abstracts the HTTP client for testability
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client provides access to the Google Elevation API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new elevation API client
func NewClient(apiKey string) *Client {
	return NewClientWithHTTPDoer(apiKey, "https://maps.googleapis.com", &http.Client{
		Timeout: 30 * time.Second,
	})
}

// NewClientWithHTTPDoer creates a client with a custom HTTP implementation,
// used by tests to inject mock responses
func NewClientWithHTTPDoer(apiKey, baseURL string, httpClient HTTPDoer) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Elevations retrieves elevation in meters for each point in a single round
// trip, in the same order as requested.
func (c *Client) Elevations(ctx context.Context, points []geo.Point) ([]float64, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("no points requested")
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("elevation API key not configured")
	}

	// Locations are pipe-separated "lat,lng" pairs
	locations := make([]string, len(points))
	for i, p := range points {
		locations[i] = fmt.Sprintf("%.6f,%.6f", p.Latitude, p.Longitude)
	}

	params := url.Values{}
	params.Set("locations", strings.Join(locations, "|"))
	params.Set("key", c.apiKey)

	requestURL := fmt.Sprintf("%s/maps/api/elevation/json?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("elevation API error %d: %s", resp.StatusCode, string(body))
	}

	var response elevationResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if response.Status != "OK" {
		return nil, fmt.Errorf("elevation API status %q", response.Status)
	}
	if len(response.Results) != len(points) {
		return nil, fmt.Errorf("elevation API returned %d results for %d points",
			len(response.Results), len(points))
	}

	elevations := make([]float64, len(response.Results))
	for i, result := range response.Results {
		elevations[i] = result.Elevation
	}
	return elevations, nil
}

// elevationResponse represents the elevation API response
type elevationResponse struct {
	Results []elevationResult `json:"results"`
	Status  string            `json:"status"`
}

// elevationResult represents one elevation sample
type elevationResult struct {
	Elevation  float64           `json:"elevation"`
	Location   elevationLocation `json:"location"`
	Resolution float64           `json:"resolution"`
}

type elevationLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
