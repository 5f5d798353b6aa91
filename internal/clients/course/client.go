package course

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/swingify/server/internal/lib/geo"
)

// Course represents one entry from the course list feed. The ID keys the
// follow-up request for that course's holes.
type Course struct {
	ID   int     `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// CourseData is the per-course document: course metadata plus its holes
type CourseData struct {
	Name  string  `json:"name"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Holes []Hole  `json:"holes"`
}

// Hole is one hole's geometry as delivered by the feed. Path optionally
// carries an encoded polyline of the fairway centerline for renderers.
type Hole struct {
	Num      int     `json:"num"`
	Par      int     `json:"par"`
	TeeLat   float64 `json:"tee_lat"`
	TeeLng   float64 `json:"tee_lng"`
	GreenLat float64 `json:"green_lat"`
	GreenLng float64 `json:"green_lng"`
	Path     string  `json:"path,omitempty"`
}

// Tee returns the hole's tee box coordinate
func (h Hole) Tee() geo.Point {
	return geo.Point{Latitude: h.TeeLat, Longitude: h.TeeLng}
}

// Green returns the hole's green center coordinate
func (h Hole) Green() geo.Point {
	return geo.Point{Latitude: h.GreenLat, Longitude: h.GreenLng}
}

// Valid reports whether the hole carries usable geometry. Invalid holes are
// unavailable for framing and projection but never crash the engine.
func (h Hole) Valid() bool {
	return h.Num >= 1 && h.Tee().IsValid() && h.Green().IsValid()
}

// HTTPDoer abstracts the HTTP client for testability
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches course and hole data from the static course feed
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	geodesy    geo.Geodesy
}

// NewClient creates a course feed client rooted at baseURL
func NewClient(baseURL string, geodesy geo.Geodesy) *Client {
	return NewClientWithHTTPDoer(baseURL, geodesy, &http.Client{
		Timeout: 30 * time.Second,
	})
}

// NewClientWithHTTPDoer creates a client with a custom HTTP implementation,
// used by tests to inject mock responses
func NewClientWithHTTPDoer(baseURL string, geodesy geo.Geodesy, httpClient HTTPDoer) *Client {
	return &Client{baseURL: baseURL, geodesy: geodesy, httpClient: httpClient}
}

// ListCourses retrieves the course list feed
func (c *Client) ListCourses(ctx context.Context) ([]Course, error) {
	var courses []Course
	if err := c.getJSON(ctx, fmt.Sprintf("%s/courses.json", c.baseURL), &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// GetCourse retrieves the per-course document for the given course ID.
// Holes with missing or out-of-range geometry are dropped with a warning.
func (c *Client) GetCourse(ctx context.Context, id int) (*CourseData, error) {
	var data CourseData
	if err := c.getJSON(ctx, fmt.Sprintf("%s/course_%d.json", c.baseURL, id), &data); err != nil {
		return nil, err
	}

	valid := data.Holes[:0]
	for _, hole := range data.Holes {
		if !hole.Valid() {
			slog.Warn("skipping hole with unusable geometry",
				"course", data.Name, "hole", hole.Num)
			continue
		}
		valid = append(valid, hole)
	}
	data.Holes = valid

	return &data, nil
}

// DecodeHolePath decodes a hole's optional centerline polyline. Holes
// without a path return nil with no error.
func (c *Client) DecodeHolePath(hole Hole) ([]geo.Point, error) {
	if hole.Path == "" {
		return nil, nil
	}
	points, err := c.geodesy.DecodePath(hole.Path)
	if err != nil {
		return nil, fmt.Errorf("hole %d path: %w", hole.Num, err)
	}
	return points, nil
}

func (c *Client) getJSON(ctx context.Context, requestURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("course feed error %d from %s", resp.StatusCode, requestURL)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode course feed response: %w", err)
	}
	return nil
}
