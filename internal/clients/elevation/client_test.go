package elevation

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/swingify/server/internal/lib/geo"
)

// MockHTTPDoer is a mock implementation of HTTPDoer
type MockHTTPDoer struct {
	mock.Mock
}

func (m *MockHTTPDoer) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	return args.Get(0).(*http.Response), args.Error(1)
}

func createMockResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

const twoPointResponse = `{
	"results": [
		{"elevation": 21.7, "location": {"lat": -38.37912, "lng": 144.90531}, "resolution": 9.5},
		{"elevation": 35.2, "location": {"lat": -38.38062, "lng": 144.90029}, "resolution": 9.5}
	],
	"status": "OK"
}`

func TestElevations(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, twoPointResponse), nil)

	client := NewClientWithHTTPDoer("test-api-key", "https://maps.googleapis.com", mockHTTP)

	points := []geo.Point{
		{Latitude: -38.37912, Longitude: 144.90531},
		{Latitude: -38.38062, Longitude: 144.90029},
	}

	elevations, err := client.Elevations(context.Background(), points)
	require.NoError(t, err)
	require.Len(t, elevations, 2, "One elevation per requested point, in order")
	assert.Equal(t, 21.7, elevations[0])
	assert.Equal(t, 35.2, elevations[1])

	// Both points went out in a single request
	mockHTTP.AssertNumberOfCalls(t, "Do", 1)
	request := mockHTTP.Calls[0].Arguments.Get(0).(*http.Request)
	assert.Contains(t, request.URL.RawQuery, "key=test-api-key")
	locations := request.URL.Query().Get("locations")
	assert.Contains(t, locations, "|", "Points should be pipe-separated in one request")
}

func TestElevations_NonOKStatus(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, `{"results": [], "status": "REQUEST_DENIED"}`), nil)

	client := NewClientWithHTTPDoer("bad-key", "https://maps.googleapis.com", mockHTTP)

	_, err := client.Elevations(context.Background(), []geo.Point{{Latitude: 0, Longitude: 0}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}

func TestElevations_HTTPError(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(500, "internal error"), nil)

	client := NewClientWithHTTPDoer("test-api-key", "https://maps.googleapis.com", mockHTTP)

	_, err := client.Elevations(context.Background(), []geo.Point{{Latitude: 0, Longitude: 0}})
	assert.Error(t, err)
}

func TestElevations_ResultCountMismatch(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, twoPointResponse), nil)

	client := NewClientWithHTTPDoer("test-api-key", "https://maps.googleapis.com", mockHTTP)

	// Asked for one point, fixture returns two
	_, err := client.Elevations(context.Background(), []geo.Point{{Latitude: 0, Longitude: 0}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 results for 1 points")
}

func TestElevations_MissingAPIKey(t *testing.T) {
	client := NewClientWithHTTPDoer("", "https://maps.googleapis.com", &MockHTTPDoer{})

	_, err := client.Elevations(context.Background(), []geo.Point{{Latitude: 0, Longitude: 0}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestElevations_NoPoints(t *testing.T) {
	client := NewClientWithHTTPDoer("test-api-key", "https://maps.googleapis.com", &MockHTTPDoer{})

	_, err := client.Elevations(context.Background(), nil)
	assert.Error(t, err)
}
