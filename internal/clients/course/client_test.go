package course

import (
	"bytes"
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

const courseListFixture = `[
	{"id": 1, "name": "Safety Beach Golf Club", "lat": -38.3789, "lng": 144.9051},
	{"id": 2, "name": "Rosebud Country Club", "lat": -38.3901, "lng": 144.8810}
]`

const courseDataFixture = `{
	"name": "Safety Beach Golf Club",
	"lat": -38.3789,
	"lng": 144.9051,
	"holes": [
		{"num": 1, "par": 5, "tee_lat": -38.37912, "tee_lng": 144.90531, "green_lat": -38.38062, "green_lng": 144.90029},
		{"num": 2, "par": 3, "tee_lat": -38.38100, "tee_lng": 144.90010, "green_lat": -38.38220, "green_lng": 144.90120},
		{"num": 3, "par": 4, "tee_lat": 95.0, "tee_lng": 144.9, "green_lat": -38.38300, "green_lng": 144.90300},
		{"num": 0, "par": 4, "tee_lat": -38.38400, "tee_lng": 144.90400, "green_lat": -38.38500, "green_lng": 144.90500}
	]
}`

func TestListCourses(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, courseListFixture), nil)

	client := NewClientWithHTTPDoer("https://feed.example.com", geo.NewGeodesy(), mockHTTP)

	courses, err := client.ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, 1, courses[0].ID)
	assert.Equal(t, "Safety Beach Golf Club", courses[0].Name)

	request := mockHTTP.Calls[0].Arguments.Get(0).(*http.Request)
	assert.Equal(t, "/courses.json", request.URL.Path)
}

func TestGetCourse(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, courseDataFixture), nil)

	client := NewClientWithHTTPDoer("https://feed.example.com", geo.NewGeodesy(), mockHTTP)

	data, err := client.GetCourse(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Safety Beach Golf Club", data.Name)

	// Hole 3 (latitude out of range) and the num-0 hole are dropped
	require.Len(t, data.Holes, 2)
	assert.Equal(t, 1, data.Holes[0].Num)
	assert.Equal(t, 2, data.Holes[1].Num)

	request := mockHTTP.Calls[0].Arguments.Get(0).(*http.Request)
	assert.Equal(t, "/course_1.json", request.URL.Path)
}

func TestGetCourse_NotFound(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(404, "not found"), nil)

	client := NewClientWithHTTPDoer("https://feed.example.com", geo.NewGeodesy(), mockHTTP)

	_, err := client.GetCourse(context.Background(), 999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestGetCourse_MalformedBody(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, `{"holes": "oops`), nil)

	client := NewClientWithHTTPDoer("https://feed.example.com", geo.NewGeodesy(), mockHTTP)

	_, err := client.GetCourse(context.Background(), 1)
	assert.Error(t, err)
}

func TestDecodeHolePath(t *testing.T) {
	client := NewClientWithHTTPDoer("https://feed.example.com", geo.NewGeodesy(), &MockHTTPDoer{})

	// No path: not an error, just nothing to draw
	points, err := client.DecodeHolePath(Hole{Num: 1})
	require.NoError(t, err)
	assert.Nil(t, points)

	points, err = client.DecodeHolePath(Hole{Num: 1, Path: "_p~iF~ps|U_ulLnnqC"})
	require.NoError(t, err)
	assert.NotEmpty(t, points)
}

func TestHole_Valid(t *testing.T) {
	good := Hole{Num: 1, Par: 4, TeeLat: -38.379, TeeLng: 144.905, GreenLat: -38.380, GreenLng: 144.900}
	assert.True(t, good.Valid())

	badLat := good
	badLat.TeeLat = 95
	assert.False(t, badLat.Valid())

	badNum := good
	badNum.Num = 0
	assert.False(t, badNum.Valid())
}

const courseKMLFixture = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <name>Safety Beach Golf Club</name>
    <Placemark>
      <name>Hole 1 Tee</name>
      <description>Par 5</description>
      <Point><coordinates>144.90531,-38.37912,0</coordinates></Point>
    </Placemark>
    <Placemark>
      <name>Hole 1 Green</name>
      <Point><coordinates>144.90029,-38.38062,0</coordinates></Point>
    </Placemark>
    <Placemark>
      <name>Hole 2 Tee</name>
      <description>Par 3</description>
      <Point><coordinates>144.90010,-38.38100,0</coordinates></Point>
    </Placemark>
    <Placemark>
      <name>Clubhouse</name>
      <Point><coordinates>144.90600,-38.37800,0</coordinates></Point>
    </Placemark>
  </Document>
</kml>`

func TestParseCourseKML(t *testing.T) {
	data, err := ParseCourseKML(strings.NewReader(courseKMLFixture))
	require.NoError(t, err)

	assert.Equal(t, "Safety Beach Golf Club", data.Name)

	// Hole 2 has no green placemark and is dropped; the clubhouse is ignored
	require.Len(t, data.Holes, 1)
	hole := data.Holes[0]
	assert.Equal(t, 1, hole.Num)
	assert.Equal(t, 5, hole.Par)
	assert.InDelta(t, -38.37912, hole.TeeLat, 1e-9)
	assert.InDelta(t, 144.90531, hole.TeeLng, 1e-9)
	assert.InDelta(t, -38.38062, hole.GreenLat, 1e-9)
	assert.InDelta(t, 144.90029, hole.GreenLng, 1e-9)
}

func TestParseCourseKML_NoHoles(t *testing.T) {
	empty := `<?xml version="1.0"?><kml xmlns="http://www.opengis.net/kml/2.2"><Document><name>Empty</name></Document></kml>`
	_, err := ParseCourseKML(strings.NewReader(empty))
	assert.Error(t, err)
}

func TestWriteCourseKML_RoundTrip(t *testing.T) {
	original := &CourseData{
		Name: "Safety Beach Golf Club",
		Holes: []Hole{
			{Num: 1, Par: 5, TeeLat: -38.37912, TeeLng: 144.90531, GreenLat: -38.38062, GreenLng: 144.90029},
			{Num: 2, Par: 3, TeeLat: -38.38100, TeeLng: 144.90010, GreenLat: -38.38210, GreenLng: 144.89950},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCourseKML(&buf, original))
	assert.Contains(t, buf.String(), "Hole 1 Tee")
	assert.Contains(t, buf.String(), "Par 5")

	parsed, err := ParseCourseKML(&buf)
	require.NoError(t, err)
	assert.Equal(t, original.Name, parsed.Name)
	require.Len(t, parsed.Holes, 2)
	for i, hole := range parsed.Holes {
		assert.Equal(t, original.Holes[i].Num, hole.Num)
		assert.Equal(t, original.Holes[i].Par, hole.Par)
		assert.InDelta(t, original.Holes[i].TeeLat, hole.TeeLat, 1e-9)
		assert.InDelta(t, original.Holes[i].TeeLng, hole.TeeLng, 1e-9)
		assert.InDelta(t, original.Holes[i].GreenLat, hole.GreenLat, 1e-9)
		assert.InDelta(t, original.Holes[i].GreenLng, hole.GreenLng, 1e-9)
	}
}
