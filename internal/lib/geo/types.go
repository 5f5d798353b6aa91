package geo

// Point represents a geographic coordinate (WGS 84)
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Geodesy defines the spherical-earth calculations the engine is built on.
// All methods are pure and safe for concurrent use.
type Geodesy interface {
	// Calculate initial great-circle bearing from start to end, in degrees [0, 360).
	// Coincident points return 0.
	Bearing(start, end Point) float64

	// Calculate the point reached by travelling distanceMeters from origin
	// along bearingDegrees. A distance of 0 returns origin.
	Destination(origin Point, bearingDegrees, distanceMeters float64) Point

	// Calculate great-circle distance between two points in meters
	Distance(a, b Point) float64

	// Calculate the arithmetic midpoint of two points. Short-range
	// approximation, used for framing a single hole.
	Midpoint(a, b Point) Point

	// Decode a Google encoded polyline to a point sequence
	DecodePath(encoded string) ([]Point, error)
}

// NewGeodesy is implemented in geo.go
