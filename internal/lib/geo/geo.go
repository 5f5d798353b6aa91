package geo

import (
	"errors"
	"math"

	"github.com/twpayne/go-polyline"
)

// EarthRadius is the mean Earth radius in meters used for all spherical math.
const EarthRadius = 6371000

// geodesy implements the Geodesy interface
type geodesy struct{}

// NewGeodesy creates a new Geodesy implementation
func NewGeodesy() Geodesy {
	return &geodesy{}
}

// Bearing calculates the initial great-circle bearing from start to end.
// Result is in degrees, normalized into [0, 360).
func (g *geodesy) Bearing(start, end Point) float64 {
	// Coincident points have no defined bearing; 0 keeps downstream math finite.
	if start.Latitude == end.Latitude && start.Longitude == end.Longitude {
		return 0
	}

	lat1 := degreesToRadians(start.Latitude)
	lon1 := degreesToRadians(start.Longitude)
	lat2 := degreesToRadians(end.Latitude)
	lon2 := degreesToRadians(end.Longitude)

	dLon := lon2 - lon1
	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	bearing := radiansToDegrees(math.Atan2(y, x))

	// atan2 yields (-180, 180]; near-antipodal cancellation can also leave NaN
	if math.IsNaN(bearing) {
		return 0
	}
	return normalizeBearing(bearing)
}

// Destination calculates the point reached by travelling distanceMeters from
// origin along bearingDegrees, using the spherical direct geodesic formula.
func (g *geodesy) Destination(origin Point, bearingDegrees, distanceMeters float64) Point {
	if distanceMeters == 0 {
		return origin
	}

	bearing := degreesToRadians(normalizeBearing(bearingDegrees))
	lat1 := degreesToRadians(origin.Latitude)
	lon1 := degreesToRadians(origin.Longitude)

	angular := distanceMeters / EarthRadius

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(angular) +
		math.Cos(lat1)*math.Sin(angular)*math.Cos(bearing))
	lon2 := lon1 + math.Atan2(
		math.Sin(bearing)*math.Sin(angular)*math.Cos(lat1),
		math.Cos(angular)-math.Sin(lat1)*math.Sin(lat2))

	return Point{
		Latitude:  radiansToDegrees(lat2),
		Longitude: wrapLongitude(radiansToDegrees(lon2)),
	}
}

// Distance calculates great-circle distance between two points using the
// Haversine formula
func (g *geodesy) Distance(a, b Point) float64 {
	if a.Latitude == b.Latitude && a.Longitude == b.Longitude {
		return 0
	}

	lat1 := degreesToRadians(a.Latitude)
	lat2 := degreesToRadians(b.Latitude)
	dLat := degreesToRadians(b.Latitude - a.Latitude)
	dLon := degreesToRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadius * c
}

// Midpoint calculates the arithmetic mean of the two points' components.
// Adequate over the few hundred meters of a golf hole; not a geodesic midpoint.
func (g *geodesy) Midpoint(a, b Point) Point {
	return Point{
		Latitude:  (a.Latitude + b.Latitude) / 2,
		Longitude: (a.Longitude + b.Longitude) / 2,
	}
}

// DecodePath decodes a Google encoded polyline string to a point sequence
func (g *geodesy) DecodePath(encoded string) ([]Point, error) {
	if encoded == "" {
		return nil, errors.New("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, errors.New("failed to decode polyline: " + err.Error())
	}

	points := make([]Point, len(coords))
	for i, coord := range coords {
		points[i] = Point{Latitude: coord[0], Longitude: coord[1]}
		if !isValidCoordinate(points[i]) {
			return nil, errors.New("decoded polyline contains invalid coordinates")
		}
	}
	return points, nil
}

// NewPoint creates a Point from latitude and longitude values with validation
func NewPoint(latitude, longitude float64) (Point, error) {
	point := Point{Latitude: latitude, Longitude: longitude}
	if !isValidCoordinate(point) {
		return Point{}, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}
	return point, nil
}

// NewPointUnsafe creates a Point without validation (for performance-critical paths)
func NewPointUnsafe(latitude, longitude float64) Point {
	return Point{Latitude: latitude, Longitude: longitude}
}

// IsValid reports whether the point's coordinates are in range
func (p Point) IsValid() bool {
	return isValidCoordinate(p)
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

func radiansToDegrees(radians float64) float64 {
	return radians * 180 / math.Pi
}

// normalizeBearing wraps a bearing in degrees into [0, 360)
func normalizeBearing(degrees float64) float64 {
	normalized := math.Mod(degrees, 360)
	if normalized < 0 {
		normalized += 360
	}
	return normalized
}

// wrapLongitude wraps a longitude in degrees back into [-180, 180]
func wrapLongitude(degrees float64) float64 {
	if degrees >= -180 && degrees <= 180 {
		return degrees
	}
	wrapped := math.Mod(degrees+180, 360)
	if wrapped < 0 {
		wrapped += 360
	}
	return wrapped - 180
}

// isValidCoordinate validates latitude and longitude values
func isValidCoordinate(point Point) bool {
	return point.Latitude >= -90 && point.Latitude <= 90 &&
		point.Longitude >= -180 && point.Longitude <= 180 &&
		!math.IsNaN(point.Latitude) && !math.IsNaN(point.Longitude)
}
