package framing

import (
	"math"

	"github.com/swingify/server/internal/lib/geo"
)

// Default tuning constants. Zoom values are angular-degree spans; the
// base/max pair and the camera factor were carried over from the values the
// mobile app settled on by trial and error.
const (
	DefaultBaseZoom       = 0.0005
	DefaultMaxZoom        = 0.003
	DefaultCameraCeiling  = 1000.0
	DefaultCameraFactor   = 2.3
	zoomDistanceReference = 100.0
)

// Result describes how to present a hole: a map region (center + angular
// span) and a camera (bearing + viewing distance) that put the tee at the
// bottom of the view and the green at the top.
type Result struct {
	Center         geo.Point `json:"center"`
	Span           float64   `json:"span"`
	Bearing        float64   `json:"bearing"`
	CameraDistance float64   `json:"camera_distance"`
	HoleDistance   float64   `json:"hole_distance"`
}

// Calculator computes hole framings. Stateless apart from its tuning
// constants; safe for concurrent use.
type Calculator struct {
	geodesy       geo.Geodesy
	baseZoom      float64
	maxZoom       float64
	cameraCeiling float64
	cameraFactor  float64
}

// Config holds the framing tuning constants. Zero values fall back to the
// defaults.
type Config struct {
	BaseZoom      float64
	MaxZoom       float64
	CameraCeiling float64
	CameraFactor  float64
}

// NewCalculator creates a Calculator with the given tuning constants
func NewCalculator(geodesy geo.Geodesy, cfg Config) *Calculator {
	if cfg.BaseZoom <= 0 {
		cfg.BaseZoom = DefaultBaseZoom
	}
	if cfg.MaxZoom <= 0 {
		cfg.MaxZoom = DefaultMaxZoom
	}
	if cfg.CameraCeiling <= 0 {
		cfg.CameraCeiling = DefaultCameraCeiling
	}
	if cfg.CameraFactor <= 0 {
		cfg.CameraFactor = DefaultCameraFactor
	}
	return &Calculator{
		geodesy:       geodesy,
		baseZoom:      cfg.BaseZoom,
		maxZoom:       cfg.MaxZoom,
		cameraCeiling: cfg.CameraCeiling,
		cameraFactor:  cfg.CameraFactor,
	}
}

// Frame computes the presentation for one hole. Deterministic in tee/green;
// callers recompute whenever the active hole changes. A degenerate hole
// (tee == green) yields span = baseZoom, camera distance 0 and bearing 0
// rather than an error.
func (c *Calculator) Frame(tee, green geo.Point) Result {
	center := c.geodesy.Midpoint(tee, green)
	bearing := c.geodesy.Bearing(tee, green)
	holeDistance := c.geodesy.Distance(tee, green)

	// Longer holes get a larger (more zoomed-out) span, clamped at both ends
	span := math.Max(c.baseZoom, math.Min(c.maxZoom, c.baseZoom*holeDistance/zoomDistanceReference))

	// Keep the camera close on short holes, capped on long ones
	cameraDistance := math.Min(c.cameraCeiling, holeDistance*c.cameraFactor)

	return Result{
		Center:         center,
		Span:           span,
		Bearing:        bearing,
		CameraDistance: cameraDistance,
		HoleDistance:   holeDistance,
	}
}
