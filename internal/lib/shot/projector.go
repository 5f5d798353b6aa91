package shot

import (
	"github.com/swingify/server/internal/lib/geo"
)

// DefaultDispersionCoefficient is the fraction of carry distance used as the
// footprint radius. 0.10 is the wide "amateur" ring; 0.05 suits a tighter
// "expert" footprint.
const DefaultDispersionCoefficient = 0.10

// Projector projects club carries onto the course and derives dispersion
// footprints. Stateless apart from its configuration; safe for concurrent use.
type Projector struct {
	geodesy    geo.Geodesy
	dispersion float64
}

// NewProjector creates a Projector with the given dispersion coefficient.
// A coefficient <= 0 falls back to the default.
func NewProjector(geodesy geo.Geodesy, dispersionCoefficient float64) *Projector {
	if dispersionCoefficient <= 0 {
		dispersionCoefficient = DefaultDispersionCoefficient
	}
	return &Projector{geodesy: geodesy, dispersion: dispersionCoefficient}
}

// Project computes where the club's nominal carry lands when aimed from
// origin toward aim. The landing point follows the bearing toward aim, not
// the green, so callers can shift the shot direction independently.
func (p *Projector) Project(club Club, origin, aim geo.Point) Projection {
	return p.ProjectDistance(club, origin, aim, float64(club.Distance))
}

// ProjectDistance is Project with the carry distance overridden, used when an
// elevation-adjusted effective distance replaces the club's nominal carry.
func (p *Projector) ProjectDistance(club Club, origin, aim geo.Point, effectiveMeters float64) Projection {
	if effectiveMeters < 0 {
		effectiveMeters = 0
	}

	bearing := p.geodesy.Bearing(origin, aim)
	landing := p.geodesy.Destination(origin, bearing, effectiveMeters)

	return Projection{
		Origin:            origin,
		Aim:               aim,
		Landing:           landing,
		Bearing:           bearing,
		EffectiveDistance: effectiveMeters,
	}
}

// Footprint derives the dispersion footprint for a club around a landing
// point: a circle whose radius is the club's carry times the dispersion
// coefficient.
func (p *Projector) Footprint(club Club, landing geo.Point) Footprint {
	// Width holds the full extent; Radius() halves it
	diameter := 2 * (float64(club.Distance) * p.dispersion)
	return Footprint{
		Center: landing,
		Width:  diameter,
		Height: diameter,
	}
}
