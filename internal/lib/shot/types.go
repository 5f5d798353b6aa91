package shot

import "github.com/swingify/server/internal/lib/geo"

// Club represents a club the player can select: a display name and the
// nominal carry distance in meters. Owned by the club store; read-only here.
type Club struct {
	Name     string `json:"name"`
	Distance int    `json:"distance"`
}

// Projection represents a single projected shot. Origin and Aim echo the
// inputs; Landing is EffectiveDistance meters from Origin along the bearing
// toward Aim. Never persisted; recomputed per club selection or aim shift.
type Projection struct {
	Origin            geo.Point `json:"origin"`
	Aim               geo.Point `json:"aim"`
	Landing           geo.Point `json:"landing"`
	Bearing           float64   `json:"bearing"`
	EffectiveDistance float64   `json:"effective_distance"`
}

// Footprint represents the expected landing region around a projected shot.
// Width and Height are full extents in meters. The current model is circular
// (Height == Width); the pair exists so a renderer with ellipse support can
// take a narrower cross-line extent without an engine change.
type Footprint struct {
	Center geo.Point `json:"center"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
}

// Radius returns the footprint's circular radius in meters. Only meaningful
// while Height == Width.
func (f Footprint) Radius() float64 {
	return f.Width / 2
}
