package elevation

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/swingify/server/internal/lib/geo"
)

// DefaultCorrectionFactor is the empirical factor applied to the elevation
// delta: uphill lengthens the effective playing distance, downhill shortens it.
const DefaultCorrectionFactor = 0.7

// Lookup returns elevations in meters for the given points, in request
// order, in a single round trip.
type Lookup interface {
	Elevations(ctx context.Context, points []geo.Point) ([]float64, error)
}

// Result is the outcome of one Resolve call. Meters is always usable: when
// the lookup fails or correction is disabled it is the plain horizontal
// distance and Adjusted is false.
type Result struct {
	Meters     float64 `json:"meters"`
	Adjusted   bool    `json:"adjusted"`
	Generation uint64  `json:"-"`
}

// Resolver blends horizontal distance with elevation change into a single
// playing distance. The elevation lookup is best effort: failures fall back
// to the horizontal distance, and a newer Resolve call supersedes any lookup
// still in flight, so a stale response can never clobber a newer projection.
type Resolver struct {
	geodesy geo.Geodesy
	lookup  Lookup
	factor  float64

	mu         sync.Mutex
	generation uint64
	cancelPrev context.CancelFunc
}

// NewResolver creates a Resolver. lookup may be nil, in which case every
// resolution is the unadjusted horizontal distance. A factor <= 0 falls back
// to the default.
func NewResolver(geodesy geo.Geodesy, lookup Lookup, factor float64) *Resolver {
	if factor <= 0 {
		factor = DefaultCorrectionFactor
	}
	return &Resolver{geodesy: geodesy, lookup: lookup, factor: factor}
}

// Resolve computes the effective playing distance from origin to target.
// The returned channel delivers at most one Result and is then closed; if a
// newer Resolve call supersedes this one before its lookup completes, the
// channel closes without a value.
func (r *Resolver) Resolve(ctx context.Context, origin, target geo.Point, enabled bool) <-chan Result {
	out := make(chan Result, 1)
	horizontal := r.geodesy.Distance(origin, target)

	r.mu.Lock()
	r.generation++
	generation := r.generation
	if r.cancelPrev != nil {
		r.cancelPrev()
		r.cancelPrev = nil
	}

	if !enabled || r.lookup == nil {
		r.mu.Unlock()
		out <- Result{Meters: horizontal, Adjusted: false, Generation: generation}
		close(out)
		return out
	}

	lookupCtx, cancel := context.WithCancel(ctx)
	r.cancelPrev = cancel
	r.mu.Unlock()

	go func() {
		defer close(out)

		result := Result{Meters: horizontal, Adjusted: false, Generation: generation}

		elevations, err := r.lookup.Elevations(lookupCtx, []geo.Point{origin, target})
		switch {
		case err != nil:
			slog.Debug("elevation lookup failed, using horizontal distance", "error", err)
		case len(elevations) != 2:
			slog.Warn("elevation lookup returned wrong point count", "count", len(elevations))
		default:
			delta := elevations[1] - elevations[0]
			adjusted := horizontal + r.factor*delta
			if !math.IsNaN(adjusted) && !math.IsInf(adjusted, 0) {
				result.Meters = adjusted
				result.Adjusted = true
			}
		}

		// Deliver only if no newer request has superseded this one
		r.mu.Lock()
		current := r.generation == generation
		if current && r.cancelPrev != nil {
			r.cancelPrev()
			r.cancelPrev = nil
		}
		r.mu.Unlock()

		if current {
			out <- result
		}
	}()

	return out
}

// Generation returns the sequence number of the most recent Resolve call.
func (r *Resolver) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}
