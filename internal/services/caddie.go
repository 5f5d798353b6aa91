package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/swingify/server/internal/clients/course"
	"github.com/swingify/server/internal/lib/elevation"
	"github.com/swingify/server/internal/lib/framing"
	"github.com/swingify/server/internal/lib/geo"
	"github.com/swingify/server/internal/lib/shot"
	"github.com/swingify/server/internal/store"
)

// Sentinel errors the API layer maps to HTTP statuses
var (
	ErrHoleNotFound      = errors.New("hole not found")
	ErrClubNotFound      = errors.New("club not found")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrSuperseded        = errors.New("projection superseded by a newer request")
)

var (
	projectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swingify_projections_total",
		Help: "Shot projections computed",
	})
	framingsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swingify_hole_framings_total",
		Help: "Hole framings computed",
	})
	elevationOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swingify_elevation_resolutions_total",
		Help: "Elevation resolutions by outcome",
	}, []string{"outcome"})
)

// CourseClient is the slice of the course feed client the service consumes
type CourseClient interface {
	ListCourses(ctx context.Context) ([]course.Course, error)
	GetCourse(ctx context.Context, id int) (*course.CourseData, error)
}

// CaddieService orchestrates the engine: course data in, framings and
// projections out. Course documents are cached for the configured TTL; the
// engine components themselves are stateless.
type CaddieService struct {
	courses   CourseClient
	clubs     *store.ClubStore
	geodesy   geo.Geodesy
	projector *shot.Projector
	framer    *framing.Calculator
	resolver  *elevation.Resolver

	cacheTTL time.Duration
	mu       sync.RWMutex
	cache    map[int]cachedCourse
}

type cachedCourse struct {
	data      *course.CourseData
	expiresAt time.Time
}

// NewCaddieService creates the service with its collaborators injected
func NewCaddieService(
	courses CourseClient,
	clubs *store.ClubStore,
	geodesy geo.Geodesy,
	projector *shot.Projector,
	framer *framing.Calculator,
	resolver *elevation.Resolver,
	cacheTTL time.Duration,
) *CaddieService {
	return &CaddieService{
		courses:   courses,
		clubs:     clubs,
		geodesy:   geodesy,
		projector: projector,
		framer:    framer,
		resolver:  resolver,
		cacheTTL:  cacheTTL,
		cache:     make(map[int]cachedCourse),
	}
}

// Courses lists the available courses
func (s *CaddieService) Courses(ctx context.Context) ([]course.Course, error) {
	return s.courses.ListCourses(ctx)
}

// CourseData returns one course's document, served from cache while fresh
func (s *CaddieService) CourseData(ctx context.Context, courseID int) (*course.CourseData, error) {
	s.mu.RLock()
	cached, ok := s.cache[courseID]
	s.mu.RUnlock()
	if ok && time.Now().Before(cached.expiresAt) {
		return cached.data, nil
	}

	data, err := s.courses.GetCourse(ctx, courseID)
	if err != nil {
		// Serve a stale copy over failing outright
		if ok {
			slog.Warn("course feed unavailable, serving stale course", "course_id", courseID, "error", err)
			return cached.data, nil
		}
		return nil, fmt.Errorf("fetching course %d: %w", courseID, err)
	}

	s.mu.Lock()
	s.cache[courseID] = cachedCourse{data: data, expiresAt: time.Now().Add(s.cacheTTL)}
	s.mu.Unlock()

	return data, nil
}

// Hole returns one hole of a course
func (s *CaddieService) Hole(ctx context.Context, courseID, holeNum int) (course.Hole, error) {
	data, err := s.CourseData(ctx, courseID)
	if err != nil {
		return course.Hole{}, err
	}
	for _, hole := range data.Holes {
		if hole.Num == holeNum {
			return hole, nil
		}
	}
	return course.Hole{}, fmt.Errorf("course %d hole %d: %w", courseID, holeNum, ErrHoleNotFound)
}

// HoleFrame bundles a hole with its computed presentation
type HoleFrame struct {
	Hole  course.Hole    `json:"hole"`
	Frame framing.Result `json:"frame"`
}

// FrameHole computes the map presentation for one hole
func (s *CaddieService) FrameHole(ctx context.Context, courseID, holeNum int) (*HoleFrame, error) {
	hole, err := s.Hole(ctx, courseID, holeNum)
	if err != nil {
		return nil, err
	}

	framingsTotal.Inc()
	return &HoleFrame{
		Hole:  hole,
		Frame: s.framer.Frame(hole.Tee(), hole.Green()),
	}, nil
}

// EffectiveDistance resolves the playing distance between two points:
// horizontal when elevation correction is off or unavailable, elevation
// blended otherwise. Last-request-wins across concurrent calls.
func (s *CaddieService) EffectiveDistance(ctx context.Context, origin, target geo.Point, useElevation bool) (elevation.Result, error) {
	if !origin.IsValid() {
		return elevation.Result{}, fmt.Errorf("origin: %w", ErrInvalidCoordinate)
	}
	if !target.IsValid() {
		return elevation.Result{}, fmt.Errorf("target: %w", ErrInvalidCoordinate)
	}

	result, ok := <-s.resolver.Resolve(ctx, origin, target, useElevation)
	if !ok {
		elevationOutcomes.WithLabelValues("superseded").Inc()
		return elevation.Result{}, ErrSuperseded
	}
	if result.Adjusted {
		elevationOutcomes.WithLabelValues("adjusted").Inc()
	} else {
		elevationOutcomes.WithLabelValues("horizontal").Inc()
	}
	return result, nil
}

// ProjectRequest describes one shot to project. Origin defaults to the
// hole's tee when the player's position is unknown; Aim defaults to the
// green and may be overridden to shift the shot direction.
type ProjectRequest struct {
	CourseID     int
	HoleNum      int
	ClubName     string
	Origin       *geo.Point
	Aim          *geo.Point
	UseElevation bool
}

// ShotResult is a projection with its dispersion footprint and the distance
// resolution that produced it
type ShotResult struct {
	Club       shot.Club        `json:"club"`
	Projection shot.Projection  `json:"projection"`
	Footprint  shot.Footprint   `json:"footprint"`
	Distance   elevation.Result `json:"distance"`
}

// ProjectShot projects a club selection onto the course. The elevation
// lookup is best effort and last-request-wins: when a newer projection
// supersedes this one mid-lookup, ErrSuperseded is returned and the caller
// should simply drop the response.
func (s *CaddieService) ProjectShot(ctx context.Context, req ProjectRequest) (*ShotResult, error) {
	hole, err := s.Hole(ctx, req.CourseID, req.HoleNum)
	if err != nil {
		return nil, err
	}

	club, ok := s.clubs.Get(req.ClubName)
	if !ok {
		return nil, fmt.Errorf("club %q: %w", req.ClubName, ErrClubNotFound)
	}

	origin := hole.Tee()
	if req.Origin != nil {
		if !req.Origin.IsValid() {
			return nil, fmt.Errorf("origin: %w", ErrInvalidCoordinate)
		}
		origin = *req.Origin
	}

	aim := hole.Green()
	if req.Aim != nil {
		if !req.Aim.IsValid() {
			return nil, fmt.Errorf("aim: %w", ErrInvalidCoordinate)
		}
		aim = *req.Aim
	}

	// The resolver blends the club's carry with the elevation change between
	// the origin and the projected landing area. The aim point stands in for
	// the landing area: at club ranges the elevation difference is negligible
	// and it saves projecting twice.
	distance, ok := <-s.resolver.Resolve(ctx, origin, aim, req.UseElevation)
	if !ok {
		elevationOutcomes.WithLabelValues("superseded").Inc()
		return nil, ErrSuperseded
	}

	effective := float64(club.Distance)
	if distance.Adjusted {
		elevationOutcomes.WithLabelValues("adjusted").Inc()
		// Apply the elevation delta to the club's carry, not the raw
		// hole distance: effective carry = nominal + (adjusted - horizontal)
		horizontal := s.geodesy.Distance(origin, aim)
		effective += distance.Meters - horizontal
	} else {
		elevationOutcomes.WithLabelValues("horizontal").Inc()
	}

	projection := s.projector.ProjectDistance(club, origin, aim, effective)
	footprint := s.projector.Footprint(club, projection.Landing)
	projectionsTotal.Inc()

	return &ShotResult{
		Club:       club,
		Projection: projection,
		Footprint:  footprint,
		Distance:   distance,
	}, nil
}
