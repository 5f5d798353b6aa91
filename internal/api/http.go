package api

import (
	"bytes"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/swingify/server/internal/clients/course"
	"github.com/swingify/server/internal/lib/geo"
	"github.com/swingify/server/internal/services"
	"github.com/swingify/server/internal/store"
)

// Dependencies holds everything the HTTP layer needs
type Dependencies struct {
	Caddie      *services.CaddieService
	Clubs       *store.ClubStore
	CorsOrigins []string
}

// New builds the fiber application with all routes registered
func New(deps *Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "swingify-server",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(deps.CorsOrigins, ","),
	}))

	app.Get("/healthz", healthHandler())
	app.Get("/metrics", metricsHandler())

	api := app.Group("/api")
	api.Get("/courses", listCoursesHandler(deps))
	api.Get("/courses/:id", getCourseHandler(deps))
	api.Get("/courses/:id/kml", exportCourseKMLHandler(deps))
	api.Get("/courses/:id/holes/:num/frame", frameHoleHandler(deps))
	api.Post("/shots/project", projectShotHandler(deps))
	api.Post("/distance", effectiveDistanceHandler(deps))
	api.Get("/clubs", listClubsHandler(deps))
	api.Put("/clubs/:name", saveClubHandler(deps))
	api.Delete("/clubs/:name", deleteClubHandler(deps))

	return app
}

func healthHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	}
}

func metricsHandler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

func listCoursesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		courses, err := deps.Caddie.Courses(c.Context())
		if err != nil {
			return errUpstream(c, err.Error())
		}
		return c.JSON(courses)
	}
}

func getCourseHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return errBadRequest(c, "course id must be an integer")
		}
		data, err := deps.Caddie.CourseData(c.Context(), id)
		if err != nil {
			return errUpstream(c, err.Error())
		}
		return c.JSON(data)
	}
}

func exportCourseKMLHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return errBadRequest(c, "course id must be an integer")
		}
		data, err := deps.Caddie.CourseData(c.Context(), id)
		if err != nil {
			return errUpstream(c, err.Error())
		}

		var buf bytes.Buffer
		if err := course.WriteCourseKML(&buf, data); err != nil {
			return errUpstream(c, err.Error())
		}
		c.Set(fiber.HeaderContentType, "application/vnd.google-earth.kml+xml")
		return c.Send(buf.Bytes())
	}
}

func frameHoleHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return errBadRequest(c, "course id must be an integer")
		}
		num, err := c.ParamsInt("num")
		if err != nil {
			return errBadRequest(c, "hole number must be an integer")
		}

		frame, err := deps.Caddie.FrameHole(c.Context(), id, num)
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(frame)
	}
}

// projectShotRequest is the JSON body for shot projection
type projectShotRequest struct {
	CourseID     int        `json:"course_id"`
	Hole         int        `json:"hole"`
	Club         string     `json:"club"`
	Origin       *geo.Point `json:"origin,omitempty"`
	Aim          *geo.Point `json:"aim,omitempty"`
	UseElevation bool       `json:"use_elevation"`
}

func projectShotHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req projectShotRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Club == "" {
			return errBadRequest(c, "club is required")
		}

		result, err := deps.Caddie.ProjectShot(c.Context(), services.ProjectRequest{
			CourseID:     req.CourseID,
			HoleNum:      req.Hole,
			ClubName:     req.Club,
			Origin:       req.Origin,
			Aim:          req.Aim,
			UseElevation: req.UseElevation,
		})
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(result)
	}
}

// effectiveDistanceRequest is the JSON body for distance resolution
type effectiveDistanceRequest struct {
	Origin       geo.Point `json:"origin"`
	Target       geo.Point `json:"target"`
	UseElevation bool      `json:"use_elevation"`
}

func effectiveDistanceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req effectiveDistanceRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result, err := deps.Caddie.EffectiveDistance(c.Context(), req.Origin, req.Target, req.UseElevation)
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(result)
	}
}

func listClubsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Clubs.List())
	}
}

// saveClubRequest is the JSON body for club upsert
type saveClubRequest struct {
	Distance int `json:"distance"`
}

func saveClubHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req saveClubRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		club := shotClub(c.Params("name"), req.Distance)
		if err := deps.Clubs.Save(club); err != nil {
			return errUnprocessable(c, err.Error())
		}
		return c.Status(fiber.StatusOK).JSON(club)
	}
}

func deleteClubHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := shotClub(c.Params("name"), 0).Name
		if err := deps.Clubs.Delete(name); err != nil {
			return errNotFound(c, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// mapServiceError translates service sentinels into HTTP statuses
func mapServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrHoleNotFound), errors.Is(err, services.ErrClubNotFound):
		return errNotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidCoordinate):
		return errUnprocessable(c, err.Error())
	case errors.Is(err, services.ErrSuperseded):
		return errConflict(c, err.Error())
	default:
		return errUpstream(c, err.Error())
	}
}
