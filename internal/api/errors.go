package api

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/swingify/server/internal/lib/shot"
)

// APIError is a structured error response.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// newError builds a JSON error response.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	return c.Status(status).JSON(APIError{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

// errUnprocessable returns a 422 error.
func errUnprocessable(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusUnprocessableEntity, "unprocessable", msg)
}

// errConflict returns a 409 error.
func errConflict(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusConflict, "conflict", msg)
}

// errUpstream returns a 502 error for course/elevation feed failures.
func errUpstream(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadGateway, "upstream_error", msg)
}

// shotClub builds a club from a URL path segment and a distance,
// unescaping names like "7%20Iron".
func shotClub(rawName string, distance int) shot.Club {
	name, err := url.PathUnescape(rawName)
	if err != nil {
		name = rawName
	}
	return shot.Club{Name: name, Distance: distance}
}
