package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/example/authgate/internal/services"
)

// httpError translates service errors into HTTP failures. Anything outside
// the known taxonomy falls through to the app error handler as a 500.
func httpError(err error) error {
	switch {
	case errors.Is(err, services.ErrFieldsRequired),
		errors.Is(err, services.ErrUserExists),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrInvalidCode),
		errors.Is(err, services.ErrSignupExpired):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrGateway):
		return fiber.NewError(fiber.StatusInternalServerError, services.ErrGateway.Error())
	default:
		return err
	}
}

// ErrorHandler is the app-level error boundary: every error becomes a JSON
// `{"error": message}` body with the matching status. Unexpected errors are
// logged and reported as a plain 500 so internals never leak to clients.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}

	log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
