package api

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// serviceError maps an error from a backing service call onto an HTTP
// response. Service errors cross the container boundary as messages, so
// classification matches against the services' stable error texts. The
// raw error is logged, never returned.
func serviceError(c *fiber.Ctx, err error) error {
	msg := err.Error()

	switch {
	case strings.Contains(msg, "not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Resource not found",
		})
	case strings.Contains(msg, "authentication required"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
		})
	case strings.Contains(msg, "already exists"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: sanitizeMessage(msg),
		})
	case strings.Contains(msg, "is required"),
		strings.Contains(msg, "must be"),
		strings.Contains(msg, "cannot be null"),
		strings.Contains(msg, "not a valid UUID"):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: sanitizeMessage(msg),
		})
	default:
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

// sanitizeMessage strips transport prefixes added by the service call
// helpers, leaving the human-readable cause.
func sanitizeMessage(msg string) string {
	if idx := strings.LastIndex(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}
	return msg
}

// badRequest reports an unparseable request body.
func badRequest(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: "Invalid request body",
	})
}
