package api

import (
	"encoding/json"

	"github.com/example/task-management-api/modules/health"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// Health handles GET /health. No authentication: probers must always be
// able to reach it. 200 when every dependency check is healthy, 503
// otherwise.
func (h *Handlers) Health(c *fiber.Ctx) error {
	req := health.FullStatusRequest{}
	var resp health.FullStatus

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.healthContainer, "full-status",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		// The probe itself being unreachable is an unhealthy answer,
		// not a handler failure.
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error:   "unhealthy",
			Message: "Health check unavailable",
		})
	}

	status := fiber.StatusOK
	if resp.Status != health.StatusHealthy {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(resp)
}

// DatabaseHealth handles GET /health/db.
func (h *Handlers) DatabaseHealth(c *fiber.Ctx) error {
	req := health.CheckDatabaseRequest{}
	var resp health.CheckResult

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.healthContainer, "check-db",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error:   "unhealthy",
			Message: "Health check unavailable",
		})
	}

	status := fiber.StatusOK
	if resp.Status != health.StatusHealthy {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(resp)
}
