package api

import (
	"encoding/json"

	"github.com/example/task-management-api/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	taskContainer   mono.ServiceContainer
	todoContainer   mono.ServiceContainer
	healthContainer mono.ServiceContainer
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(taskContainer, todoContainer, healthContainer mono.ServiceContainer) *Handlers {
	return &Handlers{
		taskContainer:   taskContainer,
		todoContainer:   todoContainer,
		healthContainer: healthContainer,
	}
}

// CreateTask handles POST /api/:userID/tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	var body CreateTaskBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c)
	}

	req := task.CreateTaskRequest{
		UserID:      c.Params("userID"),
		Title:       body.Title,
		Description: body.Description,
	}
	var resp task.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.taskContainer, "create",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListTasks handles GET /api/:userID/tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	req := task.ListTasksRequest{
		UserID: c.Params("userID"),
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	}
	var resp task.ListTasksResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.taskContainer, "list",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetTask handles GET /api/:userID/tasks/:taskID.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	req := task.GetTaskRequest{
		UserID: c.Params("userID"),
		TaskID: c.Params("taskID"),
	}
	var resp task.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.taskContainer, "get",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// UpdateTask handles PUT /api/:userID/tasks/:taskID.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	var body UpdateTaskBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return badRequest(c)
	}

	req := task.UpdateTaskRequest{
		UserID:      c.Params("userID"),
		TaskID:      c.Params("taskID"),
		Title:       body.Title,
		Description: body.Description,
		IsCompleted: body.IsCompleted,
	}
	var resp task.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.taskContainer, "update",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// DeleteTask handles DELETE /api/:userID/tasks/:taskID.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	req := task.DeleteTaskRequest{
		UserID: c.Params("userID"),
		TaskID: c.Params("taskID"),
	}
	var resp task.DeleteTaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.taskContainer, "delete",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return serviceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleTask handles PATCH /api/:userID/tasks/:taskID/complete.
func (h *Handlers) ToggleTask(c *fiber.Ctx) error {
	req := task.ToggleTaskRequest{
		UserID: c.Params("userID"),
		TaskID: c.Params("taskID"),
	}
	var resp task.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.taskContainer, "toggle",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
