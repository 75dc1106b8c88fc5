package api

import (
	"encoding/json"

	"github.com/example/task-management-api/modules/todo"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// CreateTodo handles POST /api/:userID/todos.
func (h *Handlers) CreateTodo(c *fiber.Ctx) error {
	var body CreateTodoBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c)
	}

	req := todo.CreateTodoRequest{
		UserID:      c.Params("userID"),
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
		DueDate:     body.DueDate,
		CategoryID:  body.CategoryID,
	}
	var resp todo.TodoResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.todoContainer, "create",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListTodos handles GET /api/:userID/todos. Optional query filters:
// category_id and is_completed.
func (h *Handlers) ListTodos(c *fiber.Ctx) error {
	req := todo.ListTodosRequest{
		UserID: c.Params("userID"),
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		req.CategoryID = &categoryID
	}
	if completed := c.QueryBool("is_completed", false); c.Query("is_completed") != "" {
		req.IsCompleted = &completed
	}

	var resp todo.ListTodosResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(), h.todoContainer, "list",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetTodo handles GET /api/:userID/todos/:todoID.
func (h *Handlers) GetTodo(c *fiber.Ctx) error {
	req := todo.GetTodoRequest{
		UserID: c.Params("userID"),
		TodoID: c.Params("todoID"),
	}
	var resp todo.TodoResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.todoContainer, "get",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// UpdateTodo handles PUT /api/:userID/todos/:todoID.
func (h *Handlers) UpdateTodo(c *fiber.Ctx) error {
	var body UpdateTodoBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return badRequest(c)
	}

	req := todo.UpdateTodoRequest{
		UserID:      c.Params("userID"),
		TodoID:      c.Params("todoID"),
		Title:       body.Title,
		Description: body.Description,
		IsCompleted: body.IsCompleted,
		Priority:    body.Priority,
		DueDate:     body.DueDate,
		CategoryID:  body.CategoryID,
	}
	var resp todo.TodoResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.todoContainer, "update",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// DeleteTodo handles DELETE /api/:userID/todos/:todoID.
func (h *Handlers) DeleteTodo(c *fiber.Ctx) error {
	req := todo.DeleteTodoRequest{
		UserID: c.Params("userID"),
		TodoID: c.Params("todoID"),
	}
	var resp todo.DeleteTodoResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.todoContainer, "delete",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return serviceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleTodo handles PATCH /api/:userID/todos/:todoID/complete.
func (h *Handlers) ToggleTodo(c *fiber.Ctx) error {
	req := todo.ToggleTodoRequest{
		UserID: c.Params("userID"),
		TodoID: c.Params("todoID"),
	}
	var resp todo.TodoResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.todoContainer, "toggle",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// CreateCategory handles POST /api/:userID/categories.
func (h *Handlers) CreateCategory(c *fiber.Ctx) error {
	var body CreateCategoryBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c)
	}

	req := todo.CreateCategoryRequest{
		UserID: c.Params("userID"),
		Name:   body.Name,
		Color:  body.Color,
	}
	var resp todo.CategoryResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.todoContainer, "category-create",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListCategories handles GET /api/:userID/categories.
func (h *Handlers) ListCategories(c *fiber.Ctx) error {
	req := todo.ListCategoriesRequest{UserID: c.Params("userID")}
	var resp todo.ListCategoriesResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.todoContainer, "category-list",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// DeleteCategory handles DELETE /api/:userID/categories/:categoryID.
func (h *Handlers) DeleteCategory(c *fiber.Ctx) error {
	req := todo.DeleteCategoryRequest{
		UserID:     c.Params("userID"),
		CategoryID: c.Params("categoryID"),
	}
	var resp todo.DeleteCategoryResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.todoContainer, "category-delete",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return serviceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
