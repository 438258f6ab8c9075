package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/biosecret/go-tasks/events"
	"github.com/biosecret/go-tasks/middleware"
	"github.com/biosecret/go-tasks/models"
	"github.com/biosecret/go-tasks/repository"
)

const msgTaskNotFound = "Task dont exists"

// HandleCreateTask godoc
// @Summary Create a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param task body createTaskRequest true "Task"
// @Success 201 {object} taskEnvelope
// @Failure 400 {object} validationErrors
// @Failure 500 {object} internalErrorResponse
// @Router /tasks [post]
func (h *Handler) HandleCreateTask(c *fiber.Ctx) error {
	body, err := middleware.Body(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON body"})
	}

	task := &models.Task{CreatedAt: h.now()}
	if title, ok := middleware.BodyString(body, "title"); ok {
		task.Title = *title
	}
	if desc, ok := middleware.BodyString(body, "description"); ok {
		task.Description = *desc
	}

	if err := h.tasks.Create(c.UserContext(), task); err != nil {
		if isModelError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return h.internalError(c, err)
	}

	h.events.Publish(events.Event{Type: events.TaskCreated, TaskID: task.ID, Task: task})
	return c.Status(fiber.StatusCreated).JSON(taskEnvelope{Task: *task})
}

// HandleAllTasks godoc
// @Summary List tasks
// @Tags Tasks
// @Produce json
// @Param completed query string false "Filter by completion" Enums(true, false)
// @Success 200 {array} models.Task
// @Failure 400 {object} validationErrors
// @Failure 500 {object} internalErrorResponse
// @Router /tasks [get]
func (h *Handler) HandleAllTasks(c *fiber.Ctx) error {
	var filter repository.TaskFilter
	switch c.Query("completed") {
	case "true":
		done := true
		filter.Completed = &done
	case "false":
		done := false
		filter.Completed = &done
	}

	tasks, err := h.tasks.List(c.UserContext(), filter)
	if err != nil {
		return h.internalError(c, err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return c.Status(fiber.StatusOK).JSON(tasks)
}

// HandleGetOneTask godoc
// @Summary Get a task by id
// @Tags Tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} models.Task
// @Failure 400 {object} validationErrors
// @Failure 404 {object} errorResponse
// @Failure 500 {object} internalErrorResponse
// @Router /tasks/{id} [get]
func (h *Handler) HandleGetOneTask(c *fiber.Ctx) error {
	task, err := h.tasks.FindByID(c.UserContext(), taskID(c))
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: msgTaskNotFound})
	} else if err != nil {
		return h.internalError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(task)
}

// HandleUpdateTask godoc
// @Summary Update a task
// @Description Partial update: fields left out of the body keep their value.
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param task body updateTaskRequest true "Fields to change"
// @Success 200 {object} models.Task
// @Failure 400 {object} validationErrors
// @Failure 404 {object} errorResponse
// @Failure 500 {object} internalErrorResponse
// @Router /tasks/{id} [put]
func (h *Handler) HandleUpdateTask(c *fiber.Ctx) error {
	body, err := middleware.Body(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON body"})
	}

	var patch models.TaskPatch
	if title, ok := middleware.BodyString(body, "title"); ok {
		patch.Title = title
	}
	if desc, ok := middleware.BodyString(body, "description"); ok {
		patch.Description = desc
	}
	if done, ok := middleware.BodyBool(body, "completed"); ok {
		patch.Completed = done
	}

	task, err := h.tasks.Update(c.UserContext(), taskID(c), patch)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: msgTaskNotFound})
	case isModelError(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return h.internalError(c, err)
	}

	h.events.Publish(events.Event{Type: events.TaskUpdated, TaskID: task.ID, Task: task})
	return c.Status(fiber.StatusOK).JSON(task)
}

// HandleDeleteTask godoc
// @Summary Delete a task
// @Tags Tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} messageResponse
// @Failure 400 {object} validationErrors
// @Failure 404 {object} errorResponse
// @Failure 500 {object} internalErrorResponse
// @Router /tasks/{id} [delete]
func (h *Handler) HandleDeleteTask(c *fiber.Ctx) error {
	id := taskID(c)
	err := h.tasks.Delete(c.UserContext(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: msgTaskNotFound})
	} else if err != nil {
		return h.internalError(c, err)
	}

	h.events.Publish(events.Event{Type: events.TaskDeleted, TaskID: id})
	return c.Status(fiber.StatusOK).JSON(messageResponse{Message: "Task deleted successfully"})
}

// taskID copies the route id out of the request buffer, which fasthttp
// reuses once the handler returns. Events and stores may keep it longer.
func taskID(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("id"))
}

func isModelError(err error) bool {
	return errors.Is(err, models.ErrTitleRequired) || errors.Is(err, models.ErrDescriptionTooLong)
}
