package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jandrly/kancl/internal/core/ports"
)

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// List returns every task.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Success      200  {array}   domain.Task
// @Failure      500  {object}  errorResponse
// @Router       /api/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	tasks, err := h.taskService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}
