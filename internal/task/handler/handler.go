package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-warehouse-service/internal/auth"
	"github.com/fekuna/omnipos-warehouse-service/internal/task"
	"github.com/fekuna/omnipos-warehouse-service/internal/task/dto"
	"github.com/fekuna/omnipos-warehouse-service/pkg/ginx"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	uc     task.UseCase
	logger logger.ZapLogger
}

func NewTaskHandler(uc task.UseCase, log logger.ZapLogger) *TaskHandler {
	return &TaskHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *TaskHandler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.CreateTask)
	rg.GET("", h.ListTasks)
	rg.GET("/employee/internal", h.ListMine)
	rg.GET("/employee/:employeeId", h.ListByEmployee)
	rg.GET("/assignee/:assignee", h.ListByAssignee)
	rg.GET("/:id", h.GetTask)
	rg.PUT("/:id", h.UpdateTask)
	rg.DELETE("/:id", h.DeleteTask)
	rg.PATCH("/:id/start", h.StartTask)
	rg.PATCH("/:id/complete", h.CompleteTask)
	rg.PATCH("/:id/status/:status", h.UpdateStatus)
	rg.PATCH("/:id/level/:level", h.UpdateLevel)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var input dto.CreateTaskInput
	if !ginx.BindJSON(c, h.logger, &input) {
		return
	}
	input.Assignee = auth.EmployeeID(c.Request.Context())

	t, err := h.uc.CreateTask(c.Request.Context(), &input)
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.Created(c, t)
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.uc.ListTasks(c.Request.Context())
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, tasks)
}

func (h *TaskHandler) ListMine(c *gin.Context) {
	tasks, err := h.uc.ListByEmployee(c.Request.Context(), auth.EmployeeID(c.Request.Context()))
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, tasks)
}

func (h *TaskHandler) ListByEmployee(c *gin.Context) {
	tasks, err := h.uc.ListByEmployee(c.Request.Context(), c.Param("employeeId"))
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, tasks)
}

func (h *TaskHandler) ListByAssignee(c *gin.Context) {
	tasks, err := h.uc.ListByAssignee(c.Request.Context(), c.Param("assignee"))
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, tasks)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	t, err := h.uc.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, t)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var input dto.UpdateTaskInput
	if !ginx.BindJSON(c, h.logger, &input) {
		return
	}
	input.ID = c.Param("id")

	t, err := h.uc.UpdateTask(c.Request.Context(), &input)
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, t)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.uc.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.Message(c, http.StatusOK, "Task deleted")
}

func (h *TaskHandler) StartTask(c *gin.Context) {
	input, ok := h.transition(c)
	if !ok {
		return
	}
	t, err := h.uc.StartTask(c.Request.Context(), input)
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, t)
}

func (h *TaskHandler) CompleteTask(c *gin.Context) {
	input, ok := h.transition(c)
	if !ok {
		return
	}
	t, err := h.uc.CompleteTask(c.Request.Context(), input)
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, t)
}

func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	t, err := h.uc.UpdateStatus(c.Request.Context(), c.Param("id"), c.Param("status"))
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, t)
}

func (h *TaskHandler) UpdateLevel(c *gin.Context) {
	t, err := h.uc.UpdateLevel(c.Request.Context(), c.Param("id"), c.Param("level"))
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, t)
}

// transition reads the optional {"at": ...} body of start and complete.
func (h *TaskHandler) transition(c *gin.Context) (*dto.TransitionInput, bool) {
	input := &dto.TransitionInput{ID: c.Param("id")}
	if c.Request.ContentLength > 0 && !ginx.BindJSON(c, h.logger, input) {
		return nil, false
	}
	return input, true
}
