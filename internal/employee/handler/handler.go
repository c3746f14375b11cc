package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-warehouse-service/internal/auth"
	"github.com/fekuna/omnipos-warehouse-service/internal/employee"
	"github.com/fekuna/omnipos-warehouse-service/internal/employee/dto"
	"github.com/fekuna/omnipos-warehouse-service/pkg/ginx"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	uc     employee.UseCase
	logger logger.ZapLogger
}

func NewEmployeeHandler(uc employee.UseCase, log logger.ZapLogger) *EmployeeHandler {
	return &EmployeeHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *EmployeeHandler) Register(rg *gin.RouterGroup) {
	admin := auth.RequireRole(h.logger, auth.RoleAdmin)

	rg.GET("/name", h.GetOwnName)
	rg.GET("/names", h.ListNames)
	rg.GET("/:id", h.GetEmployee)
	rg.PUT("/:id", h.UpdateEmployee)

	rg.POST("", admin, h.CreateEmployee)
	rg.GET("", admin, h.ListEmployees)
	rg.DELETE("/:id", admin, h.DeleteEmployee)
	rg.PATCH("/:id/title/:title", admin, h.UpdateTitle)
}

func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var input dto.CreateEmployeeInput
	if !ginx.BindJSON(c, h.logger, &input) {
		return
	}

	e, err := h.uc.CreateEmployee(c.Request.Context(), &input)
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.Created(c, e)
}

func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	employees, err := h.uc.ListEmployees(c.Request.Context())
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, employees)
}

func (h *EmployeeHandler) ListNames(c *gin.Context) {
	names, err := h.uc.ListNames(c.Request.Context())
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, names)
}

func (h *EmployeeHandler) GetOwnName(c *gin.Context) {
	name, err := h.uc.GetName(c.Request.Context(), auth.EmployeeID(c.Request.Context()))
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, gin.H{"name": name})
}

func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	e, err := h.uc.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, e)
}

func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var input dto.UpdateEmployeeInput
	if !ginx.BindJSON(c, h.logger, &input) {
		return
	}
	input.ID = c.Param("id")

	e, err := h.uc.UpdateEmployee(c.Request.Context(), &input)
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, e)
}

func (h *EmployeeHandler) UpdateTitle(c *gin.Context) {
	e, err := h.uc.UpdateTitle(c.Request.Context(), c.Param("id"), c.Param("title"))
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, e)
}

func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	if err := h.uc.DeleteEmployee(c.Request.Context(), c.Param("id")); err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.Message(c, http.StatusOK, "Employee deleted")
}
