package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-warehouse-service/internal/auth"
	"github.com/fekuna/omnipos-warehouse-service/internal/inventory"
	"github.com/fekuna/omnipos-warehouse-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-warehouse-service/pkg/ginx"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

const exportFileName = "inventory-list.csv"

type InventoryHandler struct {
	uc      inventory.UseCase
	uploads *Uploads
	logger  logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, uploads *Uploads, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:      uc,
		uploads: uploads,
		logger:  log,
	}
}

// Register mounts the inventory routes on rg. Authentication is expected to
// run before rg; deletes additionally require the admin role.
func (h *InventoryHandler) Register(rg *gin.RouterGroup) {
	admin := auth.RequireRole(h.logger, auth.RoleAdmin)

	items := rg.Group("/items")
	items.GET("", h.ListItems)
	items.GET("/search", h.SearchItems)
	items.POST("", h.CreateItem)
	items.GET("/:id", h.GetItem)
	items.PUT("/:id", h.UpdateItem)
	items.PATCH("/:id/stock", h.UpdateStock)
	items.PATCH("/:id/location", h.UpdateLocation)
	items.PATCH("/:id/status", h.UpdateStatus)
	items.DELETE("/:id", admin, h.DeleteItem)

	download := rg.Group("/download")
	download.GET("/full-list", h.ExportAll)
	download.POST("/picked-attributes", h.ExportAttributes)
	download.POST("/picked-list", h.ExportList)
	download.GET("/template", h.Template)

	upload := rg.Group("/upload")
	upload.PUT("/stock", h.BulkUpdateStock)
	upload.POST("/list", h.ImportItems)

	logs := rg.Group("/logs")
	logs.GET("", h.ListItemLogs)
	logs.GET("/:id", h.GetItemLog)
	logs.DELETE("/:id", admin, h.DeleteItemLog)

	batches := rg.Group("/batch-logs")
	batches.GET("", h.ListBatchLogs)
	batches.GET("/:id", h.GetBatchLog)
	batches.DELETE("/:id", admin, h.DeleteBatchLog)
}

func (h *InventoryHandler) ListItems(c *gin.Context) {
	items, err := h.uc.ListItems(c.Request.Context())
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, items)
}

func (h *InventoryHandler) SearchItems(c *gin.Context) {
	items, err := h.uc.SearchItems(c.Request.Context(), c.Query("q"))
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, items)
}

func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var input dto.CreateItemInput
	if !ginx.BindJSON(c, h.logger, &input) {
		return
	}
	input.CreatedBy = auth.EmployeeID(c.Request.Context())

	item, err := h.uc.CreateItem(c.Request.Context(), &input)
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.Created(c, item)
}

func (h *InventoryHandler) GetItem(c *gin.Context) {
	item, err := h.uc.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, item)
}

func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	var input dto.UpdateItemInput
	if !ginx.BindJSON(c, h.logger, &input) {
		return
	}
	input.ID = c.Param("id")
	input.UpdatedBy = auth.EmployeeID(c.Request.Context())

	item, err := h.uc.UpdateItem(c.Request.Context(), &input)
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, item)
}

func (h *InventoryHandler) UpdateStock(c *gin.Context) {
	var input dto.UpdateStockInput
	if !ginx.BindJSON(c, h.logger, &input) {
		return
	}
	input.ID = c.Param("id")
	input.UpdatedBy = auth.EmployeeID(c.Request.Context())

	item, err := h.uc.UpdateStock(c.Request.Context(), &input)
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, item)
}

func (h *InventoryHandler) UpdateLocation(c *gin.Context) {
	var input dto.UpdateLocationInput
	if !ginx.BindJSON(c, h.logger, &input) {
		return
	}
	input.ID = c.Param("id")
	input.UpdatedBy = auth.EmployeeID(c.Request.Context())

	item, err := h.uc.UpdateLocation(c.Request.Context(), &input)
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, item)
}

func (h *InventoryHandler) UpdateStatus(c *gin.Context) {
	var input dto.UpdateStatusInput
	if !ginx.BindJSON(c, h.logger, &input) {
		return
	}
	input.ID = c.Param("id")
	input.UpdatedBy = auth.EmployeeID(c.Request.Context())

	item, err := h.uc.UpdateStatus(c.Request.Context(), &input)
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, item)
}

func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	if err := h.uc.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.Message(c, http.StatusOK, "Item deleted")
}

func (h *InventoryHandler) ListItemLogs(c *gin.Context) {
	logs, err := h.uc.ListItemLogs(c.Request.Context(), c.Query("sku"))
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, logs)
}

func (h *InventoryHandler) GetItemLog(c *gin.Context) {
	log, err := h.uc.GetItemLog(c.Request.Context(), c.Param("id"))
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, log)
}

func (h *InventoryHandler) DeleteItemLog(c *gin.Context) {
	if err := h.uc.DeleteItemLog(c.Request.Context(), c.Param("id")); err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.Message(c, http.StatusOK, "Item log deleted")
}

func (h *InventoryHandler) ListBatchLogs(c *gin.Context) {
	logs, err := h.uc.ListBatchLogs(c.Request.Context())
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, logs)
}

func (h *InventoryHandler) GetBatchLog(c *gin.Context) {
	log, err := h.uc.GetBatchLog(c.Request.Context(), c.Param("id"))
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, log)
}

func (h *InventoryHandler) DeleteBatchLog(c *gin.Context) {
	if err := h.uc.DeleteBatchLog(c.Request.Context(), c.Param("id")); err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.Message(c, http.StatusOK, "Batch log deleted")
}
