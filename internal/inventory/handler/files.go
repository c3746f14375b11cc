package handler

import (
	"errors"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/fekuna/omnipos-warehouse-service/internal/auth"
	"github.com/fekuna/omnipos-warehouse-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-warehouse-service/pkg/apperror"
	"github.com/fekuna/omnipos-warehouse-service/pkg/ginx"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	stockListField     = "stock-list"
	inventoryListField = "inventory-list"
)

// Uploads is where multipart files are stored until the use case consumes
// and removes them.
type Uploads struct {
	Dir      string
	MaxBytes int64
}

func (u *Uploads) save(c *gin.Context, field string) (string, error) {
	if u.MaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, u.MaxBytes)
	}
	fh, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", apperror.Validation("File is too large", apperror.FieldError{Field: field, Message: field + " exceeds the upload limit"})
		}
		return "", apperror.Validation("No file was uploaded", apperror.FieldError{Field: field, Message: field + " cannot be empty"})
	}
	if !isCSV(fh.Filename, fh.Header.Get("Content-Type")) {
		return "", apperror.Validation("Only csv files are accepted", apperror.FieldError{Field: field, Message: field + " must be a .csv file", Value: fh.Filename})
	}

	if err := os.MkdirAll(u.Dir, 0o755); err != nil {
		return "", apperror.Internal("Could not store uploaded file", err)
	}
	path := filepath.Join(u.Dir, uuid.New().String()+"-"+filepath.Base(fh.Filename))
	if err := c.SaveUploadedFile(fh, path); err != nil {
		return "", apperror.Internal("Could not store uploaded file", err)
	}
	return path, nil
}

func isCSV(name, contentType string) bool {
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && (mt == "text/csv" || mt == "application/csv")
}

func (h *InventoryHandler) BulkUpdateStock(c *gin.Context) {
	path, err := h.uploads.save(c, stockListField)
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	input := &dto.BulkUpdateInput{
		FilePath:  path,
		UpdatedBy: auth.EmployeeID(c.Request.Context()),
	}
	if note, ok := c.GetPostForm("note"); ok {
		input.Note = &note
	}

	rows, err := h.uc.BulkUpdateStock(c.Request.Context(), input)
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.OK(c, rows)
}

func (h *InventoryHandler) ImportItems(c *gin.Context) {
	path, err := h.uploads.save(c, inventoryListField)
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}

	items, err := h.uc.ImportItems(c.Request.Context(), &dto.ImportInput{
		FilePath:  path,
		CreatedBy: auth.EmployeeID(c.Request.Context()),
	})
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	ginx.Created(c, items)
}

type attributesRequest struct {
	Attributes []string `json:"attributes" binding:"required,min=1"`
}

type listRequest struct {
	SKUs       []string `json:"SKUs" binding:"required,min=1"`
	Attributes []string `json:"attributes"`
}

func (h *InventoryHandler) ExportAll(c *gin.Context) {
	h.export(c, &dto.ExportInput{})
}

func (h *InventoryHandler) ExportAttributes(c *gin.Context) {
	var req attributesRequest
	if !ginx.BindJSON(c, h.logger, &req) {
		return
	}
	h.export(c, &dto.ExportInput{Attributes: req.Attributes})
}

func (h *InventoryHandler) ExportList(c *gin.Context) {
	var req listRequest
	if !ginx.BindJSON(c, h.logger, &req) {
		return
	}
	h.export(c, &dto.ExportInput{SKUs: req.SKUs, Attributes: req.Attributes})
}

func (h *InventoryHandler) Template(c *gin.Context) {
	attachment(c, h.uc.ImportTemplate())
}

func (h *InventoryHandler) export(c *gin.Context, input *dto.ExportInput) {
	out, err := h.uc.Export(c.Request.Context(), input)
	if err != nil {
		ginx.Error(c, h.logger, err)
		return
	}
	attachment(c, out)
}

func attachment(c *gin.Context, body []byte) {
	c.Header("Content-Disposition", `attachment; filename=`+exportFileName)
	c.Data(http.StatusOK, "text/csv", body)
}
