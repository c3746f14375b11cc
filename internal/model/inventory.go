package model

import (
	"strings"
	"time"
)

type StockStatus string

const (
	StatusHealthy  StockStatus = "HEALTHY"
	StatusCaution  StockStatus = "CAUTION"
	StatusCritical StockStatus = "CRITICAL"
)

// ParseStockStatus accepts any casing of the three status names.
func ParseStockStatus(s string) (StockStatus, bool) {
	switch StockStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusHealthy:
		return StatusHealthy, true
	case StatusCaution:
		return StatusCaution, true
	case StatusCritical:
		return StatusCritical, true
	}
	return "", false
}

const NoteMaxLength = 200

type Item struct {
	BaseModel
	Name          string      `db:"name" json:"name" validate:"required"`
	SKU           string      `db:"sku" json:"SKU" validate:"required"`
	Stock         int         `db:"stock" json:"stock" validate:"min=0"`
	Threshold     int         `db:"threshold" json:"threshold" validate:"min=0"`
	Status        StockStatus `db:"status" json:"status" validate:"oneof=HEALTHY CAUTION CRITICAL"`
	Location      string      `db:"location" json:"location" validate:"required"`
	LastUpdatedBy *string     `db:"last_updated_by" json:"lastUpdatedBy"`
}

// ItemLog records a single-item stock change.
type ItemLog struct {
	ID              string    `db:"id" json:"id"`
	SKU             string    `db:"sku" json:"SKU" validate:"required"`
	EmployeeID      string    `db:"employee_id" json:"employeeId" validate:"required"`
	QuantityChanged string    `db:"quantity_changed" json:"quantityChanged" validate:"required"`
	Note            *string   `db:"note" json:"note" validate:"omitempty,max=200"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// BatchLog records one file-driven stock update across many items.
type BatchLog struct {
	ID           string     `db:"id" json:"id"`
	AffectedSKUs StringList `db:"affected_skus" json:"affectedItemsSKUs" validate:"required,min=1"`
	EmployeeID   string     `db:"employee_id" json:"employeeId" validate:"required"`
	Note         *string    `db:"note" json:"note" validate:"omitempty,max=200"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}
