package dto

import "github.com/fekuna/omnipos-warehouse-service/internal/model"

// StockRow is one parsed line of a bulk stock update file.
type StockRow struct {
	Row       int
	SKU       string
	Stock     int
	Threshold *int
}

// ItemRow is one parsed line of an import file.
type ItemRow struct {
	Row       int
	Name      string
	SKU       string
	Stock     int
	Threshold int
	Location  string
}

type UpdatedStockRow struct {
	SKU           string            `json:"SKU"`
	Stock         int               `json:"stock"`
	Threshold     int               `json:"threshold"`
	Status        model.StockStatus `json:"status"`
	LastUpdatedBy string            `json:"lastUpdatedBy"`
}

type StockChangedEvent struct {
	ID              string            `json:"id"`
	SKU             string            `json:"SKU"`
	PreviousStock   int               `json:"previousStock"`
	Stock           int               `json:"stock"`
	Status          model.StockStatus `json:"status"`
	QuantityChanged string            `json:"quantityChanged"`
	EmployeeID      string            `json:"employeeId"`
}

func (e StockChangedEvent) EventKey() string { return e.SKU }

type BatchUpdatedEvent struct {
	BatchLogID string            `json:"batchLogId"`
	EmployeeID string            `json:"employeeId"`
	Items      []UpdatedStockRow `json:"items"`
}

type ItemsImportedEvent struct {
	EmployeeID string   `json:"employeeId"`
	SKUs       []string `json:"SKUs"`
}

type ItemEvent struct {
	Item *model.Item `json:"item"`
}

func (e ItemEvent) EventKey() string { return e.Item.SKU }
