package dto

type CreateItemInput struct {
	Name      string `json:"name" binding:"required"`
	SKU       string `json:"SKU" binding:"required"`
	Stock     *int   `json:"stock" binding:"required,min=0"`
	Threshold *int   `json:"threshold" binding:"required,min=0"`
	Location  string `json:"location" binding:"required"`
	CreatedBy string `json:"-"`
}

type UpdateItemInput struct {
	ID        string `json:"-"`
	Name      string `json:"name" binding:"required"`
	SKU       string `json:"SKU" binding:"required"`
	Stock     *int   `json:"stock" binding:"required,min=0"`
	Threshold *int   `json:"threshold" binding:"required,min=0"`
	Location  string `json:"location" binding:"required"`
	UpdatedBy string `json:"-"`
}

type UpdateStockInput struct {
	ID        string  `json:"-"`
	Stock     *int    `json:"stock" binding:"required,min=0"`
	Note      *string `json:"note" binding:"omitempty,max=200"`
	UpdatedBy string  `json:"-"`
}

type UpdateLocationInput struct {
	ID        string `json:"-"`
	Location  string `json:"location" binding:"required"`
	UpdatedBy string `json:"-"`
}

type UpdateStatusInput struct {
	ID        string `json:"-"`
	Status    string `json:"status" binding:"required"`
	UpdatedBy string `json:"-"`
}

// StockCountInput is a physical count reported by a scanner for one SKU.
type StockCountInput struct {
	SKU        string  `json:"SKU"`
	Stock      int     `json:"stock"`
	EmployeeID string  `json:"employeeId"`
	Note       *string `json:"note"`
}

type BulkUpdateInput struct {
	FilePath  string
	Note      *string
	UpdatedBy string
}

type ImportInput struct {
	FilePath  string
	CreatedBy string
}

type ExportInput struct {
	SKUs       []string `json:"SKUs"`
	Attributes []string `json:"attributes"`
}
