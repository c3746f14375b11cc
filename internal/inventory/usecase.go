package inventory

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

type UseCase interface {
	CreateItem(ctx context.Context, input *dto.CreateItemInput) (*model.Item, error)
	GetItem(ctx context.Context, id string) (*model.Item, error)
	ListItems(ctx context.Context) ([]model.Item, error)
	SearchItems(ctx context.Context, query string) ([]model.Item, error)
	UpdateItem(ctx context.Context, input *dto.UpdateItemInput) (*model.Item, error)
	UpdateLocation(ctx context.Context, input *dto.UpdateLocationInput) (*model.Item, error)
	UpdateStatus(ctx context.Context, input *dto.UpdateStatusInput) (*model.Item, error)
	DeleteItem(ctx context.Context, id string) error

	UpdateStock(ctx context.Context, input *dto.UpdateStockInput) (*model.Item, error)
	ApplyStockCount(ctx context.Context, input *dto.StockCountInput) (*model.Item, error)
	BulkUpdateStock(ctx context.Context, input *dto.BulkUpdateInput) ([]dto.UpdatedStockRow, error)
	ImportItems(ctx context.Context, input *dto.ImportInput) ([]model.Item, error)

	Export(ctx context.Context, input *dto.ExportInput) ([]byte, error)
	ImportTemplate() []byte

	ListItemLogs(ctx context.Context, sku string) ([]model.ItemLog, error)
	GetItemLog(ctx context.Context, id string) (*model.ItemLog, error)
	DeleteItemLog(ctx context.Context, id string) error
	ListBatchLogs(ctx context.Context) ([]model.BatchLog, error)
	GetBatchLog(ctx context.Context, id string) (*model.BatchLog, error)
	DeleteBatchLog(ctx context.Context, id string) error
}
