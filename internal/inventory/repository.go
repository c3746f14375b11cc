package inventory

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

// ItemRepository writes through the transaction carried by ctx, if any.
type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	BulkCreate(ctx context.Context, items []model.Item) error
	FindByID(ctx context.Context, id string) (*model.Item, error)
	FindAll(ctx context.Context) ([]model.Item, error)
	FindBySKUs(ctx context.Context, skus []string) ([]model.Item, error)
	FindWithAttributes(ctx context.Context, attrs []Attribute, skus []string) ([]map[string]any, error)
	Search(ctx context.Context, query string) ([]model.Item, error)
	IsSKUUnique(ctx context.Context, sku, excludeID string) (bool, error)

	Update(ctx context.Context, item *model.Item) error
	UpdateStock(ctx context.Context, item *model.Item) error
	UpdateLocation(ctx context.Context, item *model.Item) error
	UpdateStatus(ctx context.Context, item *model.Item) error
	UpdateStockBySKU(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id string) error
}

type ItemLogRepository interface {
	Create(ctx context.Context, log *model.ItemLog) error
	FindAll(ctx context.Context, sku string) ([]model.ItemLog, error)
	FindByID(ctx context.Context, id string) (*model.ItemLog, error)
	Delete(ctx context.Context, id string) error
}

type BatchLogRepository interface {
	Create(ctx context.Context, log *model.BatchLog) error
	FindAll(ctx context.Context) ([]model.BatchLog, error)
	FindByID(ctx context.Context, id string) (*model.BatchLog, error)
	Delete(ctx context.Context, id string) error
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
