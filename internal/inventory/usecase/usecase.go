package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/inventory"
	"github.com/fekuna/omnipos-warehouse-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/pkg/apperror"
	"github.com/fekuna/omnipos-warehouse-service/pkg/cache"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/fekuna/omnipos-warehouse-service/pkg/search"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	itemListVersionKey   = "inventory:items:version"
	itemListCachePrefix  = "inventory:items:all:"
	itemListCachePattern = itemListCachePrefix + "*"
	itemListCacheTTL     = 5 * time.Minute
	itemIndex            = "inventory-items"
)

type inventoryUseCase struct {
	items     inventory.ItemRepository
	itemLogs  inventory.ItemLogRepository
	batchLogs inventory.BatchLogRepository
	tx        inventory.Transactor
	cache     *cache.RedisClient
	es        *search.Client
	events    inventory.EventPublisher
	logger    logger.ZapLogger
	now       func() time.Time
}

func NewInventoryUseCase(
	items inventory.ItemRepository,
	itemLogs inventory.ItemLogRepository,
	batchLogs inventory.BatchLogRepository,
	tx inventory.Transactor,
	cache *cache.RedisClient,
	es *search.Client,
	events inventory.EventPublisher,
	log logger.ZapLogger,
) inventory.UseCase {
	return &inventoryUseCase{
		items:     items,
		itemLogs:  itemLogs,
		batchLogs: batchLogs,
		tx:        tx,
		cache:     cache,
		es:        es,
		events:    events,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (uc *inventoryUseCase) CreateItem(ctx context.Context, input *dto.CreateItemInput) (*model.Item, error) {
	if err := requireCounts(input.Stock, input.Threshold); err != nil {
		return nil, err
	}
	now := uc.now()
	item := &model.Item{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:      strings.TrimSpace(input.Name),
		SKU:       strings.TrimSpace(input.SKU),
		Stock:     *input.Stock,
		Threshold: *input.Threshold,
		Location:  strings.TrimSpace(input.Location),
	}
	item.Status = inventory.Classify(item.Stock, item.Threshold)
	if input.CreatedBy != "" {
		item.LastUpdatedBy = &input.CreatedBy
	}
	if err := model.Validate("Invalid item", 0, item); err != nil {
		return nil, err
	}

	unique, err := uc.items.IsSKUUnique(ctx, item.SKU, "")
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, apperror.Conflict(fmt.Sprintf("Item with SKU %s already exists", item.SKU))
	}

	if err := uc.items.Create(ctx, item); err != nil {
		return nil, err
	}

	uc.logger.Info("item created", zap.String("id", item.ID), zap.String("sku", item.SKU))
	uc.afterItemWrite(item)
	uc.publish(ctx, inventory.EventItemCreated, dto.ItemEvent{Item: item})
	return item, nil
}

func (uc *inventoryUseCase) GetItem(ctx context.Context, id string) (*model.Item, error) {
	return uc.items.FindByID(ctx, id)
}

// ListItems serves the item list from the cache when possible. The cache key
// carries the list version read before the query, so a list read before a
// concurrent write is stored under a version no later reader asks for.
func (uc *inventoryUseCase) ListItems(ctx context.Context) ([]model.Item, error) {
	key := uc.itemListKey(ctx)
	if key != "" {
		val, err := uc.cache.Client.Get(ctx, key).Result()
		if err == nil {
			var items []model.Item
			if err := json.Unmarshal([]byte(val), &items); err == nil {
				return items, nil
			}
		}
	}

	items, err := uc.items.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if key != "" {
		if data, err := json.Marshal(items); err == nil {
			if err := uc.cache.Client.Set(ctx, key, data, itemListCacheTTL).Err(); err != nil {
				uc.logger.Warn("failed to cache item list", zap.Error(err))
			}
		}
	}
	return items, nil
}

// itemListKey returns "" when the list cannot be cached.
func (uc *inventoryUseCase) itemListKey(ctx context.Context) string {
	if uc.cache == nil {
		return ""
	}
	v, err := uc.cache.Version(ctx, itemListVersionKey)
	if err != nil {
		uc.logger.Warn("failed to read item list version", zap.Error(err))
		return ""
	}
	return itemListCachePrefix + v
}

func (uc *inventoryUseCase) SearchItems(ctx context.Context, query string) ([]model.Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return uc.ListItems(ctx)
	}

	if uc.es != nil {
		res, err := uc.es.Search(ctx, itemIndex, map[string]any{
			"query": map[string]any{
				"query_string": map[string]any{
					"query":  fmt.Sprintf("*%s*", query),
					"fields": []string{"name^3", "SKU", "location"},
				},
			},
		})
		if err == nil {
			items := make([]model.Item, 0, len(res.Hits.Hits))
			for _, hit := range res.Hits.Hits {
				var it model.Item
				if err := json.Unmarshal(hit.Source, &it); err == nil {
					items = append(items, it)
				}
			}
			return items, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	return uc.items.Search(ctx, query)
}

// UpdateItem replaces the editable fields. A stock change is logged like any
// other stock update.
func (uc *inventoryUseCase) UpdateItem(ctx context.Context, input *dto.UpdateItemInput) (*model.Item, error) {
	if err := requireCounts(input.Stock, input.Threshold); err != nil {
		return nil, err
	}

	var updated *model.Item
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		item, err := uc.items.FindByID(ctx, input.ID)
		if err != nil {
			return err
		}
		oldStock := item.Stock

		item.Name = strings.TrimSpace(input.Name)
		item.SKU = strings.TrimSpace(input.SKU)
		item.Location = strings.TrimSpace(input.Location)
		item.Stock, item.Threshold = *input.Stock, *input.Threshold
		item.Status = inventory.Classify(item.Stock, item.Threshold)
		item.LastUpdatedBy = actorPtr(input.UpdatedBy)
		item.UpdatedAt = uc.now()
		if err := model.Validate("Invalid item", 0, item); err != nil {
			return err
		}

		unique, err := uc.items.IsSKUUnique(ctx, item.SKU, item.ID)
		if err != nil {
			return err
		}
		if !unique {
			return apperror.Conflict(fmt.Sprintf("Item with SKU %s already exists", item.SKU))
		}

		if err := uc.items.Update(ctx, item); err != nil {
			return err
		}
		if item.Stock != oldStock {
			if err := uc.itemLogs.Create(ctx, &model.ItemLog{
				ID:              uuid.New().String(),
				SKU:             item.SKU,
				EmployeeID:      input.UpdatedBy,
				QuantityChanged: inventory.QuantityChanged(item.Stock, oldStock),
				CreatedAt:       item.UpdatedAt,
			}); err != nil {
				return err
			}
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, uc.transactionError("Item update failed", err)
	}

	uc.afterItemWrite(updated)
	uc.publish(ctx, inventory.EventItemUpdated, dto.ItemEvent{Item: updated})
	return updated, nil
}

func (uc *inventoryUseCase) UpdateLocation(ctx context.Context, input *dto.UpdateLocationInput) (*model.Item, error) {
	location := strings.TrimSpace(input.Location)
	if location == "" {
		return nil, apperror.Validation("Invalid location", apperror.FieldError{Field: "location", Message: "location cannot be empty"})
	}

	item, err := uc.items.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	item.Location = location
	item.LastUpdatedBy = actorPtr(input.UpdatedBy)
	item.UpdatedAt = uc.now()
	if err := uc.items.UpdateLocation(ctx, item); err != nil {
		return nil, err
	}

	uc.afterItemWrite(item)
	uc.publish(ctx, inventory.EventItemUpdated, dto.ItemEvent{Item: item})
	return item, nil
}

// UpdateStatus is a manual override; it does not consult the classifier.
func (uc *inventoryUseCase) UpdateStatus(ctx context.Context, input *dto.UpdateStatusInput) (*model.Item, error) {
	status, ok := model.ParseStockStatus(input.Status)
	if !ok {
		return nil, apperror.Validation("Invalid status", apperror.FieldError{
			Field:   "status",
			Message: "status must be one of HEALTHY CAUTION CRITICAL",
			Value:   input.Status,
		})
	}

	item, err := uc.items.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	item.Status = status
	item.LastUpdatedBy = actorPtr(input.UpdatedBy)
	item.UpdatedAt = uc.now()
	if err := uc.items.UpdateStatus(ctx, item); err != nil {
		return nil, err
	}

	uc.afterItemWrite(item)
	uc.publish(ctx, inventory.EventItemUpdated, dto.ItemEvent{Item: item})
	return item, nil
}

func (uc *inventoryUseCase) DeleteItem(ctx context.Context, id string) error {
	item, err := uc.items.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.items.Delete(ctx, id); err != nil {
		return err
	}

	uc.logger.Info("item deleted", zap.String("id", id), zap.String("sku", item.SKU))
	uc.invalidateItemCache(ctx)
	go uc.removeFromElastic(context.Background(), id)
	uc.publish(ctx, inventory.EventItemDeleted, dto.ItemEvent{Item: item})
	return nil
}

func (uc *inventoryUseCase) ListItemLogs(ctx context.Context, sku string) ([]model.ItemLog, error) {
	return uc.itemLogs.FindAll(ctx, strings.TrimSpace(sku))
}

func (uc *inventoryUseCase) GetItemLog(ctx context.Context, id string) (*model.ItemLog, error) {
	return uc.itemLogs.FindByID(ctx, id)
}

func (uc *inventoryUseCase) DeleteItemLog(ctx context.Context, id string) error {
	return uc.itemLogs.Delete(ctx, id)
}

func (uc *inventoryUseCase) ListBatchLogs(ctx context.Context) ([]model.BatchLog, error) {
	return uc.batchLogs.FindAll(ctx)
}

func (uc *inventoryUseCase) GetBatchLog(ctx context.Context, id string) (*model.BatchLog, error) {
	return uc.batchLogs.FindByID(ctx, id)
}

func (uc *inventoryUseCase) DeleteBatchLog(ctx context.Context, id string) error {
	return uc.batchLogs.Delete(ctx, id)
}

// afterItemWrite drops the cached list and reindexes item in the background.
func (uc *inventoryUseCase) afterItemWrite(items ...*model.Item) {
	uc.invalidateItemCache(context.Background())
	if uc.es == nil {
		return
	}
	snapshot := make([]model.Item, len(items))
	for i, it := range items {
		snapshot[i] = *it
	}
	go uc.syncToElastic(context.Background(), snapshot)
}

func (uc *inventoryUseCase) invalidateItemCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.BumpVersion(ctx, itemListVersionKey); err != nil {
		uc.logger.Warn("failed to bump item list version", zap.Error(err))
	}
	if err := uc.cache.DeletePattern(ctx, itemListCachePattern); err != nil {
		uc.logger.Warn("failed to invalidate item cache", zap.Error(err))
	}
}

func (uc *inventoryUseCase) syncToElastic(ctx context.Context, items []model.Item) {
	mapping := `{
		"mappings": {
			"properties": {
				"name": { "type": "text" },
				"SKU": { "type": "keyword" },
				"location": { "type": "text" },
				"status": { "type": "keyword" },
				"stock": { "type": "integer" },
				"threshold": { "type": "integer" },
				"updatedAt": { "type": "date" }
			}
		}
	}`
	if err := uc.es.CreateIndex(ctx, itemIndex, mapping); err != nil {
		uc.logger.Warn("failed to ensure item index", zap.Error(err))
	}
	for i := range items {
		if err := uc.es.Index(ctx, itemIndex, items[i].ID, &items[i]); err != nil {
			uc.logger.Error("failed to index item", zap.String("id", items[i].ID), zap.Error(err))
		}
	}
}

func (uc *inventoryUseCase) removeFromElastic(ctx context.Context, id string) {
	if uc.es == nil {
		return
	}
	if err := uc.es.Delete(ctx, itemIndex, id); err != nil {
		uc.logger.Error("failed to remove item from index", zap.String("id", id), zap.Error(err))
	}
}

func (uc *inventoryUseCase) publish(ctx context.Context, eventType string, payload any) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, eventType, payload); err != nil {
		uc.logger.Warn("failed to publish event", zap.String("event", eventType), zap.Error(err))
	}
}

// transactionError keeps the recognised kinds raised inside a transaction and
// reports anything else as a failed, rolled back unit of work.
func (uc *inventoryUseCase) transactionError(msg string, err error) error {
	if apperror.IsOperational(err) {
		return err
	}
	uc.logger.Error(msg, zap.Error(err))
	return apperror.Transaction(msg+", no changes were saved", err)
}

func actorPtr(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

func requireCounts(stock, threshold *int) error {
	var fields []apperror.FieldError
	if stock == nil {
		fields = append(fields, apperror.FieldError{Field: "stock", Message: "stock cannot be empty"})
	}
	if threshold == nil {
		fields = append(fields, apperror.FieldError{Field: "threshold", Message: "threshold cannot be empty"})
	}
	if len(fields) > 0 {
		return apperror.Validation("Invalid item", fields...)
	}
	return nil
}
