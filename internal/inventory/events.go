package inventory

import "context"

const (
	EventItemCreated       = "inventory.item.created"
	EventItemUpdated       = "inventory.item.updated"
	EventItemDeleted       = "inventory.item.deleted"
	EventStockUpdated      = "inventory.stock.updated"
	EventStockBatchUpdated = "inventory.stock.batch_updated"
	EventItemsImported     = "inventory.items.imported"

	// EventStockCounted is consumed, not produced.
	EventStockCounted = "warehouse.stock.counted"
)

// EventPublisher broadcasts committed changes. Failures never undo a write.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}
