package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/inventory"
	"github.com/fekuna/omnipos-warehouse-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-warehouse-service/pkg/broker"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type InventoryListener struct {
	consumer MessageReader
	uc       inventory.UseCase
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewInventoryListener(consumer MessageReader, uc inventory.UseCase, logger logger.ZapLogger) *InventoryListener {
	return &InventoryListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
		backoff:  time.Second,
	}
}

func (l *InventoryListener) Start(ctx context.Context) {
	l.logger.Info("Starting stock count listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping stock count listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.backoff):
				}
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

// processMessage applies one counted quantity. Failed counts are logged and
// dropped; the scanner resubmits on its next pass.
func (l *InventoryListener) processMessage(ctx context.Context, value []byte) {
	var event broker.Event
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}
	if event.EventType != inventory.EventStockCounted {
		return
	}

	var input dto.StockCountInput
	if err := json.Unmarshal(event.Payload, &input); err != nil {
		l.logger.Error("Failed to unmarshal stock count", zap.String("event_id", event.EventID), zap.Error(err))
		return
	}

	item, err := l.uc.ApplyStockCount(ctx, &input)
	if err != nil {
		l.logger.Error("Failed to apply stock count",
			zap.String("event_id", event.EventID),
			zap.String("sku", input.SKU),
			zap.Error(err),
		)
		return
	}
	l.logger.Info("Stock count applied",
		zap.String("event_id", event.EventID),
		zap.String("sku", item.SKU),
		zap.Int("stock", item.Stock),
		zap.String("status", string(item.Status)),
	)
}
