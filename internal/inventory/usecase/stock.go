package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fekuna/omnipos-warehouse-service/internal/inventory"
	"github.com/fekuna/omnipos-warehouse-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/pkg/apperror"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	lockAttempts = 3
	lockBackoff  = 100 * time.Millisecond
	lockTTL      = 5 * time.Second
)

// UpdateStock sets an item's stock, recomputes its status and appends an
// item log. The item write and the log commit or roll back together.
func (uc *inventoryUseCase) UpdateStock(ctx context.Context, input *dto.UpdateStockInput) (*model.Item, error) {
	if input.Stock == nil {
		return nil, apperror.Validation("Invalid stock update", apperror.FieldError{Field: "stock", Message: "stock cannot be empty"})
	}
	if *input.Stock < 0 {
		return nil, apperror.Validation("Invalid stock update", apperror.FieldError{Field: "stock", Message: "stock cannot be below 0", Value: *input.Stock})
	}
	if input.UpdatedBy == "" {
		return nil, apperror.Validation("Invalid stock update", apperror.FieldError{Field: "employeeId", Message: "employeeId cannot be empty"})
	}
	if err := checkNote(input.Note); err != nil {
		return nil, err
	}

	release, err := uc.lockItem(ctx, input.ID)
	if err != nil {
		inventory.StockUpdates.WithLabelValues(inventory.ResultFailure).Inc()
		return nil, err
	}
	defer release()

	var (
		updated  *model.Item
		oldStock int
		change   string
	)
	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		item, err := uc.items.FindByID(ctx, input.ID)
		if err != nil {
			return err
		}

		oldStock = item.Stock
		change = inventory.QuantityChanged(*input.Stock, oldStock)

		item.Stock = *input.Stock
		item.Status = inventory.Classify(item.Stock, item.Threshold)
		item.LastUpdatedBy = &input.UpdatedBy
		item.UpdatedAt = uc.now()
		if err := uc.items.UpdateStock(ctx, item); err != nil {
			return err
		}

		if err := uc.itemLogs.Create(ctx, &model.ItemLog{
			ID:              uuid.New().String(),
			SKU:             item.SKU,
			EmployeeID:      input.UpdatedBy,
			QuantityChanged: change,
			Note:            trimNote(input.Note),
			CreatedAt:       item.UpdatedAt,
		}); err != nil {
			return err
		}

		updated = item
		return nil
	})
	if err != nil {
		inventory.StockUpdates.WithLabelValues(resultOf(err)).Inc()
		return nil, uc.transactionError("Stock update failed", err)
	}
	inventory.StockUpdates.WithLabelValues(inventory.ResultSuccess).Inc()

	uc.logger.Info("stock updated",
		zap.String("sku", updated.SKU),
		zap.String("change", change),
		zap.String("status", string(updated.Status)),
		zap.String("employee_id", input.UpdatedBy),
	)
	uc.afterItemWrite(updated)
	uc.publish(ctx, inventory.EventStockUpdated, dto.StockChangedEvent{
		ID:              updated.ID,
		SKU:             updated.SKU,
		PreviousStock:   oldStock,
		Stock:           updated.Stock,
		Status:          updated.Status,
		QuantityChanged: change,
		EmployeeID:      input.UpdatedBy,
	})
	return updated, nil
}

// ApplyStockCount records a physical count for a SKU as a regular stock update.
func (uc *inventoryUseCase) ApplyStockCount(ctx context.Context, input *dto.StockCountInput) (*model.Item, error) {
	sku := strings.TrimSpace(input.SKU)
	if sku == "" {
		return nil, apperror.Validation("Invalid stock count", apperror.FieldError{Field: "SKU", Message: "SKU cannot be empty"})
	}

	items, err := uc.items.FindBySKUs(ctx, []string{sku})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperror.NotFoundf("Item with SKU %s not found!", sku)
	}

	employee := input.EmployeeID
	if employee == "" {
		employee = "system"
	}
	stock := input.Stock
	return uc.UpdateStock(ctx, &dto.UpdateStockInput{
		ID:        items[0].ID,
		Stock:     &stock,
		Note:      input.Note,
		UpdatedBy: employee,
	})
}

// lockItem serialises stock writes to one item across instances. Without a
// cache it is a no-op.
func (uc *inventoryUseCase) lockItem(ctx context.Context, id string) (func(), error) {
	if uc.cache == nil {
		return func() {}, nil
	}

	key := "lock:inventory:item:" + id
	value := uuid.New().String()
	acquired := false
	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.cache.AcquireLock(ctx, key, value, lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire lock redis error", zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		if i == lockAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait for lock %s: %w", key, ctx.Err())
		case <-time.After(lockBackoff):
		}
	}
	if !acquired {
		return nil, apperror.Transaction("System busy, please try again later", fmt.Errorf("lock %s not acquired", key))
	}

	return func() {
		if err := uc.cache.ReleaseLock(context.Background(), key, value); err != nil {
			uc.logger.Warn("failed to release lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// checkNote caps the note at NoteMaxLength characters, counted in runes as
// the model validator does.
func checkNote(note *string) error {
	if note == nil || utf8.RuneCountInString(*note) <= model.NoteMaxLength {
		return nil
	}
	return apperror.Validation("Invalid stock update", apperror.FieldError{
		Field:   "note",
		Message: fmt.Sprintf("note cannot be longer than %d characters", model.NoteMaxLength),
	})
}

func trimNote(note *string) *string {
	if note == nil {
		return nil
	}
	n := strings.TrimSpace(*note)
	if n == "" {
		return nil
	}
	return &n
}

func resultOf(err error) string {
	switch apperror.KindOf(err) {
	case apperror.KindValidation, apperror.KindNotFound, apperror.KindConflict:
		return inventory.ResultInvalid
	default:
		return inventory.ResultFailure
	}
}
