package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/fekuna/omnipos-warehouse-service/internal/inventory"
	"github.com/fekuna/omnipos-warehouse-service/internal/inventory/csvfile"
	"github.com/fekuna/omnipos-warehouse-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/pkg/apperror"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BulkUpdateStock applies a stock file to existing items. Either every row
// and the batch log commit, or nothing does. The file is removed afterwards.
func (uc *inventoryUseCase) BulkUpdateStock(ctx context.Context, input *dto.BulkUpdateInput) ([]dto.UpdatedStockRow, error) {
	defer uc.removeFile(input.FilePath)

	rows, err := uc.readStockFile(input)
	if err != nil {
		inventory.BatchUpdates.WithLabelValues(resultOf(err)).Inc()
		return nil, err
	}

	skus := make([]string, len(rows))
	for i, r := range rows {
		skus[i] = r.SKU
	}
	current, err := uc.items.FindBySKUs(ctx, skus)
	if err != nil {
		inventory.BatchUpdates.WithLabelValues(inventory.ResultFailure).Inc()
		return nil, err
	}
	bySKU := make(map[string]model.Item, len(current))
	for _, it := range current {
		bySKU[it.SKU] = it
	}
	if missing := missingSKUs(skus, bySKU); len(missing) > 0 {
		inventory.BatchUpdates.WithLabelValues(inventory.ResultInvalid).Inc()
		return nil, apperror.NotFoundf("Items with SKU %s not found!", strings.Join(missing, ", "))
	}

	now := uc.now()
	updates := make([]model.Item, len(rows))
	result := make([]dto.UpdatedStockRow, len(rows))
	for i, r := range rows {
		it := bySKU[r.SKU]
		it.Stock = r.Stock
		if r.Threshold != nil {
			it.Threshold = *r.Threshold
		}
		it.Status = inventory.Classify(it.Stock, it.Threshold)
		it.LastUpdatedBy = &input.UpdatedBy
		it.UpdatedAt = now
		updates[i] = it
		result[i] = dto.UpdatedStockRow{
			SKU:           it.SKU,
			Stock:         it.Stock,
			Threshold:     it.Threshold,
			Status:        it.Status,
			LastUpdatedBy: input.UpdatedBy,
		}
	}

	batch := &model.BatchLog{
		ID:           uuid.New().String(),
		AffectedSKUs: model.StringList(skus),
		EmployeeID:   input.UpdatedBy,
		Note:         trimNote(input.Note),
		CreatedAt:    now,
	}

	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for i := range updates {
			if err := uc.items.UpdateStockBySKU(ctx, &updates[i]); err != nil {
				return err
			}
		}
		return uc.batchLogs.Create(ctx, batch)
	})
	if err != nil {
		inventory.BatchUpdates.WithLabelValues(resultOf(err)).Inc()
		return nil, uc.transactionError("Bulk stock update failed", err)
	}
	inventory.BatchUpdates.WithLabelValues(inventory.ResultSuccess).Inc()
	inventory.BatchRows.Observe(float64(len(rows)))

	uc.logger.Info("bulk stock update committed",
		zap.String("batch_log_id", batch.ID),
		zap.Int("rows", len(rows)),
		zap.String("employee_id", input.UpdatedBy),
	)
	written := make([]*model.Item, len(updates))
	for i := range updates {
		written[i] = &updates[i]
	}
	uc.afterItemWrite(written...)
	uc.publish(ctx, inventory.EventStockBatchUpdated, dto.BatchUpdatedEvent{
		BatchLogID: batch.ID,
		EmployeeID: input.UpdatedBy,
		Items:      result,
	})
	return result, nil
}

func (uc *inventoryUseCase) readStockFile(input *dto.BulkUpdateInput) ([]dto.StockRow, error) {
	if input.UpdatedBy == "" {
		return nil, apperror.Validation("Invalid stock update", apperror.FieldError{Field: "employeeId", Message: "employeeId cannot be empty"})
	}
	if err := checkNote(input.Note); err != nil {
		return nil, err
	}

	f, err := os.Open(input.FilePath)
	if err != nil {
		return nil, apperror.Internal("Could not read uploaded file", err)
	}
	defer f.Close()

	rows, err := csvfile.ParseStockRows(f)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]int, len(rows))
	var dups []apperror.FieldError
	for _, r := range rows {
		if first, ok := seen[r.SKU]; ok {
			dups = append(dups, apperror.FieldError{
				Field:   "SKU",
				Message: fmt.Sprintf("SKU %s already appears on row %d", r.SKU, first),
				Value:   r.SKU,
				Row:     r.Row,
			})
			continue
		}
		seen[r.SKU] = r.Row
	}
	if len(dups) > 0 {
		return nil, apperror.Validation("Invalid stock file", dups...)
	}
	return rows, nil
}

// ImportItems creates one item per file row inside a single transaction and
// returns them as stored.
func (uc *inventoryUseCase) ImportItems(ctx context.Context, input *dto.ImportInput) ([]model.Item, error) {
	defer uc.removeFile(input.FilePath)

	items, err := uc.readImportFile(input)
	if err != nil {
		inventory.Imports.WithLabelValues(resultOf(err)).Inc()
		return nil, err
	}

	skus := make([]string, len(items))
	for i := range items {
		skus[i] = items[i].SKU
	}
	existing, err := uc.items.FindBySKUs(ctx, skus)
	if err != nil {
		inventory.Imports.WithLabelValues(inventory.ResultFailure).Inc()
		return nil, err
	}
	if len(existing) > 0 {
		taken := make([]string, len(existing))
		for i, it := range existing {
			taken[i] = it.SKU
		}
		sort.Strings(taken)
		inventory.Imports.WithLabelValues(inventory.ResultInvalid).Inc()
		return nil, apperror.Conflict("Items with SKU " + strings.Join(taken, ", ") + " already exist")
	}

	var stored []model.Item
	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.items.BulkCreate(ctx, items); err != nil {
			return err
		}
		var findErr error
		stored, findErr = uc.items.FindBySKUs(ctx, skus)
		return findErr
	})
	if err != nil {
		inventory.Imports.WithLabelValues(resultOf(err)).Inc()
		return nil, uc.transactionError("Import failed", err)
	}
	inventory.Imports.WithLabelValues(inventory.ResultSuccess).Inc()
	created := inFileOrder(stored, skus)
	inventory.BatchRows.Observe(float64(len(created)))

	uc.logger.Info("items imported", zap.Int("count", len(created)), zap.String("employee_id", input.CreatedBy))
	written := make([]*model.Item, len(created))
	for i := range created {
		written[i] = &created[i]
	}
	uc.afterItemWrite(written...)
	uc.publish(ctx, inventory.EventItemsImported, dto.ItemsImportedEvent{EmployeeID: input.CreatedBy, SKUs: skus})
	return created, nil
}

func (uc *inventoryUseCase) readImportFile(input *dto.ImportInput) ([]model.Item, error) {
	f, err := os.Open(input.FilePath)
	if err != nil {
		return nil, apperror.Internal("Could not read uploaded file", err)
	}
	defer f.Close()

	rows, err := csvfile.ParseItemRows(f)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	items := make([]model.Item, 0, len(rows))
	seen := make(map[string]int, len(rows))
	var fields []apperror.FieldError
	for _, r := range rows {
		it := model.Item{
			BaseModel:     model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			Name:          r.Name,
			SKU:           r.SKU,
			Stock:         r.Stock,
			Threshold:     r.Threshold,
			Status:        inventory.Classify(r.Stock, r.Threshold),
			Location:      r.Location,
			LastUpdatedBy: actorPtr(input.CreatedBy),
		}
		if err := model.Validate("Invalid item", r.Row, &it); err != nil {
			var appErr *apperror.Error
			if !errors.As(err, &appErr) {
				return nil, err
			}
			fields = append(fields, appErr.Fields...)
		}
		if first, ok := seen[r.SKU]; ok && r.SKU != "" {
			fields = append(fields, apperror.FieldError{
				Field:   "SKU",
				Message: fmt.Sprintf("SKU %s already appears on row %d", r.SKU, first),
				Value:   r.SKU,
				Row:     r.Row,
			})
		} else {
			seen[r.SKU] = r.Row
		}
		items = append(items, it)
	}
	if len(fields) > 0 {
		return nil, apperror.Validation("Invalid inventory file", fields...)
	}
	return items, nil
}

func (uc *inventoryUseCase) removeFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		uc.logger.Warn("failed to remove uploaded file", zap.String("path", path), zap.Error(err))
	}
}

func inFileOrder(items []model.Item, skus []string) []model.Item {
	pos := make(map[string]int, len(skus))
	for i, s := range skus {
		pos[s] = i
	}
	sort.SliceStable(items, func(i, j int) bool { return pos[items[i].SKU] < pos[items[j].SKU] })
	return items
}

// missingSKUs lists the requested SKUs absent from found, in request order.
func missingSKUs(skus []string, found map[string]model.Item) []string {
	var missing []string
	for _, s := range skus {
		if _, ok := found[s]; !ok {
			missing = append(missing, s)
		}
	}
	return missing
}
