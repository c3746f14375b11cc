package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/pkg/apperror"
	"github.com/fekuna/omnipos-warehouse-service/pkg/database/transactor"
	"github.com/jmoiron/sqlx"
)

type PGItemLogRepository struct {
	DB *sqlx.DB
}

func NewPGItemLogRepository(db *sqlx.DB) *PGItemLogRepository {
	return &PGItemLogRepository{DB: db}
}

func (r *PGItemLogRepository) Create(ctx context.Context, log *model.ItemLog) error {
	_, err := sqlx.NamedExecContext(ctx, transactor.Ext(ctx, r.DB), `
		INSERT INTO items_log (id, sku, employee_id, quantity_changed, note, created_at)
		VALUES (:id, :sku, :employee_id, :quantity_changed, :note, :created_at)`, log)
	if err != nil {
		return fmt.Errorf("insert item log: %w", err)
	}
	return nil
}

func (r *PGItemLogRepository) FindAll(ctx context.Context, sku string) ([]model.ItemLog, error) {
	logs := []model.ItemLog{}
	e := transactor.Ext(ctx, r.DB)
	query := `SELECT id, sku, employee_id, quantity_changed, note, created_at FROM items_log`
	var args []any
	if sku != "" {
		query += ` WHERE sku = ?`
		args = append(args, sku)
	}
	query += ` ORDER BY created_at DESC, id`

	if err := sqlx.SelectContext(ctx, e, &logs, e.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("find item logs: %w", err)
	}
	return logs, nil
}

func (r *PGItemLogRepository) FindByID(ctx context.Context, id string) (*model.ItemLog, error) {
	var log model.ItemLog
	e := transactor.Ext(ctx, r.DB)
	err := sqlx.GetContext(ctx, e, &log, e.Rebind(`
		SELECT id, sku, employee_id, quantity_changed, note, created_at FROM items_log WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("Item log", id)
		}
		return nil, fmt.Errorf("find item log %s: %w", id, err)
	}
	return &log, nil
}

func (r *PGItemLogRepository) Delete(ctx context.Context, id string) error {
	e := transactor.Ext(ctx, r.DB)
	res, err := e.ExecContext(ctx, e.Rebind(`DELETE FROM items_log WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete item log %s: %w", id, err)
	}
	return expectRow(res, apperror.NotFound("Item log", id))
}

type PGBatchLogRepository struct {
	DB *sqlx.DB
}

func NewPGBatchLogRepository(db *sqlx.DB) *PGBatchLogRepository {
	return &PGBatchLogRepository{DB: db}
}

func (r *PGBatchLogRepository) Create(ctx context.Context, log *model.BatchLog) error {
	_, err := sqlx.NamedExecContext(ctx, transactor.Ext(ctx, r.DB), `
		INSERT INTO batch_logs (id, affected_skus, employee_id, note, created_at)
		VALUES (:id, :affected_skus, :employee_id, :note, :created_at)`, log)
	if err != nil {
		return fmt.Errorf("insert batch log: %w", err)
	}
	return nil
}

func (r *PGBatchLogRepository) FindAll(ctx context.Context) ([]model.BatchLog, error) {
	logs := []model.BatchLog{}
	err := sqlx.SelectContext(ctx, transactor.Ext(ctx, r.DB), &logs, `
		SELECT id, affected_skus, employee_id, note, created_at FROM batch_logs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("find batch logs: %w", err)
	}
	return logs, nil
}

func (r *PGBatchLogRepository) FindByID(ctx context.Context, id string) (*model.BatchLog, error) {
	var log model.BatchLog
	e := transactor.Ext(ctx, r.DB)
	err := sqlx.GetContext(ctx, e, &log, e.Rebind(`
		SELECT id, affected_skus, employee_id, note, created_at FROM batch_logs WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("Batch log", id)
		}
		return nil, fmt.Errorf("find batch log %s: %w", id, err)
	}
	return &log, nil
}

func (r *PGBatchLogRepository) Delete(ctx context.Context, id string) error {
	e := transactor.Ext(ctx, r.DB)
	res, err := e.ExecContext(ctx, e.Rebind(`DELETE FROM batch_logs WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete batch log %s: %w", id, err)
	}
	return expectRow(res, apperror.NotFound("Batch log", id))
}
