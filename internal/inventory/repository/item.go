package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-warehouse-service/internal/inventory"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/pkg/apperror"
	"github.com/fekuna/omnipos-warehouse-service/pkg/database/dberr"
	"github.com/fekuna/omnipos-warehouse-service/pkg/database/transactor"
	"github.com/jmoiron/sqlx"
)

const (
	itemColumns = `id, name, sku, stock, threshold, status, location, last_updated_by, created_at, updated_at`

	// Keeps a bulk insert under the postgres bind parameter limit.
	bulkInsertChunk = 500
)

type PGItemRepository struct {
	DB *sqlx.DB
}

func NewPGItemRepository(db *sqlx.DB) *PGItemRepository {
	return &PGItemRepository{DB: db}
}

func (r *PGItemRepository) ext(ctx context.Context) sqlx.ExtContext {
	return transactor.Ext(ctx, r.DB)
}

const insertItem = `
	INSERT INTO items (` + itemColumns + `)
	VALUES (:id, :name, :sku, :stock, :threshold, :status, :location, :last_updated_by, :created_at, :updated_at)`

func (r *PGItemRepository) Create(ctx context.Context, item *model.Item) error {
	if _, err := sqlx.NamedExecContext(ctx, r.ext(ctx), insertItem, item); err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperror.Conflict(fmt.Sprintf("Item with SKU %s already exists", item.SKU))
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (r *PGItemRepository) BulkCreate(ctx context.Context, items []model.Item) error {
	for start := 0; start < len(items); start += bulkInsertChunk {
		end := min(start+bulkInsertChunk, len(items))
		if _, err := sqlx.NamedExecContext(ctx, r.ext(ctx), insertItem, items[start:end]); err != nil {
			if dberr.IsUniqueViolation(err) {
				return apperror.Conflict("One or more SKUs already exist")
			}
			return fmt.Errorf("bulk insert items: %w", err)
		}
	}
	return nil
}

func (r *PGItemRepository) FindByID(ctx context.Context, id string) (*model.Item, error) {
	var item model.Item
	e := r.ext(ctx)
	err := sqlx.GetContext(ctx, e, &item, e.Rebind(`SELECT `+itemColumns+` FROM items WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("Item", id)
		}
		return nil, fmt.Errorf("find item %s: %w", id, err)
	}
	return &item, nil
}

func (r *PGItemRepository) FindAll(ctx context.Context) ([]model.Item, error) {
	items := []model.Item{}
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &items, `SELECT `+itemColumns+` FROM items ORDER BY id`); err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}
	return items, nil
}

func (r *PGItemRepository) FindBySKUs(ctx context.Context, skus []string) ([]model.Item, error) {
	items := []model.Item{}
	if len(skus) == 0 {
		return items, nil
	}

	query, args, err := sqlx.In(`SELECT `+itemColumns+` FROM items WHERE sku IN (?) ORDER BY id`, skus)
	if err != nil {
		return nil, err
	}
	e := r.ext(ctx)
	if err := sqlx.SelectContext(ctx, e, &items, e.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("find items by sku: %w", err)
	}
	return items, nil
}

// FindWithAttributes returns one map per item keyed by attribute name.
// A nil skus slice selects every item.
func (r *PGItemRepository) FindWithAttributes(ctx context.Context, attrs []inventory.Attribute, skus []string) ([]map[string]any, error) {
	if len(attrs) == 0 {
		return nil, apperror.Validation("At least one attribute is required")
	}

	cols := make([]string, len(attrs))
	for i, a := range attrs {
		cols[i] = a.Column + ` AS ` + strconv.Quote(a.Name)
	}
	query := `SELECT ` + strings.Join(cols, ", ") + ` FROM items`
	var args []any
	if skus != nil {
		if len(skus) == 0 {
			return []map[string]any{}, nil
		}
		var err error
		query, args, err = sqlx.In(query+` WHERE sku IN (?)`, skus)
		if err != nil {
			return nil, err
		}
	}
	query += ` ORDER BY id`

	e := r.ext(ctx)
	rows, err := e.QueryxContext(ctx, e.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("find item attributes: %w", err)
	}
	defer rows.Close()

	out := []map[string]any{}
	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scan item attributes: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *PGItemRepository) Search(ctx context.Context, query string) ([]model.Item, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	items := []model.Item{}
	e := r.ext(ctx)
	err := sqlx.SelectContext(ctx, e, &items, e.Rebind(`
		SELECT `+itemColumns+` FROM items
		WHERE LOWER(name) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(location) LIKE ?
		ORDER BY id`), pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	return items, nil
}

func (r *PGItemRepository) IsSKUUnique(ctx context.Context, sku, excludeID string) (bool, error) {
	var count int
	e := r.ext(ctx)
	if err := sqlx.GetContext(ctx, e, &count, e.Rebind(`SELECT COUNT(*) FROM items WHERE sku = ? AND id <> ?`), sku, excludeID); err != nil {
		return false, fmt.Errorf("check sku: %w", err)
	}
	return count == 0, nil
}

func (r *PGItemRepository) Update(ctx context.Context, item *model.Item) error {
	res, err := sqlx.NamedExecContext(ctx, r.ext(ctx), `
		UPDATE items SET
			name = :name, sku = :sku, stock = :stock, threshold = :threshold, status = :status,
			location = :location, last_updated_by = :last_updated_by, updated_at = :updated_at
		WHERE id = :id`, item)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperror.Conflict(fmt.Sprintf("Item with SKU %s already exists", item.SKU))
		}
		return fmt.Errorf("update item %s: %w", item.ID, err)
	}
	return expectRow(res, apperror.NotFound("Item", item.ID))
}

func (r *PGItemRepository) UpdateStock(ctx context.Context, item *model.Item) error {
	return r.exec(ctx, `
		UPDATE items SET stock = :stock, status = :status, last_updated_by = :last_updated_by, updated_at = :updated_at
		WHERE id = :id`, item, apperror.NotFound("Item", item.ID))
}

func (r *PGItemRepository) UpdateLocation(ctx context.Context, item *model.Item) error {
	return r.exec(ctx, `
		UPDATE items SET location = :location, last_updated_by = :last_updated_by, updated_at = :updated_at
		WHERE id = :id`, item, apperror.NotFound("Item", item.ID))
}

func (r *PGItemRepository) UpdateStatus(ctx context.Context, item *model.Item) error {
	return r.exec(ctx, `
		UPDATE items SET status = :status, last_updated_by = :last_updated_by, updated_at = :updated_at
		WHERE id = :id`, item, apperror.NotFound("Item", item.ID))
}

// UpdateStockBySKU writes stock, threshold and status keyed by SKU.
func (r *PGItemRepository) UpdateStockBySKU(ctx context.Context, item *model.Item) error {
	return r.exec(ctx, `
		UPDATE items SET stock = :stock, threshold = :threshold, status = :status,
			last_updated_by = :last_updated_by, updated_at = :updated_at
		WHERE sku = :sku`, item, apperror.NotFoundf("Item with SKU %s not found!", item.SKU))
}

func (r *PGItemRepository) Delete(ctx context.Context, id string) error {
	e := r.ext(ctx)
	res, err := e.ExecContext(ctx, e.Rebind(`DELETE FROM items WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	return expectRow(res, apperror.NotFound("Item", id))
}

func (r *PGItemRepository) exec(ctx context.Context, query string, item *model.Item, notFound error) error {
	res, err := sqlx.NamedExecContext(ctx, r.ext(ctx), query, item)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return expectRow(res, notFound)
}

func expectRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
