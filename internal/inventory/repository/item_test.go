package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/inventory"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/testutil"
	"github.com/fekuna/omnipos-warehouse-service/pkg/apperror"
	"github.com/fekuna/omnipos-warehouse-service/pkg/database/transactor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newItem(id, sku string, stock, threshold int) *model.Item {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &model.Item{
		BaseModel: model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		Name:      "Item " + sku,
		SKU:       sku,
		Stock:     stock,
		Threshold: threshold,
		Status:    inventory.Classify(stock, threshold),
		Location:  "A1",
	}
}

func seed(t *testing.T, repo *PGItemRepository, items ...*model.Item) {
	t.Helper()
	for _, it := range items {
		require.NoError(t, repo.Create(context.Background(), it))
	}
}

func TestItemCreateAndFind(t *testing.T) {
	repo := NewPGItemRepository(testutil.NewDB(t))
	ctx := context.Background()
	seed(t, repo, newItem("1", "W-100", 20, 10))

	got, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "W-100", got.SKU)
	assert.Equal(t, model.StatusHealthy, got.Status)
	assert.Nil(t, got.LastUpdatedBy)
	assert.True(t, got.CreatedAt.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))

	_, err = repo.FindByID(ctx, "missing")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.EqualError(t, err, "Item missing not found!")
}

func TestItemCreateDuplicateSKU(t *testing.T) {
	repo := NewPGItemRepository(testutil.NewDB(t))
	seed(t, repo, newItem("1", "A1", 1, 1))

	err := repo.Create(context.Background(), newItem("2", "A1", 1, 1))
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestItemFindAllOrderedByID(t *testing.T) {
	repo := NewPGItemRepository(testutil.NewDB(t))
	seed(t, repo, newItem("3", "C", 1, 1), newItem("1", "A", 1, 1), newItem("2", "B", 1, 1))

	items, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{items[0].ID, items[1].ID, items[2].ID})
}

func TestItemFindBySKUs(t *testing.T) {
	repo := NewPGItemRepository(testutil.NewDB(t))
	seed(t, repo, newItem("1", "A", 1, 1), newItem("2", "B", 1, 1), newItem("3", "C", 1, 1))
	ctx := context.Background()

	items, err := repo.FindBySKUs(ctx, []string{"C", "A", "Z"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].SKU)
	assert.Equal(t, "C", items[1].SKU)

	items, err = repo.FindBySKUs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestItemFindWithAttributes(t *testing.T) {
	repo := NewPGItemRepository(testutil.NewDB(t))
	seed(t, repo, newItem("1", "A", 7, 1), newItem("2", "B", 3, 1))
	ctx := context.Background()

	attrs, err := inventory.ResolveAttributes([]string{"SKU", "stock", "updated by"})
	require.NoError(t, err)

	rows, err := repo.FindWithAttributes(ctx, attrs, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0]["SKU"])
	assert.EqualValues(t, 7, rows[0]["stock"])
	assert.Nil(t, rows[0]["lastUpdatedBy"])
	assert.NotContains(t, rows[0], "name")

	rows, err = repo.FindWithAttributes(ctx, attrs, []string{"B"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "B", rows[0]["SKU"])

	rows, err = repo.FindWithAttributes(ctx, attrs, []string{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestItemSearch(t *testing.T) {
	repo := NewPGItemRepository(testutil.NewDB(t))
	widget := newItem("1", "W-100", 1, 1)
	widget.Name = "Blue Widget"
	bolt := newItem("2", "B-1", 1, 1)
	bolt.Location = "Shelf WIDE"
	seed(t, repo, widget, bolt, newItem("3", "X", 1, 1))

	items, err := repo.Search(context.Background(), "wid")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "2", items[1].ID)
}

func TestItemIsSKUUnique(t *testing.T) {
	repo := NewPGItemRepository(testutil.NewDB(t))
	seed(t, repo, newItem("1", "A", 1, 1))
	ctx := context.Background()

	unique, err := repo.IsSKUUnique(ctx, "A", "")
	require.NoError(t, err)
	assert.False(t, unique)

	unique, err = repo.IsSKUUnique(ctx, "A", "1")
	require.NoError(t, err)
	assert.True(t, unique)

	unique, err = repo.IsSKUUnique(ctx, "B", "")
	require.NoError(t, err)
	assert.True(t, unique)
}

func TestItemUpdates(t *testing.T) {
	repo := NewPGItemRepository(testutil.NewDB(t))
	seed(t, repo, newItem("1", "A", 20, 10), newItem("2", "B", 1, 1))
	ctx := context.Background()
	actor := "emp-1"

	item, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	item.Stock = 8
	item.Status = inventory.Classify(8, item.Threshold)
	item.LastUpdatedBy = &actor
	require.NoError(t, repo.UpdateStock(ctx, item))

	item.Location = "B7"
	require.NoError(t, repo.UpdateLocation(ctx, item))

	got, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 8, got.Stock)
	assert.Equal(t, model.StatusCritical, got.Status)
	assert.Equal(t, "B7", got.Location)
	require.NotNil(t, got.LastUpdatedBy)
	assert.Equal(t, actor, *got.LastUpdatedBy)

	got.Status = model.StatusHealthy
	require.NoError(t, repo.UpdateStatus(ctx, got))

	got.SKU = "B"
	err = repo.Update(ctx, got)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	got.SKU = "A2"
	got.Name = "Renamed"
	require.NoError(t, repo.Update(ctx, got))
	renamed, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "A2", renamed.SKU)
	assert.Equal(t, model.StatusHealthy, renamed.Status)

	missing := newItem("nope", "nope", 1, 1)
	assert.True(t, apperror.Is(repo.UpdateStock(ctx, missing), apperror.KindNotFound))
	assert.True(t, apperror.Is(repo.UpdateLocation(ctx, missing), apperror.KindNotFound))
	assert.True(t, apperror.Is(repo.UpdateStatus(ctx, missing), apperror.KindNotFound))
	assert.True(t, apperror.Is(repo.Update(ctx, missing), apperror.KindNotFound))
}

func TestItemUpdateStockBySKU(t *testing.T) {
	repo := NewPGItemRepository(testutil.NewDB(t))
	seed(t, repo, newItem("1", "A", 20, 10))
	ctx := context.Background()

	row := newItem("", "A", 2, 1)
	require.NoError(t, repo.UpdateStockBySKU(ctx, row))

	got, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)
	assert.Equal(t, 1, got.Threshold)
	assert.Equal(t, model.StatusCaution, got.Status)

	err = repo.UpdateStockBySKU(ctx, newItem("", "Z", 1, 1))
	assert.EqualError(t, err, "Item with SKU Z not found!")
}

func TestItemDelete(t *testing.T) {
	repo := NewPGItemRepository(testutil.NewDB(t))
	seed(t, repo, newItem("1", "A", 1, 1))
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, "1"))
	assert.True(t, apperror.Is(repo.Delete(ctx, "1"), apperror.KindNotFound))
}

func TestItemBulkCreateIsAtomicInTransaction(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPGItemRepository(db)
	seed(t, repo, newItem("1", "DUP", 1, 1))
	tx := transactor.New(db)
	ctx := context.Background()

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return repo.BulkCreate(ctx, []model.Item{*newItem("2", "NEW", 1, 1), *newItem("3", "DUP", 1, 1)})
	})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	items, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return repo.BulkCreate(ctx, []model.Item{*newItem("2", "NEW", 1, 1), *newItem("3", "OTHER", 1, 1)})
	}))
	items, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestItemWritesJoinCallerTransaction(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPGItemRepository(db)
	seed(t, repo, newItem("1", "A", 10, 5))
	ctx := context.Background()
	boom := errors.New("log write failed")

	err := transactor.New(db).WithinTransaction(ctx, func(ctx context.Context) error {
		item, err := repo.FindByID(ctx, "1")
		if err != nil {
			return err
		}
		item.Stock = 3
		item.Status = inventory.Classify(3, item.Threshold)
		if err := repo.UpdateStock(ctx, item); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stock)
	assert.Equal(t, model.StatusCaution, got.Status)
}
