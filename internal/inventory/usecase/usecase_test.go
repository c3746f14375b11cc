package usecase

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fekuna/omnipos-warehouse-service/internal/inventory"
	"github.com/fekuna/omnipos-warehouse-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/inventory/repository"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/testutil"
	"github.com/fekuna/omnipos-warehouse-service/pkg/apperror"
	"github.com/fekuna/omnipos-warehouse-service/pkg/cache"
	"github.com/fekuna/omnipos-warehouse-service/pkg/database/transactor"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return nil
}

func (p *recordingPublisher) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

type fixture struct {
	uc        inventory.UseCase
	items     *repository.PGItemRepository
	itemLogs  *repository.PGItemLogRepository
	batchLogs *repository.PGBatchLogRepository
	events    *recordingPublisher
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	items     inventory.ItemRepository
	itemLogs  inventory.ItemLogRepository
	batchLogs inventory.BatchLogRepository
	cache     *cache.RedisClient
}

func withItems(wrap func(*repository.PGItemRepository) inventory.ItemRepository) fixtureOption {
	return func(c *fixtureConfig) { c.items = wrap(c.items.(*repository.PGItemRepository)) }
}

func withItemLogs(repo inventory.ItemLogRepository) fixtureOption {
	return func(c *fixtureConfig) { c.itemLogs = repo }
}

func withBatchLogs(repo inventory.BatchLogRepository) fixtureOption {
	return func(c *fixtureConfig) { c.batchLogs = repo }
}

func withCache(client *cache.RedisClient) fixtureOption {
	return func(c *fixtureConfig) { c.cache = client }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{
		items:     repository.NewPGItemRepository(db),
		itemLogs:  repository.NewPGItemLogRepository(db),
		batchLogs: repository.NewPGBatchLogRepository(db),
		events:    &recordingPublisher{},
	}
	cfg := &fixtureConfig{items: f.items, itemLogs: f.itemLogs, batchLogs: f.batchLogs}
	for _, opt := range opts {
		opt(cfg)
	}
	f.uc = NewInventoryUseCase(cfg.items, cfg.itemLogs, cfg.batchLogs, transactor.New(db), cfg.cache, nil, f.events, logger.NewNop())
	return f
}

func newRedis(t *testing.T) (*cache.RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := cache.NewRedisClient(&cache.Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func intPtr(n int) *int { return &n }

func (f *fixture) create(t *testing.T, name, sku string, stock, threshold int) *model.Item {
	t.Helper()
	item, err := f.uc.CreateItem(context.Background(), &dto.CreateItemInput{
		Name:      name,
		SKU:       sku,
		Stock:     intPtr(stock),
		Threshold: intPtr(threshold),
		Location:  "A1",
		CreatedBy: "emp-1",
	})
	require.NoError(t, err)
	return item
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func assertRemoved(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "uploaded file should be removed")
}

func TestCreateItem(t *testing.T) {
	f := newFixture(t)
	item := f.create(t, "Widget", "W-100", 20, 10)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, model.StatusHealthy, item.Status)
	require.NotNil(t, item.LastUpdatedBy)
	assert.Equal(t, "emp-1", *item.LastUpdatedBy)
	assert.Equal(t, []string{inventory.EventItemCreated}, f.events.Events())

	stored, err := f.uc.GetItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, "W-100", stored.SKU)
}

func TestCreateItemDuplicateSKU(t *testing.T) {
	f := newFixture(t)
	f.create(t, "Widget", "W-100", 20, 10)

	_, err := f.uc.CreateItem(context.Background(), &dto.CreateItemInput{
		Name: "Other", SKU: "W-100", Stock: intPtr(1), Threshold: intPtr(1), Location: "B",
	})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestCreateItemValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CreateItem(context.Background(), &dto.CreateItemInput{Stock: intPtr(-1), Threshold: intPtr(0)})
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Len(t, appErr.Fields, 4, "name, SKU, stock and location")

	_, err = f.uc.CreateItem(context.Background(), &dto.CreateItemInput{Name: "W", SKU: "W", Location: "A"})
	require.ErrorAs(t, err, &appErr)
	assert.Len(t, appErr.Fields, 2)
}

func TestUpdateItemRecomputesStatusAndLogsStockChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.create(t, "Widget", "W-100", 20, 10)

	updated, err := f.uc.UpdateItem(ctx, &dto.UpdateItemInput{
		ID: item.ID, Name: "Widget XL", SKU: "W-101", Stock: intPtr(12), Threshold: intPtr(10), Location: "C3", UpdatedBy: "emp-2",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCaution, updated.Status)
	assert.Equal(t, "emp-2", *updated.LastUpdatedBy)

	logs, err := f.uc.ListItemLogs(ctx, "W-101")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "-8", logs[0].QuantityChanged)

	_, err = f.uc.UpdateItem(ctx, &dto.UpdateItemInput{
		ID: item.ID, Name: "Widget XL", SKU: "W-101", Stock: intPtr(12), Threshold: intPtr(10), Location: "C3", UpdatedBy: "emp-2",
	})
	require.NoError(t, err)
	logs, err = f.uc.ListItemLogs(ctx, "W-101")
	require.NoError(t, err)
	assert.Len(t, logs, 1, "no log when stock is unchanged")
}

func TestUpdateItemSKUConflict(t *testing.T) {
	f := newFixture(t)
	item := f.create(t, "Widget", "W-100", 20, 10)
	f.create(t, "Bolt", "B-1", 5, 1)

	_, err := f.uc.UpdateItem(context.Background(), &dto.UpdateItemInput{
		ID: item.ID, Name: "Widget", SKU: "B-1", Stock: intPtr(20), Threshold: intPtr(10), Location: "A1",
	})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestUpdateLocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.create(t, "Widget", "W-100", 20, 10)

	updated, err := f.uc.UpdateLocation(ctx, &dto.UpdateLocationInput{ID: item.ID, Location: " B7 ", UpdatedBy: "emp-3"})
	require.NoError(t, err)
	assert.Equal(t, "B7", updated.Location)

	_, err = f.uc.UpdateLocation(ctx, &dto.UpdateLocationInput{ID: item.ID, Location: " "})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.uc.UpdateLocation(ctx, &dto.UpdateLocationInput{ID: "missing", Location: "B7"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.create(t, "Widget", "W-100", 20, 10)

	updated, err := f.uc.UpdateStatus(ctx, &dto.UpdateStatusInput{ID: item.ID, Status: "critical", UpdatedBy: "emp-1"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCritical, updated.Status)

	_, err = f.uc.UpdateStatus(ctx, &dto.UpdateStatusInput{ID: item.ID, Status: "EMPTY"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	stored, err := f.uc.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCritical, stored.Status)
}

func TestDeleteItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.create(t, "Widget", "W-100", 20, 10)

	require.NoError(t, f.uc.DeleteItem(ctx, item.ID))
	assert.True(t, apperror.Is(f.uc.DeleteItem(ctx, item.ID), apperror.KindNotFound))
	assert.Contains(t, f.events.Events(), inventory.EventItemDeleted)
}

func TestListItemsUsesCache(t *testing.T) {
	client, mr := newRedis(t)
	f := newFixture(t, withCache(client))
	ctx := context.Background()
	f.create(t, "Widget", "W-100", 20, 10)

	items, err := f.uc.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, mr.Exists(itemListCachePrefix+"1"))

	// A row written behind the use case's back is invisible while cached.
	require.NoError(t, f.items.Create(ctx, &model.Item{
		BaseModel: model.BaseModel{ID: "zzz"}, Name: "Ghost", SKU: "G", Status: model.StatusHealthy, Location: "X",
	}))
	items, err = f.uc.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	f.create(t, "Bolt", "B-1", 5, 1)
	assert.False(t, mr.Exists(itemListCachePrefix+"1"))
	items, err = f.uc.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

// writeDuringFindAll runs during once, after the list has been read and
// before it is returned.
type writeDuringFindAll struct {
	*repository.PGItemRepository
	during func()
}

func (r *writeDuringFindAll) FindAll(ctx context.Context) ([]model.Item, error) {
	items, err := r.PGItemRepository.FindAll(ctx)
	if r.during != nil {
		during := r.during
		r.during = nil
		during()
	}
	return items, err
}

func TestListItemsDoesNotCacheListReadBeforeWrite(t *testing.T) {
	client, mr := newRedis(t)
	racer := &writeDuringFindAll{}
	f := newFixture(t, withCache(client), withItems(func(r *repository.PGItemRepository) inventory.ItemRepository {
		racer.PGItemRepository = r
		return racer
	}))
	ctx := context.Background()
	f.create(t, "Widget", "W-100", 20, 10)
	racer.during = func() { f.create(t, "Bolt", "B-1", 5, 1) }

	stale, err := f.uc.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, stale, 1)

	fresh, err := f.uc.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
	assert.True(t, mr.Exists(itemListCachePrefix+"2"))
}

func TestSearchItemsFallsBackToDatabase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, "Blue Widget", "W-100", 20, 10)
	f.create(t, "Bolt", "B-1", 5, 1)

	items, err := f.uc.SearchItems(ctx, "widget")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "W-100", items[0].SKU)

	items, err = f.uc.SearchItems(ctx, " ")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestLogAdministration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.create(t, "Widget", "W-100", 20, 10)

	_, err := f.uc.UpdateStock(ctx, &dto.UpdateStockInput{ID: item.ID, Stock: intPtr(5), UpdatedBy: "emp-1"})
	require.NoError(t, err)

	logs, err := f.uc.ListItemLogs(ctx, "")
	require.NoError(t, err)
	require.Len(t, logs, 1)

	got, err := f.uc.GetItemLog(ctx, logs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "W-100", got.SKU)

	require.NoError(t, f.uc.DeleteItemLog(ctx, logs[0].ID))
	_, err = f.uc.GetItemLog(ctx, logs[0].ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	batches, err := f.uc.ListBatchLogs(ctx)
	require.NoError(t, err)
	assert.Empty(t, batches)
	assert.True(t, apperror.Is(f.uc.DeleteBatchLog(ctx, "missing"), apperror.KindNotFound))
	_, err = f.uc.GetBatchLog(ctx, "missing")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
