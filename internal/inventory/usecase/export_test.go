package usecase

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-warehouse-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemSnapshot struct {
	Name, SKU, Location string
	Stock, Threshold    int
	Status              model.StockStatus
}

func snapshot(items []model.Item) []itemSnapshot {
	out := make([]itemSnapshot, len(items))
	for i, it := range items {
		out[i] = itemSnapshot{it.Name, it.SKU, it.Location, it.Stock, it.Threshold, it.Status}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newFixture(t)
	ctx := context.Background()
	src.create(t, "Widget", "W-100", 20, 10)
	src.create(t, "Bolt; zinc", "B-1", 3, 5)
	src.create(t, "Nut", "N-7", 14, 10)

	out, err := src.uc.Export(ctx, &dto.ExportInput{Attributes: []string{"name", "SKU", "stock", "threshold", "location"}})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "inventory-list.csv")
	require.NoError(t, os.WriteFile(path, out, 0o600))

	dst := newFixture(t)
	_, err = dst.uc.ImportItems(ctx, &dto.ImportInput{FilePath: path, CreatedBy: "emp-9"})
	require.NoError(t, err)

	want, err := src.uc.ListItems(ctx)
	require.NoError(t, err)
	got, err := dst.uc.ListItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot(want), snapshot(got))
}

func TestExportSelectsAttributesAndItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, "Widget", "W-100", 20, 10)
	f.create(t, "Bolt", "B-1", 3, 5)

	out, err := f.uc.Export(ctx, &dto.ExportInput{SKUs: []string{" B-1 "}, Attributes: []string{"stock", "SKU"}})
	require.NoError(t, err)
	assert.Equal(t, "stock;SKU\n3;B-1\n", string(out))
}

func TestExportAllAttributesByDefault(t *testing.T) {
	f := newFixture(t)
	f.create(t, "Widget", "W-100", 20, 10)

	out, err := f.uc.Export(context.Background(), &dto.ExportInput{})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id;name;SKU;stock;threshold;status;location;lastUpdatedBy;createdAt;updatedAt", lines[0])
	assert.Contains(t, lines[1], ";Widget;W-100;20;10;HEALTHY;A1;emp-1;")
}

func TestExportErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Export(ctx, &dto.ExportInput{})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	f.create(t, "Widget", "W-100", 20, 10)

	_, err = f.uc.Export(ctx, &dto.ExportInput{SKUs: []string{"nope"}})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = f.uc.Export(ctx, &dto.ExportInput{SKUs: []string{" "}})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.uc.Export(ctx, &dto.ExportInput{Attributes: []string{"name", "price"}})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Contains(t, err.Error(), "price")
}

func TestImportTemplate(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "name;SKU;stock;threshold;location\n", string(f.uc.ImportTemplate()))
}
