package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-warehouse-service/internal/inventory"
	"github.com/fekuna/omnipos-warehouse-service/internal/inventory/csvfile"
	"github.com/fekuna/omnipos-warehouse-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-warehouse-service/pkg/apperror"
	"go.uber.org/zap"
)

// Export renders the selected items and attributes as a delimited file.
// An empty selection is reported as NotFound instead of an empty file.
func (uc *inventoryUseCase) Export(ctx context.Context, input *dto.ExportInput) ([]byte, error) {
	attrs, err := inventory.ResolveAttributes(input.Attributes)
	if err != nil {
		return nil, err
	}

	var skus []string
	if input.SKUs != nil {
		skus = make([]string, 0, len(input.SKUs))
		for _, s := range input.SKUs {
			if s = strings.TrimSpace(s); s != "" {
				skus = append(skus, s)
			}
		}
		if len(skus) == 0 {
			return nil, apperror.Validation("Invalid export request", apperror.FieldError{Field: "SKUs", Message: "SKUs cannot be empty"})
		}
	}

	rows, err := uc.items.FindWithAttributes(ctx, attrs, skus)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperror.NotFoundf("No items to export")
	}

	out, err := csvfile.Write(inventory.AttributeNames(attrs), rows)
	if err != nil {
		return nil, apperror.Internal("Could not generate export file", err)
	}
	uc.logger.Debug("inventory exported", zap.Int("rows", len(rows)), zap.Strings("attributes", inventory.AttributeNames(attrs)))
	return out, nil
}

func (uc *inventoryUseCase) ImportTemplate() []byte {
	return csvfile.Template()
}
