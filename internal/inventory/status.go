package inventory

import (
	"strconv"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

// CautionMargin is how far above the threshold stock still counts as CAUTION.
const CautionMargin = 5

// Classify derives an item's status from its stock and threshold.
// stock == threshold is CAUTION, not CRITICAL.
func Classify(stock, threshold int) model.StockStatus {
	if (stock-threshold)*(stock-(threshold+CautionMargin)) <= 0 {
		return model.StatusCaution
	}
	if stock < threshold {
		return model.StatusCritical
	}
	return model.StatusHealthy
}

// QuantityChanged renders the signed difference recorded in an item log.
func QuantityChanged(newStock, oldStock int) string {
	switch {
	case newStock > oldStock:
		return "+" + strconv.Itoa(newStock-oldStock)
	case newStock < oldStock:
		return "-" + strconv.Itoa(oldStock-newStock)
	default:
		return "No change"
	}
}
