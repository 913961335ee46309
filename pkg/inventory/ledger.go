package inventory

import (
	"stillhouse/domain"
	"stillhouse/entities"

	"github.com/shopspring/decimal"
)

// Deduct takes amount from the item in place. Quantity never goes below
// zero; the uncovered part of the request is reported as Shortfall.
func Deduct(item *entities.InventoryItem, amount float64) domain.StockDeduction {
	before := decimal.NewFromFloat(item.Quantity)
	requested := decimal.NewFromFloat(amount)

	after := before.Sub(requested)
	shortfall := decimal.Zero
	if after.IsNegative() {
		shortfall = after.Neg()
		after = decimal.Zero
	}

	item.Quantity = after.InexactFloat64()

	return domain.StockDeduction{
		ItemID:    item.ID.String(),
		Name:      item.Name,
		Requested: requested.InexactFloat64(),
		Before:    before.InexactFloat64(),
		After:     item.Quantity,
		Shortfall: shortfall.InexactFloat64(),
		LowStock:  IsLowStock(*item),
	}
}

// IsLowStock is true at or below the threshold.
func IsLowStock(item entities.InventoryItem) bool {
	return decimal.NewFromFloat(item.Quantity).LessThanOrEqual(decimal.NewFromFloat(item.LowStockThreshold))
}

// FindByName returns the first non-deleted item with the exact name. items
// must be in creation order. An empty itemType matches any type.
func FindByName(items []*entities.InventoryItem, name, itemType string) *entities.InventoryItem {
	for _, item := range items {
		if item.Deleted || item.Name != name {
			continue
		}
		if itemType != "" && item.Type != itemType {
			continue
		}
		return item
	}
	return nil
}

func ValidType(itemType string) bool {
	return itemType == entities.InventoryTypeIngredient || itemType == entities.InventoryTypeBottlingMaterial
}
