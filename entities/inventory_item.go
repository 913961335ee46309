package entities

import "github.com/google/uuid"

const (
	InventoryTypeIngredient       = "ingredient"
	InventoryTypeBottlingMaterial = "bottling_material"
)

type InventoryItem struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID            uuid.UUID `gorm:"index" json:"user_id"`
	Name              string    `gorm:"index;not null" json:"name"`
	Type              string    `gorm:"index;not null" json:"type"` // ingredient, bottling_material
	Quantity          float64   `json:"quantity"`
	Unit              string    `json:"unit"`
	LowStockThreshold float64   `json:"low_stock_threshold"`
	LeadTimeDays      int       `json:"lead_time_days"`
	Deleted           bool      `gorm:"default:false;index" json:"deleted"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}

// StockMovement records one applied deduction, including the part of the
// request that could not be covered because quantity is clamped at zero.
type StockMovement struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID          uuid.UUID `gorm:"index" json:"user_id"`
	InventoryItemID uuid.UUID `gorm:"index" json:"inventory_item_id"`
	ItemName        string    `json:"item_name"`
	SourceType      string    `json:"source_type"` // distillation, bottling
	SourceID        uuid.UUID `json:"source_id"`
	Requested       float64   `json:"requested"`
	QuantityBefore  float64   `json:"quantity_before"`
	QuantityAfter   float64   `json:"quantity_after"`
	Shortfall       float64   `json:"shortfall"`

	InventoryItem *InventoryItem `gorm:"foreignKey:InventoryItemID" json:"-"`
	Timestamp
}
