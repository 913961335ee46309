package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessAddInventoryItem    = "inventory item added successfully"
	MessageSuccessUpdateInventoryItem = "inventory item updated successfully"
	MessageSuccessRemoveInventoryItem = "inventory item removed successfully"
	MessageSuccessGetInventoryItems   = "inventory items retrieved successfully"
	MessageSuccessGetLowStock         = "low stock items retrieved successfully"
	MessageSuccessGetStockMovements   = "stock movements retrieved successfully"

	MessageFailedAddInventoryItem    = "failed to add inventory item"
	MessageFailedUpdateInventoryItem = "failed to update inventory item"
	MessageFailedRemoveInventoryItem = "failed to remove inventory item"
	MessageFailedGetInventoryItems   = "failed to retrieve inventory items"
	MessageFailedGetLowStock         = "failed to retrieve low stock items"
	MessageFailedGetStockMovements   = "failed to retrieve stock movements"

	ErrInventoryItemNotFound = errors.New("inventory item not found")
	ErrInvalidInventoryType  = errors.New("inventory type must be ingredient or bottling_material")
	ErrNegativeQuantity      = errors.New("quantity must not be negative")
)

type (
	AddInventoryItemRequest struct {
		Name              string  `json:"name" validate:"required"`
		Type              string  `json:"type" validate:"required,oneof=ingredient bottling_material"`
		Quantity          float64 `json:"quantity" validate:"gte=0"`
		Unit              string  `json:"unit" validate:"omitempty,max=20"`
		LowStockThreshold float64 `json:"low_stock_threshold" validate:"gte=0"`
		LeadTimeDays      int     `json:"lead_time_days" validate:"gte=0"`
	}

	UpdateInventoryItemRequest struct {
		Name              *string  `json:"name" validate:"omitempty,min=1"`
		Type              *string  `json:"type" validate:"omitempty,oneof=ingredient bottling_material"`
		Quantity          *float64 `json:"quantity" validate:"omitempty,gte=0"`
		Unit              *string  `json:"unit" validate:"omitempty,max=20"`
		LowStockThreshold *float64 `json:"low_stock_threshold" validate:"omitempty,gte=0"`
		LeadTimeDays      *int     `json:"lead_time_days" validate:"omitempty,gte=0"`
	}

	InventoryItemResponse struct {
		ID                string    `json:"id"`
		Name              string    `json:"name"`
		Type              string    `json:"type"`
		Quantity          float64   `json:"quantity"`
		Unit              string    `json:"unit"`
		LowStockThreshold float64   `json:"low_stock_threshold"`
		LeadTimeDays      int       `json:"lead_time_days"`
		LowStock          bool      `json:"low_stock"`
		CreatedAt         time.Time `json:"created_at"`
	}

	// DeductionRequest asks the ledger to take Amount from the first active
	// item called Name. An empty Type matches any item type.
	DeductionRequest struct {
		Name   string
		Type   string
		Amount float64
	}

	StockSource struct {
		Type string
		ID   string
	}

	StockDeduction struct {
		ItemID    string  `json:"item_id"`
		Name      string  `json:"name"`
		Requested float64 `json:"requested"`
		Before    float64 `json:"before"`
		After     float64 `json:"after"`
		Shortfall float64 `json:"shortfall,omitempty"`
		LowStock  bool    `json:"low_stock"`
	}

	DeductionBatchResult struct {
		Applied []StockDeduction
		Missing []string
	}

	StockMovementResponse struct {
		ID             string    `json:"id"`
		ItemID         string    `json:"item_id"`
		ItemName       string    `json:"item_name"`
		SourceType     string    `json:"source_type"`
		SourceID       string    `json:"source_id"`
		Requested      float64   `json:"requested"`
		QuantityBefore float64   `json:"quantity_before"`
		QuantityAfter  float64   `json:"quantity_after"`
		Shortfall      float64   `json:"shortfall"`
		CreatedAt      time.Time `json:"created_at"`
	}
)
