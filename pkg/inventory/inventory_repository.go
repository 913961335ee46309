package inventory

import (
	"context"

	"stillhouse/entities"

	"gorm.io/gorm"
)

type (
	InventoryRepository interface {
		AddItem(ctx context.Context, item *entities.InventoryItem) error
		GetItemByID(ctx context.Context, id string, userID string) (*entities.InventoryItem, error)
		UpdateItem(ctx context.Context, item *entities.InventoryItem) error
		SoftDeleteItem(ctx context.Context, id string, userID string) (int64, error)
		GetItems(ctx context.Context, userID string, itemType string, page, limit int) ([]*entities.InventoryItem, int64, error)
		GetActiveItems(ctx context.Context, userID string) ([]*entities.InventoryItem, error)
		UpdateQuantity(ctx context.Context, id string, quantity float64) error

		CreateMovement(ctx context.Context, movement *entities.StockMovement) error
		GetMovements(ctx context.Context, userID string, page, limit int) ([]*entities.StockMovement, int64, error)

		// Transaction runs fn against a repository bound to one database
		// transaction. An error from fn rolls back everything fn wrote.
		Transaction(ctx context.Context, fn func(repo InventoryRepository) error) error
	}

	inventoryRepository struct {
		db *gorm.DB
	}
)

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) AddItem(ctx context.Context, item *entities.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *inventoryRepository) GetItemByID(ctx context.Context, id string, userID string) (*entities.InventoryItem, error) {
	var item entities.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND deleted = ?", id, userID, false).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) UpdateItem(ctx context.Context, item *entities.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *inventoryRepository) SoftDeleteItem(ctx context.Context, id string, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entities.InventoryItem{}).
		Where("id = ? AND user_id = ? AND deleted = ?", id, userID, false).
		Update("deleted", true)
	return res.RowsAffected, res.Error
}

func (r *inventoryRepository) GetItems(ctx context.Context, userID string, itemType string, page, limit int) ([]*entities.InventoryItem, int64, error) {
	var items []*entities.InventoryItem
	var count int64

	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.InventoryItem{}).
		Where("user_id = ? AND deleted = ?", userID, false)

	if itemType != "all" && itemType != "" {
		query = query.Where("type = ?", itemType)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order("name asc").Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, count, nil
}

func (r *inventoryRepository) GetActiveItems(ctx context.Context, userID string) ([]*entities.InventoryItem, error) {
	var items []*entities.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND deleted = ?", userID, false).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) UpdateQuantity(ctx context.Context, id string, quantity float64) error {
	return r.db.WithContext(ctx).Model(&entities.InventoryItem{}).
		Where("id = ?", id).
		Update("quantity", quantity).Error
}

func (r *inventoryRepository) CreateMovement(ctx context.Context, movement *entities.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *inventoryRepository) GetMovements(ctx context.Context, userID string, page, limit int) ([]*entities.StockMovement, int64, error) {
	var movements []*entities.StockMovement
	var count int64

	offset := (page - 1) * limit
	query := r.db.WithContext(ctx).Model(&entities.StockMovement{}).Where("user_id = ?", userID)

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&movements).Error; err != nil {
		return nil, 0, err
	}
	return movements, count, nil
}

func (r *inventoryRepository) Transaction(ctx context.Context, fn func(repo InventoryRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&inventoryRepository{db: tx})
	})
}
