package inventory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"stillhouse/entities"

	"gorm.io/gorm"
)

// memoryRepository backs the --memory mode of the server and the tests.
type memoryRepository struct {
	mu        sync.Mutex
	items     []*entities.InventoryItem
	movements []*entities.StockMovement
	now       func() time.Time
}

func NewMemoryInventoryRepository() InventoryRepository {
	return &memoryRepository{now: time.Now}
}

func (r *memoryRepository) stamp(ts *entities.Timestamp) {
	now := r.now()
	if ts.CreatedAt.IsZero() {
		ts.CreatedAt = now
	}
	ts.UpdatedAt = now
}

func (r *memoryRepository) AddItem(_ context.Context, item *entities.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stamp(&item.Timestamp)
	cp := *item
	r.items = append(r.items, &cp)
	return nil
}

func (r *memoryRepository) find(id string) *entities.InventoryItem {
	for _, item := range r.items {
		if item.ID.String() == id {
			return item
		}
	}
	return nil
}

func (r *memoryRepository) GetItemByID(_ context.Context, id string, userID string) (*entities.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item := r.find(id)
	if item == nil || item.Deleted || item.UserID.String() != userID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *item
	return &cp, nil
}

func (r *memoryRepository) UpdateItem(_ context.Context, item *entities.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.find(item.ID.String())
	if stored == nil {
		return gorm.ErrRecordNotFound
	}
	r.stamp(&item.Timestamp)
	*stored = *item
	return nil
}

func (r *memoryRepository) SoftDeleteItem(_ context.Context, id string, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item := r.find(id)
	if item == nil || item.Deleted || item.UserID.String() != userID {
		return 0, nil
	}
	item.Deleted = true
	return 1, nil
}

func (r *memoryRepository) active(userID string) []*entities.InventoryItem {
	var res []*entities.InventoryItem
	for _, item := range r.items {
		if item.UserID.String() == userID && !item.Deleted {
			cp := *item
			res = append(res, &cp)
		}
	}
	return res
}

func (r *memoryRepository) GetItems(_ context.Context, userID string, itemType string, page, limit int) ([]*entities.InventoryItem, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entities.InventoryItem
	for _, item := range r.active(userID) {
		if itemType != "all" && itemType != "" && item.Type != itemType {
			continue
		}
		matched = append(matched, item)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return strings.Compare(matched[i].Name, matched[j].Name) < 0
	})
	return pageOf(matched, page, limit), int64(len(matched)), nil
}

func (r *memoryRepository) GetActiveItems(_ context.Context, userID string) ([]*entities.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.active(userID)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (r *memoryRepository) UpdateQuantity(_ context.Context, id string, quantity float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item := r.find(id)
	if item == nil {
		return gorm.ErrRecordNotFound
	}
	item.Quantity = quantity
	item.UpdatedAt = r.now()
	return nil
}

func (r *memoryRepository) CreateMovement(_ context.Context, movement *entities.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stamp(&movement.Timestamp)
	cp := *movement
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *memoryRepository) GetMovements(_ context.Context, userID string, page, limit int) ([]*entities.StockMovement, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entities.StockMovement
	for i := len(r.movements) - 1; i >= 0; i-- {
		if r.movements[i].UserID.String() == userID {
			cp := *r.movements[i]
			matched = append(matched, &cp)
		}
	}
	return pageOf(matched, page, limit), int64(len(matched)), nil
}

// Transaction restores the previous state when fn fails. It does not isolate
// concurrent transactions from each other.
func (r *memoryRepository) Transaction(_ context.Context, fn func(repo InventoryRepository) error) error {
	r.mu.Lock()
	items := make([]*entities.InventoryItem, len(r.items))
	for i, item := range r.items {
		cp := *item
		items[i] = &cp
	}
	movements := append([]*entities.StockMovement(nil), r.movements...)
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.items = items
		r.movements = movements
		r.mu.Unlock()
		return err
	}
	return nil
}

func pageOf[T any](all []T, page, limit int) []T {
	if page < 1 || limit < 1 {
		return []T{}
	}
	start := (page - 1) * limit
	if start >= len(all) {
		return []T{}
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
