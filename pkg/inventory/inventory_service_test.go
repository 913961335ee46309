package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"stillhouse/domain"
	"stillhouse/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *recordingNotifier) Notify(_ context.Context, userID, collection string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, userID+"/"+collection)
}

type recordingAlerter struct {
	items []string
}

func (a *recordingAlerter) LowStock(_ context.Context, _ string, item entities.InventoryItem) {
	a.items = append(a.items, item.Name)
}

type failingMovementRepo struct {
	InventoryRepository
}

func (r failingMovementRepo) CreateMovement(context.Context, *entities.StockMovement) error {
	return errors.New("disk full")
}

func (r failingMovementRepo) Transaction(ctx context.Context, fn func(repo InventoryRepository) error) error {
	return r.InventoryRepository.Transaction(ctx, func(repo InventoryRepository) error {
		return fn(failingMovementRepo{repo})
	})
}

type fixture struct {
	repo     InventoryRepository
	svc      InventoryService
	notifier *recordingNotifier
	alerter  *recordingAlerter
	userID   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:     NewMemoryInventoryRepository(),
		notifier: &recordingNotifier{},
		alerter:  &recordingAlerter{},
		userID:   uuid.NewString(),
	}
	f.svc = NewInventoryService(f.repo, f.notifier, f.alerter, zap.NewNop())
	return f
}

func (f *fixture) add(t *testing.T, name, itemType string, quantity, threshold float64) domain.InventoryItemResponse {
	t.Helper()
	res, err := f.svc.AddItem(context.Background(), domain.AddInventoryItemRequest{
		Name:              name,
		Type:              itemType,
		Quantity:          quantity,
		LowStockThreshold: threshold,
	}, f.userID)
	require.NoError(t, err)
	return res
}

func (f *fixture) quantity(t *testing.T, id string) float64 {
	t.Helper()
	item, err := f.svc.GetItem(context.Background(), id, f.userID)
	require.NoError(t, err)
	return item.Quantity
}

func source() domain.StockSource {
	return domain.StockSource{Type: domain.LogKindDistillation, ID: uuid.NewString()}
}

func TestAddItemValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, domain.AddInventoryItemRequest{Name: "Grain", Type: "spirit"}, f.userID)
	assert.ErrorIs(t, err, domain.ErrInvalidInventoryType)

	_, err = f.svc.AddItem(ctx, domain.AddInventoryItemRequest{Name: "Grain", Type: entities.InventoryTypeIngredient, Quantity: -1}, f.userID)
	assert.ErrorIs(t, err, domain.ErrNegativeQuantity)

	_, err = f.svc.AddItem(ctx, domain.AddInventoryItemRequest{Name: "Grain", Type: entities.InventoryTypeIngredient}, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrParseUUID)
}

func TestUpdateItem(t *testing.T) {
	f := newFixture(t)
	item := f.add(t, "Grain", entities.InventoryTypeIngredient, 12, 5)

	qty := 4.0
	unit := "kg"
	res, err := f.svc.UpdateItem(context.Background(), item.ID, domain.UpdateInventoryItemRequest{
		Quantity: &qty,
		Unit:     &unit,
	}, f.userID)
	require.NoError(t, err)

	assert.Equal(t, "Grain", res.Name)
	assert.Equal(t, 4.0, res.Quantity)
	assert.Equal(t, "kg", res.Unit)
	assert.True(t, res.LowStock)

	_, err = f.svc.UpdateItem(context.Background(), uuid.NewString(), domain.UpdateInventoryItemRequest{}, f.userID)
	assert.ErrorIs(t, err, domain.ErrInventoryItemNotFound)
}

func TestRemoveItemIsSoftDelete(t *testing.T) {
	f := newFixture(t)
	item := f.add(t, "Grain", entities.InventoryTypeIngredient, 12, 0)

	require.NoError(t, f.svc.RemoveItem(context.Background(), item.ID, f.userID))
	assert.ErrorIs(t, f.svc.RemoveItem(context.Background(), item.ID, f.userID), domain.ErrInventoryItemNotFound)

	_, err := f.svc.GetItem(context.Background(), item.ID, f.userID)
	assert.ErrorIs(t, err, domain.ErrInventoryItemNotFound)

	items, count, err := f.svc.GetItems(context.Background(), f.userID, "all", 1, 20)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, count)

	// the row still exists, only flagged
	mem := f.repo.(*memoryRepository)
	require.Len(t, mem.items, 1)
	assert.True(t, mem.items[0].Deleted)
}

func TestGetItemsIsScopedToUser(t *testing.T) {
	f := newFixture(t)
	f.add(t, "Grain", entities.InventoryTypeIngredient, 12, 0)
	f.add(t, "Bottles", entities.InventoryTypeBottlingMaterial, 100, 0)

	other := NewInventoryService(f.repo, nil, nil, zap.NewNop())
	_, err := other.AddItem(context.Background(), domain.AddInventoryItemRequest{
		Name: "Grain", Type: entities.InventoryTypeIngredient, Quantity: 1,
	}, uuid.NewString())
	require.NoError(t, err)

	items, count, err := f.svc.GetItems(context.Background(), f.userID, entities.InventoryTypeIngredient, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, items, 1)
	assert.Equal(t, "Grain", items[0].Name)
}

func TestGetLowStock(t *testing.T) {
	f := newFixture(t)
	f.add(t, "Grain", entities.InventoryTypeIngredient, 5, 5)
	f.add(t, "Yeast", entities.InventoryTypeIngredient, 6, 5)
	removed := f.add(t, "Corks", entities.InventoryTypeBottlingMaterial, 0, 10)
	require.NoError(t, f.svc.RemoveItem(context.Background(), removed.ID, f.userID))

	low, err := f.svc.GetLowStock(context.Background(), f.userID)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Grain", low[0].Name)
	assert.True(t, low[0].LowStock)
}

func TestDeductBatch(t *testing.T) {
	f := newFixture(t)
	grain := f.add(t, "Grain", entities.InventoryTypeIngredient, 12, 1)
	yeast := f.add(t, "Yeast", entities.InventoryTypeIngredient, 1, 1)
	f.notifier.calls = nil

	res, err := f.svc.DeductBatch(context.Background(), f.userID, source(), []domain.DeductionRequest{
		{Name: "Grain", Amount: 10},
		{Name: "Yeast", Amount: 3},
		{Name: "Sugar", Amount: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, 2.0, f.quantity(t, grain.ID))
	assert.Equal(t, 0.0, f.quantity(t, yeast.ID))
	require.Len(t, res.Applied, 2)
	assert.Equal(t, 2.0, res.Applied[1].Shortfall)
	assert.Equal(t, []string{"Sugar"}, res.Missing)

	movements, count, err := f.svc.GetMovements(context.Background(), f.userID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, "Yeast", movements[0].ItemName)
	assert.Equal(t, 1.0, movements[0].QuantityBefore)
	assert.Equal(t, 0.0, movements[0].QuantityAfter)

	assert.Equal(t, []string{f.userID + "/" + domain.CollectionInventory}, f.notifier.calls)
	assert.Empty(t, f.alerter.items, "Yeast was already low and Grain stays above its threshold")
}

func TestDeductBatchAlertsOnlyWhenCrossingThreshold(t *testing.T) {
	f := newFixture(t)
	f.add(t, "Bottles", entities.InventoryTypeBottlingMaterial, 100, 50)

	_, err := f.svc.DeductBatch(context.Background(), f.userID, source(), []domain.DeductionRequest{
		{Name: "Bottles", Type: entities.InventoryTypeBottlingMaterial, Amount: 60},
	})
	require.NoError(t, err)
	_, err = f.svc.DeductBatch(context.Background(), f.userID, source(), []domain.DeductionRequest{
		{Name: "Bottles", Type: entities.InventoryTypeBottlingMaterial, Amount: 10},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Bottles"}, f.alerter.items)
}

func TestDeductBatchSkipsDeletedAndWrongType(t *testing.T) {
	f := newFixture(t)
	deleted := f.add(t, "Bottles", entities.InventoryTypeBottlingMaterial, 100, 0)
	require.NoError(t, f.svc.RemoveItem(context.Background(), deleted.ID, f.userID))
	ingredient := f.add(t, "Labels", entities.InventoryTypeIngredient, 100, 0)

	res, err := f.svc.DeductBatch(context.Background(), f.userID, source(), []domain.DeductionRequest{
		{Name: "Bottles", Type: entities.InventoryTypeBottlingMaterial, Amount: 6},
		{Name: "Labels", Type: entities.InventoryTypeBottlingMaterial, Amount: 6},
	})
	require.NoError(t, err)

	assert.Empty(t, res.Applied)
	assert.Equal(t, []string{"Bottles", "Labels"}, res.Missing)
	assert.Equal(t, 100.0, f.quantity(t, ingredient.ID))
}

func TestDeductBatchSameItemTwice(t *testing.T) {
	f := newFixture(t)
	grain := f.add(t, "Grain", entities.InventoryTypeIngredient, 12, 0)

	_, err := f.svc.DeductBatch(context.Background(), f.userID, source(), []domain.DeductionRequest{
		{Name: "Grain", Amount: 5},
		{Name: "Grain", Amount: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, 2.0, f.quantity(t, grain.ID))
}

func TestDeductBatchRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	grain := f.add(t, "Grain", entities.InventoryTypeIngredient, 12, 0)
	svc := NewInventoryService(failingMovementRepo{f.repo}, f.notifier, f.alerter, zap.NewNop())
	f.notifier.calls = nil

	_, err := svc.DeductBatch(context.Background(), f.userID, source(), []domain.DeductionRequest{
		{Name: "Grain", Amount: 10},
	})
	require.Error(t, err)

	assert.Equal(t, 12.0, f.quantity(t, grain.ID))
	assert.Empty(t, f.notifier.calls)
}
