package production

import (
	"context"
	"errors"
	"testing"
	"time"

	"stillhouse/domain"
	"stillhouse/entities"
	"stillhouse/pkg/inventory"
	"stillhouse/pkg/material"
	"stillhouse/pkg/recipe"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captured struct {
	kind   string
	userID string
}

type capturePublisher struct {
	events []captured
}

func (p *capturePublisher) Publish(_ context.Context, kind string, userID string, _ any) error {
	p.events = append(p.events, captured{kind: kind, userID: userID})
	return nil
}

func (p *capturePublisher) Close() error { return nil }

// stallingPublisher blocks like a writer whose brokers never answer.
type stallingPublisher struct {
	hadDeadline bool
}

func (p *stallingPublisher) Publish(ctx context.Context, _ string, _ string, _ any) error {
	_, p.hadDeadline = ctx.Deadline()
	<-ctx.Done()
	return ctx.Err()
}

func (p *stallingPublisher) Close() error { return nil }

type failingLogRepo struct {
	ProductionRepository
}

func (failingLogRepo) CreateDistillationLog(context.Context, *entities.DistillationLog) error {
	return errors.New("connection reset")
}

type failingInventory struct {
	inventory.InventoryService
}

func (failingInventory) DeductBatch(context.Context, string, domain.StockSource, []domain.DeductionRequest) (domain.DeductionBatchResult, error) {
	return domain.DeductionBatchResult{}, errors.New("deadlock detected")
}

type harness struct {
	userID    string
	logs      ProductionRepository
	recipes   recipe.RecipeService
	materials material.MaterialService
	inventory inventory.InventoryService
	publisher *capturePublisher
	svc       ProductionService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := zap.NewNop()
	recipeRepo := recipe.NewMemoryRecipeRepository()
	materialRepo := material.NewMemoryMaterialRepository()

	h := &harness{
		userID:    uuid.NewString(),
		logs:      NewMemoryProductionRepository(),
		recipes:   recipe.NewRecipeService(recipeRepo, nil, logger),
		materials: material.NewMaterialService(materialRepo, nil, logger),
		inventory: inventory.NewInventoryService(inventory.NewMemoryInventoryRepository(), nil, nil, logger),
		publisher: &capturePublisher{},
	}
	h.svc = NewProductionService(h.logs, recipeRepo, materialRepo, h.inventory, nil, h.publisher, logger)
	return h
}

func (h *harness) stock(t *testing.T, name, itemType string, quantity float64) string {
	t.Helper()
	item, err := h.inventory.AddItem(context.Background(), domain.AddInventoryItemRequest{
		Name: name, Type: itemType, Quantity: quantity,
	}, h.userID)
	require.NoError(t, err)
	return item.ID
}

func (h *harness) quantity(t *testing.T, id string) float64 {
	t.Helper()
	item, err := h.inventory.GetItem(context.Background(), id, h.userID)
	require.NoError(t, err)
	return item.Quantity
}

func (h *harness) recipe(t *testing.T, name string, ingredients ...domain.RecipeIngredientRequest) {
	t.Helper()
	_, err := h.recipes.CreateRecipe(context.Background(), domain.CreateRecipeRequest{
		Name: name, Ingredients: ingredients,
	}, h.userID)
	require.NoError(t, err)
}

func TestBoxesUsed(t *testing.T) {
	tests := []struct {
		bottled int
		want    int
	}{
		{35, 5},
		{36, 6},
		{5, 0},
		{0, 0},
		{6, 1},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, BoxesUsed(tc.bottled), "bottled=%d", tc.bottled)
	}
}

func TestSubmitDistillationDeductsRecipe(t *testing.T) {
	h := newHarness(t)
	grain := h.stock(t, "Grain", entities.InventoryTypeIngredient, 12)
	h.recipe(t, "Gin", domain.RecipeIngredientRequest{Name: "Grain", Quantity: 10})

	res, err := h.svc.SubmitDistillation(context.Background(), domain.DistillationLogRequest{
		Date:       "2024-01-02",
		RecipeName: "Gin",
	}, h.userID)
	require.NoError(t, err)

	assert.Equal(t, 2.0, h.quantity(t, grain))
	require.Len(t, res.Deduction.Applied, 1)
	assert.Equal(t, 10.0, res.Deduction.Applied[0].Requested)
	assert.Empty(t, res.Deduction.MissingRecipe)
	assert.Empty(t, res.Deduction.Error)

	logs, err := h.logs.GetDistillationLogs(context.Background(), h.userID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
	assert.Equal(t, []captured{{kind: domain.LogKindDistillation, userID: h.userID}}, h.publisher.events)
}

func TestSubmitDistillationUnknownRecipeKeepsInventory(t *testing.T) {
	h := newHarness(t)
	grain := h.stock(t, "Grain", entities.InventoryTypeIngredient, 12)
	h.recipe(t, "Gin", domain.RecipeIngredientRequest{Name: "Grain", Quantity: 10})

	res, err := h.svc.SubmitDistillation(context.Background(), domain.DistillationLogRequest{
		Date:       "2024-01-02",
		RecipeName: "gin",
	}, h.userID)
	require.NoError(t, err)

	assert.Equal(t, 12.0, h.quantity(t, grain))
	assert.Equal(t, "gin", res.Deduction.MissingRecipe)
	assert.Empty(t, res.Deduction.Applied)

	logs, err := h.logs.GetDistillationLogs(context.Background(), h.userID)
	require.NoError(t, err)
	assert.Len(t, logs, 1, "the log is saved even without a recipe")
}

func TestSubmitDistillationClampsAndReportsMissingItems(t *testing.T) {
	h := newHarness(t)
	grain := h.stock(t, "Grain", entities.InventoryTypeIngredient, 4)
	h.recipe(t, "Vodka",
		domain.RecipeIngredientRequest{Name: "Grain", Quantity: 10},
		domain.RecipeIngredientRequest{Name: "Botanicals", Quantity: 1},
	)

	res, err := h.svc.SubmitDistillation(context.Background(), domain.DistillationLogRequest{
		Date: "2024-01-02", RecipeName: "Vodka",
	}, h.userID)
	require.NoError(t, err)

	assert.Equal(t, 0.0, h.quantity(t, grain))
	require.Len(t, res.Deduction.Applied, 1)
	assert.Equal(t, 6.0, res.Deduction.Applied[0].Shortfall)
	assert.Equal(t, []string{"Botanicals"}, res.Deduction.MissingItems)
}

func TestSubmitBottlingDeductsPerBottle(t *testing.T) {
	h := newHarness(t)
	bottles := h.stock(t, "Bottles", entities.InventoryTypeBottlingMaterial, 100)
	labels := h.stock(t, "Labels", entities.InventoryTypeBottlingMaterial, 100)
	ingredientLabels := h.stock(t, "Labels", entities.InventoryTypeIngredient, 100)
	_, err := h.materials.SaveDefinition(context.Background(), domain.SaveMaterialDefinitionRequest{
		Name: "Gin",
		Materials: []domain.BottlingMaterialRequest{
			{Name: "Bottles", Quantity: 1},
			{Name: "Labels", Quantity: 2},
		},
	}, h.userID)
	require.NoError(t, err)

	res, err := h.svc.SubmitBottling(context.Background(), domain.BottlingLogRequest{
		Date:          "2024-01-03",
		Product:       "Gin",
		BottledAmount: 35,
		BoxesUsed:     99,
	}, h.userID)
	require.NoError(t, err)

	log, ok := res.Log.(*entities.BottlingLog)
	require.True(t, ok)
	assert.Equal(t, 5, log.BoxesUsed, "boxes are derived from the bottled amount")

	assert.Equal(t, 65.0, h.quantity(t, bottles))
	assert.Equal(t, 30.0, h.quantity(t, labels))
	assert.Equal(t, 100.0, h.quantity(t, ingredientLabels), "only bottling materials are consumed")
	assert.Len(t, res.Deduction.Applied, 2)
}

func TestSubmitBottlingWithoutDefinition(t *testing.T) {
	h := newHarness(t)
	bottles := h.stock(t, "Bottles", entities.InventoryTypeBottlingMaterial, 100)

	res, err := h.svc.SubmitBottling(context.Background(), domain.BottlingLogRequest{
		Date: "2024-01-03", Product: "Rum", BottledAmount: 12,
	}, h.userID)
	require.NoError(t, err)

	assert.Equal(t, "Rum", res.Deduction.MissingRecipe)
	assert.Equal(t, 100.0, h.quantity(t, bottles))

	logs, err := h.logs.GetBottlingLogs(context.Background(), h.userID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 2, logs[0].BoxesUsed)
}

func TestSubmitDistillationSaveFailure(t *testing.T) {
	h := newHarness(t)
	grain := h.stock(t, "Grain", entities.InventoryTypeIngredient, 12)
	h.recipe(t, "Gin", domain.RecipeIngredientRequest{Name: "Grain", Quantity: 10})

	svc := NewProductionService(failingLogRepo{h.logs}, recipe.NewMemoryRecipeRepository(),
		material.NewMemoryMaterialRepository(), h.inventory, nil, h.publisher, zap.NewNop())

	_, err := svc.SubmitDistillation(context.Background(), domain.DistillationLogRequest{
		Date: "2024-01-02", RecipeName: "Gin",
	}, h.userID)
	assert.ErrorIs(t, err, domain.ErrSaveProductionLog)
	assert.Equal(t, 12.0, h.quantity(t, grain))
	assert.Empty(t, h.publisher.events)
}

func TestDeductionFailureKeepsLog(t *testing.T) {
	h := newHarness(t)
	recipeRepo := recipe.NewMemoryRecipeRepository()
	recipeSvc := recipe.NewRecipeService(recipeRepo, nil, zap.NewNop())
	_, err := recipeSvc.CreateRecipe(context.Background(), domain.CreateRecipeRequest{
		Name: "Gin", Ingredients: []domain.RecipeIngredientRequest{{Name: "Grain", Quantity: 1}},
	}, h.userID)
	require.NoError(t, err)

	svc := NewProductionService(h.logs, recipeRepo, material.NewMemoryMaterialRepository(),
		failingInventory{h.inventory}, nil, h.publisher, zap.NewNop())

	res, err := svc.SubmitDistillation(context.Background(), domain.DistillationLogRequest{
		Date: "2024-01-02", RecipeName: "Gin",
	}, h.userID)
	require.NoError(t, err)
	assert.Contains(t, res.Deduction.Error, "deadlock")

	logs, err := h.logs.GetDistillationLogs(context.Background(), h.userID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestSubmitDoesNotWaitOnStalledPublisher(t *testing.T) {
	h := newHarness(t)
	stalled := &stallingPublisher{}
	svc := NewProductionService(h.logs, recipe.NewMemoryRecipeRepository(), material.NewMemoryMaterialRepository(),
		h.inventory, nil, stalled, zap.NewNop()).(*productionService)
	svc.publishTimeout = 20 * time.Millisecond

	start := time.Now()
	_, err := svc.SubmitBottling(context.Background(), domain.BottlingLogRequest{
		Date: "2024-01-03", Product: "Gin", BottledAmount: 12,
	}, h.userID)
	require.NoError(t, err)

	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, stalled.hadDeadline)
	logs, err := h.logs.GetBottlingLogs(context.Background(), h.userID)
	require.NoError(t, err)
	assert.Len(t, logs, 1, "the saved run survives a failed publish")
}

func TestSubmitRejectsBadUserID(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.SubmitBottling(context.Background(), domain.BottlingLogRequest{Date: "2024-01-01", Product: "Gin"}, "nope")
	assert.ErrorIs(t, err, domain.ErrParseUUID)
}
