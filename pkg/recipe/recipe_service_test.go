package recipe

import (
	"context"
	"testing"

	"stillhouse/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type notifications []string

func (n *notifications) Notify(_ context.Context, _ string, collection string) {
	*n = append(*n, collection)
}

func TestCreateAndGetRecipe(t *testing.T) {
	notified := &notifications{}
	svc := NewRecipeService(NewMemoryRecipeRepository(), notified, zap.NewNop())
	userID := uuid.NewString()

	created, err := svc.CreateRecipe(context.Background(), domain.CreateRecipeRequest{
		Name: "Gin",
		Ingredients: []domain.RecipeIngredientRequest{
			{Name: "Grain", Quantity: 10, Unit: "kg"},
			{Name: "Juniper", Quantity: 0.5, Unit: "kg"},
		},
	}, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.CollectionRecipes}, []string(*notified))

	got, err := svc.GetRecipe(context.Background(), created.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, "Gin", got.Name)
	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, "Juniper", got.Ingredients[1].Name)

	_, err = svc.GetRecipe(context.Background(), created.ID, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestCreateRecipeRejects(t *testing.T) {
	svc := NewRecipeService(NewMemoryRecipeRepository(), nil, zap.NewNop())

	_, err := svc.CreateRecipe(context.Background(), domain.CreateRecipeRequest{Name: "Gin"}, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrRecipeNoIngredient)

	_, err = svc.CreateRecipe(context.Background(), domain.CreateRecipeRequest{
		Name: "Gin", Ingredients: []domain.RecipeIngredientRequest{{Name: "Grain", Quantity: 1}},
	}, "bad")
	assert.ErrorIs(t, err, domain.ErrParseUUID)
}

func TestGetRecipeByNameIsExactAndOldestFirst(t *testing.T) {
	repo := NewMemoryRecipeRepository()
	svc := NewRecipeService(repo, nil, zap.NewNop())
	userID := uuid.NewString()

	first, err := svc.CreateRecipe(context.Background(), domain.CreateRecipeRequest{
		Name: "Gin", Ingredients: []domain.RecipeIngredientRequest{{Name: "Grain", Quantity: 10}},
	}, userID)
	require.NoError(t, err)
	_, err = svc.CreateRecipe(context.Background(), domain.CreateRecipeRequest{
		Name: "Gin", Ingredients: []domain.RecipeIngredientRequest{{Name: "Grain", Quantity: 20}},
	}, userID)
	require.NoError(t, err)

	rec, err := repo.GetRecipeByName(context.Background(), "Gin", userID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, rec.ID.String())

	_, err = repo.GetRecipeByName(context.Background(), "gin", userID)
	assert.Error(t, err)
}
