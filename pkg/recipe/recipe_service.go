package recipe

import (
	"context"
	"errors"
	"fmt"

	"stillhouse/domain"
	"stillhouse/entities"
	"stillhouse/pkg/realtime"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error)
		GetRecipe(ctx context.Context, recipeID string, userID string) (domain.RecipeResponse, error)
		GetRecipes(ctx context.Context, userID string) ([]domain.RecipeResponse, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
		notifier         realtime.Notifier
		logger           *zap.Logger
	}
)

func NewRecipeService(recipeRepository RecipeRepository, notifier realtime.Notifier, logger *zap.Logger) RecipeService {
	if notifier == nil {
		notifier = realtime.NopNotifier()
	}
	return &recipeService{
		recipeRepository: recipeRepository,
		notifier:         notifier,
		logger:           logger,
	}
}

// CreateRecipe stores a new recipe. Recipes cannot be edited afterwards;
// ingredient order is kept as given.
func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}
	if len(req.Ingredients) == 0 {
		return domain.RecipeResponse{}, domain.ErrRecipeNoIngredient
	}

	ingredients := make([]entities.RecipeIngredient, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		ingredients = append(ingredients, entities.RecipeIngredient{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		})
	}

	recipe := &entities.Recipe{
		ID:          uuid.New(),
		UserID:      uid,
		Name:        req.Name,
		Product:     req.Product,
		Ingredients: ingredients,
	}
	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		s.logger.Error("failed to create recipe", zap.String("user_id", userID), zap.Error(err))
		return domain.RecipeResponse{}, fmt.Errorf("create recipe: %w", err)
	}

	s.notifier.Notify(ctx, userID, domain.CollectionRecipes)
	return toRecipeResponse(recipe), nil
}

func (s *recipeService) GetRecipe(ctx context.Context, recipeID string, userID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}
	return toRecipeResponse(recipe), nil
}

func (s *recipeService) GetRecipes(ctx context.Context, userID string) ([]domain.RecipeResponse, error) {
	recipes, err := s.recipeRepository.GetRecipes(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		res = append(res, toRecipeResponse(recipe))
	}
	return res, nil
}

func toRecipeResponse(recipe *entities.Recipe) domain.RecipeResponse {
	ingredients := make([]domain.RecipeIngredient, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		ingredients = append(ingredients, domain.RecipeIngredient{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		})
	}
	return domain.RecipeResponse{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		Product:     recipe.Product,
		Ingredients: ingredients,
		CreatedAt:   recipe.CreatedAt,
	}
}
