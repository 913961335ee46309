package recipe

import (
	"context"
	"sync"
	"time"

	"stillhouse/entities"

	"gorm.io/gorm"
)

type memoryRepository struct {
	mu      sync.Mutex
	recipes []*entities.Recipe
}

func NewMemoryRecipeRepository() RecipeRepository {
	return &memoryRepository{}
}

func (r *memoryRepository) CreateRecipe(_ context.Context, recipe *entities.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	recipe.CreatedAt, recipe.UpdatedAt = now, now
	cp := *recipe
	cp.Ingredients = append([]entities.RecipeIngredient(nil), recipe.Ingredients...)
	r.recipes = append(r.recipes, &cp)
	return nil
}

func (r *memoryRepository) GetRecipeByID(_ context.Context, id string, userID string) (*entities.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, recipe := range r.recipes {
		if recipe.ID.String() == id && recipe.UserID.String() == userID {
			cp := *recipe
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryRepository) GetRecipeByName(_ context.Context, name string, userID string) (*entities.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, recipe := range r.recipes {
		if recipe.Name == name && recipe.UserID.String() == userID {
			cp := *recipe
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryRepository) GetRecipes(_ context.Context, userID string) ([]*entities.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []*entities.Recipe
	for _, recipe := range r.recipes {
		if recipe.UserID.String() == userID {
			cp := *recipe
			res = append(res, &cp)
		}
	}
	return res, nil
}
