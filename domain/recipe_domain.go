package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessCreateRecipe = "recipe created successfully"
	MessageSuccessGetRecipes   = "recipes retrieved successfully"
	MessageSuccessGetRecipe    = "recipe retrieved successfully"

	MessageFailedCreateRecipe = "failed to create recipe"
	MessageFailedGetRecipes   = "failed to retrieve recipes"
	MessageFailedGetRecipe    = "failed to retrieve recipe"

	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrRecipeNoIngredient = errors.New("recipe must have at least one ingredient")
)

type (
	RecipeIngredientRequest struct {
		Name     string  `json:"name" validate:"required"`
		Quantity float64 `json:"quantity" validate:"gt=0"`
		Unit     string  `json:"unit" validate:"omitempty,max=20"`
	}

	CreateRecipeRequest struct {
		Name        string                    `json:"name" validate:"required"`
		Product     string                    `json:"product" validate:"omitempty"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
	}

	RecipeIngredient struct {
		Name     string  `json:"name"`
		Quantity float64 `json:"quantity"`
		Unit     string  `json:"unit"`
	}

	RecipeResponse struct {
		ID          string             `json:"id"`
		Name        string             `json:"name"`
		Product     string             `json:"product"`
		Ingredients []RecipeIngredient `json:"ingredients"`
		CreatedAt   time.Time          `json:"created_at"`
	}
)
