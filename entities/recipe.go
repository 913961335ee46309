package entities

import "github.com/google/uuid"

type RecipeIngredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type Recipe struct {
	ID          uuid.UUID          `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID      uuid.UUID          `gorm:"index" json:"user_id"`
	Name        string             `gorm:"index;not null" json:"name"`
	Product     string             `json:"product"`
	Ingredients []RecipeIngredient `gorm:"type:jsonb;serializer:json" json:"ingredients"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}
