package entities

import "github.com/google/uuid"

// BottlingMaterial quantity is per bottled unit.
type BottlingMaterial struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

type BottlingMaterialDefinition struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID          `gorm:"uniqueIndex:idx_material_definition_user_name" json:"user_id"`
	Name      string             `gorm:"uniqueIndex:idx_material_definition_user_name;not null" json:"name"`
	Materials []BottlingMaterial `gorm:"type:jsonb;serializer:json" json:"materials"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}
