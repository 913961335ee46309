package material

import (
	"context"

	"stillhouse/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	MaterialRepository interface {
		// SaveDefinition inserts the definition, or replaces the materials of
		// the existing definition with the same name.
		SaveDefinition(ctx context.Context, def *entities.BottlingMaterialDefinition) error
		GetDefinitionByName(ctx context.Context, name string, userID string) (*entities.BottlingMaterialDefinition, error)
		GetDefinitions(ctx context.Context, userID string) ([]*entities.BottlingMaterialDefinition, error)
	}

	materialRepository struct {
		db *gorm.DB
	}
)

func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) SaveDefinition(ctx context.Context, def *entities.BottlingMaterialDefinition) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"materials", "updated_at"}),
	}).Create(def).Error
	if err != nil {
		return err
	}
	// reload so an update returns the id of the row that was kept
	var saved entities.BottlingMaterialDefinition
	if err := r.db.WithContext(ctx).Where("name = ? AND user_id = ?", def.Name, def.UserID).First(&saved).Error; err != nil {
		return err
	}
	*def = saved
	return nil
}

func (r *materialRepository) GetDefinitionByName(ctx context.Context, name string, userID string) (*entities.BottlingMaterialDefinition, error) {
	var def entities.BottlingMaterialDefinition
	if err := r.db.WithContext(ctx).Where("name = ? AND user_id = ?", name, userID).First(&def).Error; err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *materialRepository) GetDefinitions(ctx context.Context, userID string) ([]*entities.BottlingMaterialDefinition, error) {
	var defs []*entities.BottlingMaterialDefinition
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name asc").Find(&defs).Error; err != nil {
		return nil, err
	}
	return defs, nil
}
