package migration

import (
	"fmt"

	"stillhouse/entities"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB, log *zap.Logger) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return fmt.Errorf("create uuid-ossp extension: %w", err)
	}

	models := []struct {
		name  string
		model any
	}{
		{"user", &entities.User{}},
		{"inventory item", &entities.InventoryItem{}},
		{"stock movement", &entities.StockMovement{}},
		{"recipe", &entities.Recipe{}},
		{"bottling material definition", &entities.BottlingMaterialDefinition{}},
		{"distillation log", &entities.DistillationLog{}},
		{"bottling log", &entities.BottlingLog{}},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("migrating %s table: %w", m.name, err)
		}
	}

	log.Info("database migration complete", zap.Int("tables", len(models)))
	return nil
}
