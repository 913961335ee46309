package production

import (
	"context"

	"stillhouse/entities"

	"gorm.io/gorm"
)

type (
	ProductionRepository interface {
		CreateDistillationLog(ctx context.Context, log *entities.DistillationLog) error
		CreateBottlingLog(ctx context.Context, log *entities.BottlingLog) error
		GetDistillationLogs(ctx context.Context, userID string) ([]*entities.DistillationLog, error)
		GetBottlingLogs(ctx context.Context, userID string) ([]*entities.BottlingLog, error)
	}

	productionRepository struct {
		db *gorm.DB
	}
)

func NewProductionRepository(db *gorm.DB) ProductionRepository {
	return &productionRepository{db: db}
}

func (r *productionRepository) CreateDistillationLog(ctx context.Context, log *entities.DistillationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *productionRepository) CreateBottlingLog(ctx context.Context, log *entities.BottlingLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *productionRepository) GetDistillationLogs(ctx context.Context, userID string) ([]*entities.DistillationLog, error) {
	var logs []*entities.DistillationLog
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at asc").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *productionRepository) GetBottlingLogs(ctx context.Context, userID string) ([]*entities.BottlingLog, error) {
	var logs []*entities.BottlingLog
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at asc").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
