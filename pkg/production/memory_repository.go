package production

import (
	"context"
	"sync"
	"time"

	"stillhouse/entities"
)

type memoryRepository struct {
	mu            sync.Mutex
	distillations []*entities.DistillationLog
	bottlings     []*entities.BottlingLog
}

func NewMemoryProductionRepository() ProductionRepository {
	return &memoryRepository{}
}

func (r *memoryRepository) CreateDistillationLog(_ context.Context, log *entities.DistillationLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	log.CreatedAt, log.UpdatedAt = now, now
	cp := *log
	r.distillations = append(r.distillations, &cp)
	return nil
}

func (r *memoryRepository) CreateBottlingLog(_ context.Context, log *entities.BottlingLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	log.CreatedAt, log.UpdatedAt = now, now
	cp := *log
	r.bottlings = append(r.bottlings, &cp)
	return nil
}

func (r *memoryRepository) GetDistillationLogs(_ context.Context, userID string) ([]*entities.DistillationLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []*entities.DistillationLog
	for _, log := range r.distillations {
		if log.UserID.String() == userID {
			cp := *log
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (r *memoryRepository) GetBottlingLogs(_ context.Context, userID string) ([]*entities.BottlingLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []*entities.BottlingLog
	for _, log := range r.bottlings {
		if log.UserID.String() == userID {
			cp := *log
			res = append(res, &cp)
		}
	}
	return res, nil
}
