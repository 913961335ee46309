package logbook

import (
	"context"
	"fmt"

	"stillhouse/domain"
	"stillhouse/entities"

	"golang.org/x/sync/errgroup"
)

type (
	// LogSource is the read side of the production log store.
	LogSource interface {
		GetDistillationLogs(ctx context.Context, userID string) ([]*entities.DistillationLog, error)
		GetBottlingLogs(ctx context.Context, userID string) ([]*entities.BottlingLog, error)
	}

	LogbookService interface {
		GetLogs(ctx context.Context, userID string, page int) (domain.LogPage, error)
		GetAllLogs(ctx context.Context, userID string) ([]domain.LogEntry, error)
		GetDistillationLogs(ctx context.Context, userID string) ([]*entities.DistillationLog, error)
		GetBottlingLogs(ctx context.Context, userID string) ([]*entities.BottlingLog, error)
	}

	logbookService struct {
		source LogSource
	}
)

func NewLogbookService(source LogSource) LogbookService {
	return &logbookService{source: source}
}

func (s *logbookService) GetLogs(ctx context.Context, userID string, page int) (domain.LogPage, error) {
	if page < 1 {
		return domain.LogPage{}, domain.ErrInvalidPage
	}
	entries, err := s.GetAllLogs(ctx, userID)
	if err != nil {
		return domain.LogPage{}, err
	}
	return Paginate(entries, page), nil
}

func (s *logbookService) GetAllLogs(ctx context.Context, userID string) ([]domain.LogEntry, error) {
	var (
		distillations []*entities.DistillationLog
		bottlings     []*entities.BottlingLog
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		distillations, err = s.source.GetDistillationLogs(gctx, userID)
		if err != nil {
			return fmt.Errorf("load distillation logs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		bottlings, err = s.source.GetBottlingLogs(gctx, userID)
		if err != nil {
			return fmt.Errorf("load bottling logs: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Merge(distillations, bottlings), nil
}

func (s *logbookService) GetDistillationLogs(ctx context.Context, userID string) ([]*entities.DistillationLog, error) {
	return s.source.GetDistillationLogs(ctx, userID)
}

func (s *logbookService) GetBottlingLogs(ctx context.Context, userID string) ([]*entities.BottlingLog, error) {
	return s.source.GetBottlingLogs(ctx, userID)
}
