package production

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stillhouse/domain"
	"stillhouse/entities"
	"stillhouse/internal/metrics"
	"stillhouse/pkg/events"
	"stillhouse/pkg/inventory"
	"stillhouse/pkg/material"
	"stillhouse/pkg/realtime"
	"stillhouse/pkg/recipe"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// publishTimeout bounds the event publish that follows a saved run.
const publishTimeout = 5 * time.Second

type (
	// ProductionService records distillation and bottling runs. A run is
	// saved first; consuming inventory is a separate step afterwards whose
	// outcome is reported but never undoes the saved run.
	ProductionService interface {
		SubmitDistillation(ctx context.Context, req domain.DistillationLogRequest, userID string) (domain.SubmissionResponse, error)
		SubmitBottling(ctx context.Context, req domain.BottlingLogRequest, userID string) (domain.SubmissionResponse, error)
	}

	productionService struct {
		productionRepository ProductionRepository
		recipeRepository     recipe.RecipeRepository
		materialRepository   material.MaterialRepository
		inventoryService     inventory.InventoryService
		notifier             realtime.Notifier
		publisher            events.Publisher
		logger               *zap.Logger
		now                  func() time.Time
		publishTimeout       time.Duration
	}
)

func NewProductionService(
	productionRepository ProductionRepository,
	recipeRepository recipe.RecipeRepository,
	materialRepository material.MaterialRepository,
	inventoryService inventory.InventoryService,
	notifier realtime.Notifier,
	publisher events.Publisher,
	logger *zap.Logger,
) ProductionService {
	if notifier == nil {
		notifier = realtime.NopNotifier()
	}
	if publisher == nil {
		publisher = events.NewPublisher("", "", logger)
	}
	return &productionService{
		productionRepository: productionRepository,
		recipeRepository:     recipeRepository,
		materialRepository:   materialRepository,
		inventoryService:     inventoryService,
		notifier:             notifier,
		publisher:            publisher,
		logger:               logger,
		now:                  time.Now,
		publishTimeout:       publishTimeout,
	}
}

func (s *productionService) SubmitDistillation(ctx context.Context, req domain.DistillationLogRequest, userID string) (domain.SubmissionResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.SubmissionResponse{}, domain.ErrParseUUID
	}

	log := &entities.DistillationLog{
		ID:                    uuid.New(),
		UserID:                uid,
		Date:                  req.Date,
		RecipeName:            req.RecipeName,
		FinalProduct:          req.FinalProduct,
		DistillationStart:     req.DistillationStart,
		PowerLevel:            req.PowerLevel,
		EthanolAmount:         req.EthanolAmount,
		WaterIntoStill:        req.WaterIntoStill,
		ABVOfCharge:           req.ABVOfCharge,
		HeadsCollectionStart:  req.HeadsCollectionStart,
		HeartsCollectionStart: req.HeartsCollectionStart,
		HeartsCollectionStop:  req.HeartsCollectionStop,
		TailsDuration:         req.TailsDuration,
		DistillateAmount:      req.DistillateAmount,
		DistillateABV:         req.DistillateABV,
		Notes:                 req.Notes,
		LowerPlateOn:          req.LowerPlateOn,
		UpperPlateOn:          req.UpperPlateOn,
		DephlegmatorOn:        req.DephlegmatorOn,
		RecordedAt:            s.now(),
	}
	if err := s.productionRepository.CreateDistillationLog(ctx, log); err != nil {
		s.logger.Error("failed to save distillation log", zap.String("user_id", userID), zap.Error(err))
		return domain.SubmissionResponse{}, fmt.Errorf("%w: %v", domain.ErrSaveProductionLog, err)
	}
	metrics.ProductionLogs.WithLabelValues(domain.LogKindDistillation).Inc()
	s.notifier.Notify(ctx, userID, domain.CollectionDistillationLogs)

	// the log is committed; finish its side effects even if the caller goes away
	postCtx := context.WithoutCancel(ctx)
	report := s.deductRecipe(postCtx, userID, log)
	s.publish(postCtx, domain.LogKindDistillation, userID, log)

	return domain.SubmissionResponse{Log: log, Deduction: report}, nil
}

func (s *productionService) SubmitBottling(ctx context.Context, req domain.BottlingLogRequest, userID string) (domain.SubmissionResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.SubmissionResponse{}, domain.ErrParseUUID
	}

	log := &entities.BottlingLog{
		ID:                uuid.New(),
		UserID:            uid,
		Date:              req.Date,
		BottlingStartTime: req.BottlingStartTime,
		Product:           req.Product,
		BottledAmount:     req.BottledAmount,
		BoxesUsed:         BoxesUsed(req.BottledAmount),
		LotNumber:         req.LotNumber,
		Notes:             req.Notes,
		RecordedAt:        s.now(),
	}
	if err := s.productionRepository.CreateBottlingLog(ctx, log); err != nil {
		s.logger.Error("failed to save bottling log", zap.String("user_id", userID), zap.Error(err))
		return domain.SubmissionResponse{}, fmt.Errorf("%w: %v", domain.ErrSaveProductionLog, err)
	}
	metrics.ProductionLogs.WithLabelValues(domain.LogKindBottling).Inc()
	s.notifier.Notify(ctx, userID, domain.CollectionBottlingLogs)

	postCtx := context.WithoutCancel(ctx)
	report := s.deductMaterials(postCtx, userID, log)
	s.publish(postCtx, domain.LogKindBottling, userID, log)

	return domain.SubmissionResponse{Log: log, Deduction: report}, nil
}

func (s *productionService) deductRecipe(ctx context.Context, userID string, log *entities.DistillationLog) domain.DeductionReport {
	report := domain.DeductionReport{Applied: []domain.StockDeduction{}}

	rec, err := s.recipeRepository.GetRecipeByName(ctx, log.RecipeName, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			report.MissingRecipe = log.RecipeName
			s.logger.Info("no recipe matches distillation log, inventory unchanged",
				zap.String("log_id", log.ID.String()),
				zap.String("recipe", log.RecipeName))
			return report
		}
		return s.deductionFailed(report, log.ID.String(), err)
	}

	reqs := make([]domain.DeductionRequest, 0, len(rec.Ingredients))
	for _, ing := range rec.Ingredients {
		reqs = append(reqs, domain.DeductionRequest{Name: ing.Name, Amount: ing.Quantity})
	}

	source := domain.StockSource{Type: domain.LogKindDistillation, ID: log.ID.String()}
	return s.apply(ctx, userID, source, reqs, report)
}

func (s *productionService) deductMaterials(ctx context.Context, userID string, log *entities.BottlingLog) domain.DeductionReport {
	report := domain.DeductionReport{Applied: []domain.StockDeduction{}}

	def, err := s.materialRepository.GetDefinitionByName(ctx, log.Product, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			report.MissingRecipe = log.Product
			s.logger.Info("no bottling material definition matches product, inventory unchanged",
				zap.String("log_id", log.ID.String()),
				zap.String("product", log.Product))
			return report
		}
		return s.deductionFailed(report, log.ID.String(), err)
	}

	bottled := decimal.NewFromInt(int64(log.BottledAmount))
	reqs := make([]domain.DeductionRequest, 0, len(def.Materials))
	for _, m := range def.Materials {
		reqs = append(reqs, domain.DeductionRequest{
			Name:   m.Name,
			Type:   entities.InventoryTypeBottlingMaterial,
			Amount: decimal.NewFromFloat(m.Quantity).Mul(bottled).InexactFloat64(),
		})
	}

	source := domain.StockSource{Type: domain.LogKindBottling, ID: log.ID.String()}
	return s.apply(ctx, userID, source, reqs, report)
}

func (s *productionService) apply(ctx context.Context, userID string, source domain.StockSource, reqs []domain.DeductionRequest, report domain.DeductionReport) domain.DeductionReport {
	result, err := s.inventoryService.DeductBatch(ctx, userID, source, reqs)
	if err != nil {
		return s.deductionFailed(report, source.ID, err)
	}

	if result.Applied != nil {
		report.Applied = result.Applied
	}
	report.MissingItems = result.Missing
	if len(result.Missing) > 0 {
		s.logger.Info("skipped deductions for items not in inventory",
			zap.String("log_id", source.ID),
			zap.Strings("items", result.Missing))
	}
	return report
}

func (s *productionService) deductionFailed(report domain.DeductionReport, logID string, err error) domain.DeductionReport {
	s.logger.Error("inventory deduction failed, log was kept",
		zap.String("log_id", logID),
		zap.Error(err))
	report.Error = err.Error()
	return report
}

func (s *productionService) publish(ctx context.Context, kind, userID string, log any) {
	ctx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, kind, userID, log); err != nil {
		s.logger.Warn("failed to publish production event", zap.String("kind", kind), zap.Error(err))
	}
}
