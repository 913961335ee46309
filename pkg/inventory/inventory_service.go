package inventory

import (
	"context"
	"errors"
	"fmt"

	"stillhouse/domain"
	"stillhouse/entities"
	"stillhouse/internal/metrics"
	"stillhouse/pkg/realtime"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type (
	InventoryService interface {
		AddItem(ctx context.Context, req domain.AddInventoryItemRequest, userID string) (domain.InventoryItemResponse, error)
		UpdateItem(ctx context.Context, itemID string, req domain.UpdateInventoryItemRequest, userID string) (domain.InventoryItemResponse, error)
		RemoveItem(ctx context.Context, itemID string, userID string) error
		GetItem(ctx context.Context, itemID string, userID string) (domain.InventoryItemResponse, error)
		GetItems(ctx context.Context, userID string, itemType string, page, limit int) ([]domain.InventoryItemResponse, int64, error)
		GetActiveItems(ctx context.Context, userID string) ([]domain.InventoryItemResponse, error)
		GetLowStock(ctx context.Context, userID string) ([]domain.InventoryItemResponse, error)
		GetMovements(ctx context.Context, userID string, page, limit int) ([]domain.StockMovementResponse, int64, error)

		// DeductBatch applies every request in one transaction. Requests whose
		// item cannot be found are skipped and returned in Missing.
		DeductBatch(ctx context.Context, userID string, source domain.StockSource, reqs []domain.DeductionRequest) (domain.DeductionBatchResult, error)
	}

	inventoryService struct {
		inventoryRepository InventoryRepository
		notifier            realtime.Notifier
		alerter             LowStockAlerter
		logger              *zap.Logger
	}
)

func NewInventoryService(
	inventoryRepository InventoryRepository,
	notifier realtime.Notifier,
	alerter LowStockAlerter,
	logger *zap.Logger,
) InventoryService {
	if notifier == nil {
		notifier = realtime.NopNotifier()
	}
	return &inventoryService{
		inventoryRepository: inventoryRepository,
		notifier:            notifier,
		alerter:             alerter,
		logger:              logger,
	}
}

func (s *inventoryService) AddItem(ctx context.Context, req domain.AddInventoryItemRequest, userID string) (domain.InventoryItemResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.InventoryItemResponse{}, domain.ErrParseUUID
	}
	if !ValidType(req.Type) {
		return domain.InventoryItemResponse{}, domain.ErrInvalidInventoryType
	}
	if req.Quantity < 0 || req.LowStockThreshold < 0 {
		return domain.InventoryItemResponse{}, domain.ErrNegativeQuantity
	}

	item := &entities.InventoryItem{
		ID:                uuid.New(),
		UserID:            uid,
		Name:              req.Name,
		Type:              req.Type,
		Quantity:          req.Quantity,
		Unit:              req.Unit,
		LowStockThreshold: req.LowStockThreshold,
		LeadTimeDays:      req.LeadTimeDays,
	}
	if err := s.inventoryRepository.AddItem(ctx, item); err != nil {
		s.logger.Error("failed to add inventory item", zap.String("user_id", userID), zap.Error(err))
		return domain.InventoryItemResponse{}, fmt.Errorf("add inventory item: %w", err)
	}

	s.notifier.Notify(ctx, userID, domain.CollectionInventory)
	return toItemResponse(item), nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, itemID string, req domain.UpdateInventoryItemRequest, userID string) (domain.InventoryItemResponse, error) {
	item, err := s.inventoryRepository.GetItemByID(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.InventoryItemResponse{}, domain.ErrInventoryItemNotFound
		}
		return domain.InventoryItemResponse{}, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Type != nil {
		if !ValidType(*req.Type) {
			return domain.InventoryItemResponse{}, domain.ErrInvalidInventoryType
		}
		item.Type = *req.Type
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return domain.InventoryItemResponse{}, domain.ErrNegativeQuantity
		}
		item.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.LowStockThreshold != nil {
		if *req.LowStockThreshold < 0 {
			return domain.InventoryItemResponse{}, domain.ErrNegativeQuantity
		}
		item.LowStockThreshold = *req.LowStockThreshold
	}
	if req.LeadTimeDays != nil {
		item.LeadTimeDays = *req.LeadTimeDays
	}

	if err := s.inventoryRepository.UpdateItem(ctx, item); err != nil {
		s.logger.Error("failed to update inventory item", zap.String("item_id", itemID), zap.Error(err))
		return domain.InventoryItemResponse{}, fmt.Errorf("update inventory item: %w", err)
	}

	s.notifier.Notify(ctx, userID, domain.CollectionInventory)
	return toItemResponse(item), nil
}

func (s *inventoryService) RemoveItem(ctx context.Context, itemID string, userID string) error {
	affected, err := s.inventoryRepository.SoftDeleteItem(ctx, itemID, userID)
	if err != nil {
		s.logger.Error("failed to remove inventory item", zap.String("item_id", itemID), zap.Error(err))
		return fmt.Errorf("remove inventory item: %w", err)
	}
	if affected == 0 {
		return domain.ErrInventoryItemNotFound
	}

	s.notifier.Notify(ctx, userID, domain.CollectionInventory)
	return nil
}

func (s *inventoryService) GetItem(ctx context.Context, itemID string, userID string) (domain.InventoryItemResponse, error) {
	item, err := s.inventoryRepository.GetItemByID(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.InventoryItemResponse{}, domain.ErrInventoryItemNotFound
		}
		return domain.InventoryItemResponse{}, err
	}
	return toItemResponse(item), nil
}

func (s *inventoryService) GetItems(ctx context.Context, userID string, itemType string, page, limit int) ([]domain.InventoryItemResponse, int64, error) {
	items, count, err := s.inventoryRepository.GetItems(ctx, userID, itemType, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toItemResponses(items), count, nil
}

func (s *inventoryService) GetActiveItems(ctx context.Context, userID string) ([]domain.InventoryItemResponse, error) {
	items, err := s.inventoryRepository.GetActiveItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toItemResponses(items), nil
}

func (s *inventoryService) GetLowStock(ctx context.Context, userID string) ([]domain.InventoryItemResponse, error) {
	items, err := s.inventoryRepository.GetActiveItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	low := make([]domain.InventoryItemResponse, 0)
	for _, item := range items {
		if IsLowStock(*item) {
			low = append(low, toItemResponse(item))
		}
	}
	return low, nil
}

func (s *inventoryService) GetMovements(ctx context.Context, userID string, page, limit int) ([]domain.StockMovementResponse, int64, error) {
	movements, count, err := s.inventoryRepository.GetMovements(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		res = append(res, domain.StockMovementResponse{
			ID:             m.ID.String(),
			ItemID:         m.InventoryItemID.String(),
			ItemName:       m.ItemName,
			SourceType:     m.SourceType,
			SourceID:       m.SourceID.String(),
			Requested:      m.Requested,
			QuantityBefore: m.QuantityBefore,
			QuantityAfter:  m.QuantityAfter,
			Shortfall:      m.Shortfall,
			CreatedAt:      m.CreatedAt,
		})
	}
	return res, count, nil
}

func (s *inventoryService) DeductBatch(ctx context.Context, userID string, source domain.StockSource, reqs []domain.DeductionRequest) (domain.DeductionBatchResult, error) {
	var result domain.DeductionBatchResult
	if len(reqs) == 0 {
		return result, nil
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return result, domain.ErrParseUUID
	}
	sourceID, err := uuid.Parse(source.ID)
	if err != nil {
		return result, domain.ErrParseUUID
	}

	var crossed []entities.InventoryItem
	err = s.inventoryRepository.Transaction(ctx, func(repo InventoryRepository) error {
		result = domain.DeductionBatchResult{}
		crossed = nil

		items, err := repo.GetActiveItems(ctx, userID)
		if err != nil {
			return err
		}

		for _, req := range reqs {
			item := FindByName(items, req.Name, req.Type)
			if item == nil {
				result.Missing = append(result.Missing, req.Name)
				continue
			}

			wasLow := IsLowStock(*item)
			applied := Deduct(item, req.Amount)

			if err := repo.UpdateQuantity(ctx, item.ID.String(), item.Quantity); err != nil {
				return fmt.Errorf("update quantity of %s: %w", item.Name, err)
			}
			if err := repo.CreateMovement(ctx, &entities.StockMovement{
				ID:              uuid.New(),
				UserID:          uid,
				InventoryItemID: item.ID,
				ItemName:        item.Name,
				SourceType:      source.Type,
				SourceID:        sourceID,
				Requested:       applied.Requested,
				QuantityBefore:  applied.Before,
				QuantityAfter:   applied.After,
				Shortfall:       applied.Shortfall,
			}); err != nil {
				return fmt.Errorf("record stock movement of %s: %w", item.Name, err)
			}

			result.Applied = append(result.Applied, applied)
			if !wasLow && applied.LowStock {
				crossed = append(crossed, *item)
			}
		}
		return nil
	})
	if err != nil {
		metrics.Deductions.WithLabelValues("failed").Add(float64(len(reqs)))
		return domain.DeductionBatchResult{}, err
	}

	for _, applied := range result.Applied {
		outcome := "applied"
		if applied.Shortfall > 0 {
			outcome = "shortfall"
			s.logger.Warn("deduction exceeded stock, quantity clamped at zero",
				zap.String("user_id", userID),
				zap.String("item", applied.Name),
				zap.Float64("requested", applied.Requested),
				zap.Float64("shortfall", applied.Shortfall))
		}
		metrics.Deductions.WithLabelValues(outcome).Inc()
	}
	metrics.Deductions.WithLabelValues("missing").Add(float64(len(result.Missing)))

	if len(result.Applied) > 0 {
		s.notifier.Notify(ctx, userID, domain.CollectionInventory)
	}
	if s.alerter != nil {
		for _, item := range crossed {
			s.alerter.LowStock(ctx, userID, item)
		}
	}
	return result, nil
}

func toItemResponse(item *entities.InventoryItem) domain.InventoryItemResponse {
	return domain.InventoryItemResponse{
		ID:                item.ID.String(),
		Name:              item.Name,
		Type:              item.Type,
		Quantity:          item.Quantity,
		Unit:              item.Unit,
		LowStockThreshold: item.LowStockThreshold,
		LeadTimeDays:      item.LeadTimeDays,
		LowStock:          IsLowStock(*item),
		CreatedAt:         item.CreatedAt,
	}
}

func toItemResponses(items []*entities.InventoryItem) []domain.InventoryItemResponse {
	res := make([]domain.InventoryItemResponse, 0, len(items))
	for _, item := range items {
		res = append(res, toItemResponse(item))
	}
	return res
}
