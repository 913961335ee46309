package material

import (
	"context"
	"errors"
	"fmt"

	"stillhouse/domain"
	"stillhouse/entities"
	"stillhouse/pkg/realtime"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type (
	MaterialService interface {
		SaveDefinition(ctx context.Context, req domain.SaveMaterialDefinitionRequest, userID string) (domain.MaterialDefinitionResponse, error)
		GetDefinition(ctx context.Context, name string, userID string) (domain.MaterialDefinitionResponse, error)
		GetDefinitions(ctx context.Context, userID string) ([]domain.MaterialDefinitionResponse, error)
	}

	materialService struct {
		materialRepository MaterialRepository
		notifier           realtime.Notifier
		logger             *zap.Logger
	}
)

func NewMaterialService(materialRepository MaterialRepository, notifier realtime.Notifier, logger *zap.Logger) MaterialService {
	if notifier == nil {
		notifier = realtime.NopNotifier()
	}
	return &materialService{
		materialRepository: materialRepository,
		notifier:           notifier,
		logger:             logger,
	}
}

func (s *materialService) SaveDefinition(ctx context.Context, req domain.SaveMaterialDefinitionRequest, userID string) (domain.MaterialDefinitionResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.MaterialDefinitionResponse{}, domain.ErrParseUUID
	}

	materials := make([]entities.BottlingMaterial, 0, len(req.Materials))
	for _, m := range req.Materials {
		materials = append(materials, entities.BottlingMaterial{Name: m.Name, Quantity: m.Quantity})
	}

	def := &entities.BottlingMaterialDefinition{
		ID:        uuid.New(),
		UserID:    uid,
		Name:      req.Name,
		Materials: materials,
	}
	if err := s.materialRepository.SaveDefinition(ctx, def); err != nil {
		s.logger.Error("failed to save bottling material definition", zap.String("name", req.Name), zap.Error(err))
		return domain.MaterialDefinitionResponse{}, fmt.Errorf("save material definition: %w", err)
	}

	s.notifier.Notify(ctx, userID, domain.CollectionMaterialDefinitions)
	return toDefinitionResponse(def), nil
}

func (s *materialService) GetDefinition(ctx context.Context, name string, userID string) (domain.MaterialDefinitionResponse, error) {
	def, err := s.materialRepository.GetDefinitionByName(ctx, name, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.MaterialDefinitionResponse{}, domain.ErrMaterialDefinitionNotFound
		}
		return domain.MaterialDefinitionResponse{}, err
	}
	return toDefinitionResponse(def), nil
}

func (s *materialService) GetDefinitions(ctx context.Context, userID string) ([]domain.MaterialDefinitionResponse, error) {
	defs, err := s.materialRepository.GetDefinitions(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := make([]domain.MaterialDefinitionResponse, 0, len(defs))
	for _, def := range defs {
		res = append(res, toDefinitionResponse(def))
	}
	return res, nil
}

func toDefinitionResponse(def *entities.BottlingMaterialDefinition) domain.MaterialDefinitionResponse {
	materials := make([]domain.BottlingMaterial, 0, len(def.Materials))
	for _, m := range def.Materials {
		materials = append(materials, domain.BottlingMaterial{Name: m.Name, Quantity: m.Quantity})
	}
	return domain.MaterialDefinitionResponse{
		ID:        def.ID.String(),
		Name:      def.Name,
		Materials: materials,
		UpdatedAt: def.UpdatedAt,
	}
}
