package material

import (
	"context"
	"sort"
	"sync"
	"time"

	"stillhouse/entities"

	"gorm.io/gorm"
)

type memoryRepository struct {
	mu   sync.Mutex
	defs map[string]*entities.BottlingMaterialDefinition
}

func NewMemoryMaterialRepository() MaterialRepository {
	return &memoryRepository{defs: make(map[string]*entities.BottlingMaterialDefinition)}
}

func key(userID, name string) string {
	return userID + "\x00" + name
}

func (r *memoryRepository) SaveDefinition(_ context.Context, def *entities.BottlingMaterialDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	k := key(def.UserID.String(), def.Name)
	if existing, ok := r.defs[k]; ok {
		def.ID = existing.ID
		def.CreatedAt = existing.CreatedAt
	} else {
		def.CreatedAt = now
	}
	def.UpdatedAt = now

	cp := *def
	cp.Materials = append([]entities.BottlingMaterial(nil), def.Materials...)
	r.defs[k] = &cp
	return nil
}

func (r *memoryRepository) GetDefinitionByName(_ context.Context, name string, userID string) (*entities.BottlingMaterialDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	def, ok := r.defs[key(userID, name)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *def
	return &cp, nil
}

func (r *memoryRepository) GetDefinitions(_ context.Context, userID string) ([]*entities.BottlingMaterialDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []*entities.BottlingMaterialDefinition
	for _, def := range r.defs {
		if def.UserID.String() == userID {
			cp := *def
			res = append(res, &cp)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}
