package memory

import (
	"errors"
	"fmt"
	"os"

	"en-garde-armory-be/internal/entity"
	"en-garde-armory-be/internal/repository/contract"

	"gopkg.in/yaml.v3"
)

var ErrEmptyCatalog = errors.New("catalog has no equipment")

type CatalogRepository struct {
	items []entity.Equipment
	index map[string]int
}

var _ contract.CatalogRepository = (*CatalogRepository)(nil)

// NewCatalogRepository validates items and freezes a private copy of them.
func NewCatalogRepository(items []entity.Equipment) (*CatalogRepository, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}

	frozen := make([]entity.Equipment, len(items))
	copy(frozen, items)

	index := make(map[string]int, len(frozen))
	for i, eq := range frozen {
		if eq.Id == "" {
			return nil, fmt.Errorf("catalog entry %d: missing id", i)
		}
		if _, dup := index[eq.Id]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate id %q", i, eq.Id)
		}
		if !entity.ValidEquipmentTypes[eq.Type] {
			return nil, fmt.Errorf("catalog entry %q: unknown equipment type %q", eq.Id, eq.Type)
		}
		if _, ok := entity.ModelVariants[eq.Type]; !ok {
			return nil, fmt.Errorf("catalog entry %q: no model variant for type %q", eq.Id, eq.Type)
		}
		index[eq.Id] = i
	}

	return &CatalogRepository{items: frozen, index: index}, nil
}

type catalogFile struct {
	Equipment []entity.Equipment `yaml:"equipment"`
}

// LoadCatalogFile reads a YAML catalog of the form:
//
//	equipment:
//	  - id: foil-01
//	    type: FOIL
//	    name: ...
//	    shortDescription: ...
//	    baseStats: {weight: ..., flexibility: ..., targetArea: ...}
func LoadCatalogFile(path string) (*CatalogRepository, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}

	return NewCatalogRepository(file.Equipment)
}

func (r *CatalogRepository) List() []entity.Equipment {
	out := make([]entity.Equipment, len(r.items))
	copy(out, r.items)
	return out
}

func (r *CatalogRepository) Find(id string) (entity.Equipment, bool) {
	i, ok := r.index[id]
	if !ok {
		return entity.Equipment{}, false
	}
	return r.items[i], true
}

func (r *CatalogRepository) First() entity.Equipment {
	return r.items[0]
}

func (r *CatalogRepository) Variant(t entity.EquipmentType) (entity.ModelVariant, bool) {
	v, ok := entity.ModelVariants[t]
	return v, ok
}
