package contract

import "en-garde-armory-be/internal/entity"

// CatalogRepository is read-only: the catalog is fixed once the process has started.
type CatalogRepository interface {
	List() []entity.Equipment
	Find(id string) (entity.Equipment, bool)
	First() entity.Equipment
	Variant(t entity.EquipmentType) (entity.ModelVariant, bool)
}
