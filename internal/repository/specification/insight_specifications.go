package specification

import (
	"en-garde-armory-be/internal/entity"
	"en-garde-armory-be/internal/repository/scope"

	"gorm.io/gorm"
)

// ByEquipmentID filters insight logs for one catalog entry
type ByEquipmentID struct {
	EquipmentID string
}

func (s ByEquipmentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("equipment_id = ?", s.EquipmentID)
}

// ByOutcome filters insight logs by result kind
type ByOutcome struct {
	Outcome entity.InsightOutcome
}

func (s ByOutcome) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("outcome = ?", string(s.Outcome))
}

// NewestFirst orders insight logs by creation time, latest first
type NewestFirst struct{}

func (NewestFirst) Apply(db *gorm.DB) *gorm.DB {
	return db.Scopes(scope.OrderByCreatedDesc)
}
