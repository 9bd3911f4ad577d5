package scope

import "gorm.io/gorm"

// OrderByCreatedDesc tie-breaks rows written in the same clock tick by id.
func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

