package specification

import "gorm.io/gorm"

// Specification narrows, orders or pages a gorm query.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

// Apply folds specs over db in order.
func Apply(db *gorm.DB, specs ...Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}
