package model

import (
	"time"

	"github.com/google/uuid"
)

// InsightLog records every call made to the text-generation collaborator.
// Ids are generated in Go so the same schema works on sqlite and postgres.
type InsightLog struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	EquipmentId   string    `gorm:"type:varchar(64);not null;index"`
	EquipmentType string    `gorm:"type:varchar(16);not null"`
	Query         string    `gorm:"type:text;not null"`
	Response      string    `gorm:"type:text;not null"`
	Outcome       string    `gorm:"type:varchar(16);not null;index"`
	LatencyMs     int64     `gorm:"not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index"`
}

func (InsightLog) TableName() string {
	return "insight_logs"
}
