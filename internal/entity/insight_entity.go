package entity

import (
	"time"

	"github.com/google/uuid"
)

type InsightOutcome string

const (
	InsightOutcomeSuccess InsightOutcome = "success"
	InsightOutcomeEmpty   InsightOutcome = "empty"
	InsightOutcomeFailed  InsightOutcome = "failed"
)

var ValidInsightOutcomes = map[InsightOutcome]bool{
	InsightOutcomeSuccess: true,
	InsightOutcomeEmpty:   true,
	InsightOutcomeFailed:  true,
}

type InsightLog struct {
	Id            uuid.UUID
	EquipmentId   string
	EquipmentType EquipmentType
	Query         string
	Response      string
	Outcome       InsightOutcome
	LatencyMs     int64
	CreatedAt     time.Time
}
