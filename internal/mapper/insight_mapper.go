package mapper

import (
	"en-garde-armory-be/internal/entity"
	"en-garde-armory-be/internal/model"
)

type InsightMapper struct{}

func NewInsightMapper() *InsightMapper {
	return &InsightMapper{}
}

func (m *InsightMapper) InsightLogToEntity(l *model.InsightLog) *entity.InsightLog {
	if l == nil {
		return nil
	}

	return &entity.InsightLog{
		Id:            l.Id,
		EquipmentId:   l.EquipmentId,
		EquipmentType: entity.EquipmentType(l.EquipmentType),
		Query:         l.Query,
		Response:      l.Response,
		Outcome:       entity.InsightOutcome(l.Outcome),
		LatencyMs:     l.LatencyMs,
		CreatedAt:     l.CreatedAt,
	}
}

func (m *InsightMapper) InsightLogToModel(l *entity.InsightLog) *model.InsightLog {
	if l == nil {
		return nil
	}

	return &model.InsightLog{
		Id:            l.Id,
		EquipmentId:   l.EquipmentId,
		EquipmentType: string(l.EquipmentType),
		Query:         l.Query,
		Response:      l.Response,
		Outcome:       string(l.Outcome),
		LatencyMs:     l.LatencyMs,
		CreatedAt:     l.CreatedAt,
	}
}

func (m *InsightMapper) InsightLogsToEntities(logs []*model.InsightLog) []*entity.InsightLog {
	out := make([]*entity.InsightLog, 0, len(logs))
	for _, l := range logs {
		out = append(out, m.InsightLogToEntity(l))
	}
	return out
}
