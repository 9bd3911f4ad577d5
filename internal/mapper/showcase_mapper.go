package mapper

import (
	"en-garde-armory-be/internal/dto"
	"en-garde-armory-be/internal/entity"
)

type ShowcaseMapper struct{}

func NewShowcaseMapper() *ShowcaseMapper {
	return &ShowcaseMapper{}
}

func (m *ShowcaseMapper) EquipmentToResponse(eq entity.Equipment, variant entity.ModelVariant) dto.EquipmentResponse {
	return dto.EquipmentResponse{
		Id:               eq.Id,
		Type:             string(eq.Type),
		Name:             eq.Name,
		ShortDescription: eq.ShortDescription,
		BaseStats:        eq.BaseStats,
		Variant:          variant,
	}
}

func (m *ShowcaseMapper) ViewToResponse(v *entity.ViewState, eq entity.Equipment, variant entity.ModelVariant) *dto.ViewResponse {
	if v == nil {
		return nil
	}

	return &dto.ViewResponse{
		SessionId:           v.SessionId,
		SelectedId:          v.SelectedId,
		InsightText:         v.InsightText,
		InsightLoading:      v.InsightLoading,
		InsightPanelVisible: v.InsightPanelVisible,
		AutoRotate:          v.AutoRotate(),
		InsightReady:        v.InsightReady(),
		Equipment:           m.EquipmentToResponse(eq, variant),
		UpdatedAt:           v.UpdatedAt,
	}
}

func (m *ShowcaseMapper) InsightLogsToHistory(logs []*entity.InsightLog) []*dto.InsightHistoryResponse {
	res := make([]*dto.InsightHistoryResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, &dto.InsightHistoryResponse{
			Id:          l.Id,
			EquipmentId: l.EquipmentId,
			Query:       l.Query,
			Response:    l.Response,
			Outcome:     string(l.Outcome),
			LatencyMs:   l.LatencyMs,
			CreatedAt:   l.CreatedAt,
		})
	}
	return res
}
