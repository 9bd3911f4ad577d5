package dto

import (
	"time"

	"en-garde-armory-be/internal/entity"

	"github.com/google/uuid"
)

type EquipmentResponse struct {
	Id               string              `json:"id"`
	Type             string              `json:"type"`
	Name             string              `json:"name"`
	ShortDescription string              `json:"shortDescription"`
	BaseStats        entity.BaseStats    `json:"baseStats"`
	Variant          entity.ModelVariant `json:"variant"`
}

// ViewResponse is the presentation view of one session's state. Request bookkeeping stays server-side.
type ViewResponse struct {
	SessionId           string            `json:"sessionId"`
	SelectedId          string            `json:"selectedId"`
	InsightText         string            `json:"insightText"`
	InsightLoading      bool              `json:"insightLoading"`
	InsightPanelVisible bool              `json:"insightPanelVisible"`
	AutoRotate          bool              `json:"autoRotate"`
	InsightReady        bool              `json:"insightReady"`
	Equipment           EquipmentResponse `json:"equipment"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

type StartSessionResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	View      *ViewResponse `json:"view"`
}

type SelectEquipmentRequest struct {
	EquipmentId string `json:"equipment_id" validate:"required,max=64"`
}

type AskInsightRequest struct {
	Query string `json:"query" validate:"required,max=500"`
}

type InsightHistoryResponse struct {
	Id          uuid.UUID `json:"id"`
	EquipmentId string    `json:"equipmentId"`
	Query       string    `json:"query"`
	Response    string    `json:"response"`
	Outcome     string    `json:"outcome"`
	LatencyMs   int64     `json:"latencyMs"`
	CreatedAt   time.Time `json:"createdAt"`
}

type InsightHistoryPage struct {
	Items []*InsightHistoryResponse `json:"items"`
	Total int64                     `json:"total"`
}

// ViewUpdatedMessage travels on the internal bus from the showcase service to the websocket hub.
type ViewUpdatedMessage struct {
	SessionId string        `json:"session_id"`
	Reason    string        `json:"reason"`
	View      *ViewResponse `json:"view"`
}

// StreamMessage is the frame written to websocket subscribers.
type StreamMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}
