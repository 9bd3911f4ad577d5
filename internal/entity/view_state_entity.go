package entity

import "time"

// ViewState is the per-session selection and insight panel record.
// SelectionEpoch, PendingRequest and RequestSeq detect stale insight responses; the
// presentation DTO never exposes them.
type ViewState struct {
	SessionId           string    `json:"session_id"`
	SelectedId          string    `json:"selected_id"`
	InsightText         string    `json:"insight_text"`
	InsightLoading      bool      `json:"insight_loading"`
	InsightPanelVisible bool      `json:"insight_panel_visible"`
	SelectionEpoch      uint64    `json:"selection_epoch"`
	PendingRequest      uint64    `json:"pending_request"`
	RequestSeq          uint64    `json:"request_seq"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// InsightTicket identifies one in-flight insight request and the selection it was issued for.
type InsightTicket struct {
	RequestId      uint64
	SelectionEpoch uint64
	Equipment      Equipment
	Query          string
}

// AutoRotate mirrors the viewer behaviour: the model spins only while the panel is closed.
func (v *ViewState) AutoRotate() bool {
	return !v.InsightPanelVisible
}

// InsightReady reports whether there is finished insight text to show in an open panel.
func (v *ViewState) InsightReady() bool {
	return v.InsightPanelVisible && v.InsightText != "" && !v.InsightLoading
}
