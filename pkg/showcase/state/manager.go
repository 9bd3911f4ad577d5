package state

import (
	"strings"
	"time"

	"en-garde-armory-be/internal/constant"
	"en-garde-armory-be/internal/entity"
	"en-garde-armory-be/internal/pkg/logger"
)

// Catalog is the read side of the equipment catalog the state manager resolves ids against.
type Catalog interface {
	Find(id string) (entity.Equipment, bool)
	First() entity.Equipment
}

// Completion describes what CompleteInsight did with a finished request.
type Completion int

const (
	// CompletionApplied: the text was stored and loading cleared.
	CompletionApplied Completion = iota
	// CompletionStale: the selection changed while in flight; loading cleared, text dropped.
	CompletionStale
	// CompletionSuperseded: a newer request owns the panel; nothing changed.
	CompletionSuperseded
)

func (c Completion) String() string {
	switch c {
	case CompletionApplied:
		return "applied"
	case CompletionStale:
		return "stale"
	default:
		return "superseded"
	}
}

// Manager handles view state transitions
type Manager struct {
	catalog Catalog
	logger  logger.ILogger
	now     func() time.Time
}

// NewManager creates a new state manager
func NewManager(catalog Catalog, log logger.ILogger) *Manager {
	return &Manager{
		catalog: catalog,
		logger:  log,
		now:     time.Now,
	}
}

// NewViewState returns the session-start state: first catalog entry, empty insight, panel hidden.
func (m *Manager) NewViewState(sessionID string) *entity.ViewState {
	now := m.now()
	return &entity.ViewState{
		SessionId:  sessionID,
		SelectedId: m.catalog.First().Id,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Active resolves the selected equipment, falling back to the first catalog entry.
func (m *Manager) Active(v *entity.ViewState) entity.Equipment {
	if eq, ok := m.catalog.Find(v.SelectedId); ok {
		return eq
	}
	return m.catalog.First()
}

// Select switches the active equipment and resets the insight panel. Unknown ids select the
// first catalog entry; the return value reports whether id itself was found.
func (m *Manager) Select(v *entity.ViewState, id string) bool {
	eq, found := m.catalog.Find(id)
	if !found {
		eq = m.catalog.First()
		m.logger.Warn("ViewState", "Unknown equipment id, falling back to first entry", map[string]interface{}{
			"session_id":   v.SessionId,
			"requested_id": id,
			"fallback_id":  eq.Id,
		})
	}

	v.SelectedId = eq.Id
	v.InsightText = ""
	v.InsightPanelVisible = false
	v.SelectionEpoch++
	v.UpdatedAt = m.now()

	m.logger.Debug("ViewState", "Selected equipment", map[string]interface{}{
		"session_id":   v.SessionId,
		"equipment_id": eq.Id,
		"epoch":        v.SelectionEpoch,
	})
	return found
}

// BeginInsight marks the panel as loading and returns the ticket the caller must hand back to
// CompleteInsight. A request while one is already loading in an open panel is a duplicate and
// returns ok=false without touching state.
func (m *Manager) BeginInsight(v *entity.ViewState, query string) (entity.InsightTicket, bool) {
	if v.InsightLoading && v.InsightPanelVisible {
		return entity.InsightTicket{}, false
	}

	if strings.TrimSpace(query) == "" {
		query = constant.DefaultInsightQuery
	}

	v.RequestSeq++
	v.PendingRequest = v.RequestSeq
	v.InsightLoading = true
	v.InsightPanelVisible = true
	v.UpdatedAt = m.now()

	return entity.InsightTicket{
		RequestId:      v.PendingRequest,
		SelectionEpoch: v.SelectionEpoch,
		Equipment:      m.Active(v),
		Query:          query,
	}, true
}

// CompleteInsight applies a finished request if it is still the one the view is waiting for.
func (m *Manager) CompleteInsight(v *entity.ViewState, ticket entity.InsightTicket, text string) Completion {
	if ticket.RequestId != v.PendingRequest {
		return CompletionSuperseded
	}

	v.PendingRequest = 0
	v.InsightLoading = false
	v.UpdatedAt = m.now()

	if ticket.SelectionEpoch != v.SelectionEpoch {
		m.logger.Info("ViewState", "Dropped insight for a previous selection", map[string]interface{}{
			"session_id":   v.SessionId,
			"equipment_id": ticket.Equipment.Id,
			"selected_id":  v.SelectedId,
		})
		return CompletionStale
	}

	v.InsightText = text
	return CompletionApplied
}

// TogglePanel flips panel visibility only.
func (m *Manager) TogglePanel(v *entity.ViewState) {
	v.InsightPanelVisible = !v.InsightPanelVisible
	v.UpdatedAt = m.now()
}
