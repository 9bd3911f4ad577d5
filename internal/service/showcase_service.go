package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"en-garde-armory-be/internal/constant"
	"en-garde-armory-be/internal/dto"
	"en-garde-armory-be/internal/entity"
	"en-garde-armory-be/internal/mapper"
	"en-garde-armory-be/internal/pkg/logger"
	"en-garde-armory-be/internal/repository/contract"
	"en-garde-armory-be/pkg/events"
	"en-garde-armory-be/pkg/showcase/state"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrEquipmentNotFound = errors.New("equipment not found")
)

const (
	eventQueueSize      = 256
	eventPublishTimeout = 2 * time.Second
)

const (
	ViewReasonSelected        = "selected"
	ViewReasonPanelToggled    = "panel_toggled"
	ViewReasonInsightLoading  = "insight_loading"
	ViewReasonInsightComplete = "insight_completed"
	ViewReasonSessionEnded    = "session_ended"
)

type IShowcaseService interface {
	ListEquipment(ctx context.Context) []dto.EquipmentResponse
	GetEquipment(ctx context.Context, id string) (*dto.EquipmentResponse, error)
	InsightHistory(ctx context.Context, q HistoryQuery) (*dto.InsightHistoryPage, error)

	StartSession(ctx context.Context) (*dto.ViewResponse, error)
	GetView(ctx context.Context, sessionID string) (*dto.ViewResponse, error)
	EndSession(ctx context.Context, sessionID string) error

	Select(ctx context.Context, sessionID, equipmentID string) (*dto.ViewResponse, error)
	TogglePanel(ctx context.Context, sessionID string) (*dto.ViewResponse, error)
	// RequestInsight asks the fixed armorer question about the selected item. The returned view
	// is already loading; the answer arrives later on the session's stream.
	RequestInsight(ctx context.Context, sessionID string) (*dto.ViewResponse, error)
	AskInsight(ctx context.Context, sessionID, query string) (*dto.ViewResponse, error)

	// Wait blocks until every in-flight insight request has finished.
	Wait()
	// Close cancels in-flight insight requests, waits for them and flushes queued events.
	Close()
}

type showcaseService struct {
	catalog   contract.CatalogRepository
	sessions  contract.SessionRepository
	state     *state.Manager
	insights  IInsightService
	publisher IPublisherService
	events    *events.AsyncPublisher
	mapper    *mapper.ShowcaseMapper
	logger    logger.ILogger

	locks *keyedMutex

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewShowcaseService(
	catalog contract.CatalogRepository,
	sessions contract.SessionRepository,
	insights IInsightService,
	publisherService IPublisherService,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IShowcaseService {
	if eventPublisher == nil {
		eventPublisher = events.NopPublisher{}
	}
	baseCtx, cancel := context.WithCancel(context.Background())

	asyncEvents := events.NewAsyncPublisher(eventPublisher, eventQueueSize, eventPublishTimeout, func(e events.Event, err error) {
		log.Warn("ShowcaseService", "Failed to publish event", map[string]interface{}{
			"type":  e.EventType(),
			"error": err.Error(),
		})
	})

	return &showcaseService{
		catalog:   catalog,
		sessions:  sessions,
		state:     state.NewManager(catalog, log),
		insights:  insights,
		publisher: publisherService,
		events:    asyncEvents,
		mapper:    mapper.NewShowcaseMapper(),
		logger:    log,
		locks:     newKeyedMutex(),
		baseCtx:   baseCtx,
		cancel:    cancel,
	}
}

func (s *showcaseService) ListEquipment(ctx context.Context) []dto.EquipmentResponse {
	items := s.catalog.List()
	res := make([]dto.EquipmentResponse, 0, len(items))
	for _, eq := range items {
		res = append(res, s.equipmentResponse(eq))
	}
	return res
}

func (s *showcaseService) GetEquipment(ctx context.Context, id string) (*dto.EquipmentResponse, error) {
	eq, ok := s.catalog.Find(id)
	if !ok {
		return nil, ErrEquipmentNotFound
	}
	res := s.equipmentResponse(eq)
	return &res, nil
}

func (s *showcaseService) InsightHistory(ctx context.Context, q HistoryQuery) (*dto.InsightHistoryPage, error) {
	if _, ok := s.catalog.Find(q.EquipmentID); !ok {
		return nil, ErrEquipmentNotFound
	}

	logs, total, err := s.insights.History(ctx, q)
	if err != nil {
		return nil, err
	}
	return &dto.InsightHistoryPage{
		Items: s.mapper.InsightLogsToHistory(logs),
		Total: total,
	}, nil
}

func (s *showcaseService) StartSession(ctx context.Context) (*dto.ViewResponse, error) {
	view := s.state.NewViewState(uuid.NewString())
	if err := s.sessions.Save(ctx, view); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("ShowcaseService", "Session started", map[string]interface{}{
		"session_id":   view.SessionId,
		"equipment_id": view.SelectedId,
	})
	return s.viewResponse(view), nil
}

func (s *showcaseService) GetView(ctx context.Context, sessionID string) (*dto.ViewResponse, error) {
	view, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.viewResponse(view), nil
}

func (s *showcaseService) EndSession(ctx context.Context, sessionID string) error {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	if _, err := s.load(ctx, sessionID); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	s.notify(ctx, ViewReasonSessionEnded, &dto.ViewResponse{SessionId: sessionID})

	s.logger.Info("ShowcaseService", "Session ended", map[string]interface{}{"session_id": sessionID})
	return nil
}

func (s *showcaseService) Select(ctx context.Context, sessionID, equipmentID string) (*dto.ViewResponse, error) {
	res, err := s.mutate(ctx, sessionID, ViewReasonSelected, func(v *entity.ViewState) bool {
		s.state.Select(v, equipmentID)
		return true
	})
	if err != nil {
		return nil, err
	}

	s.emit(constant.EventEquipmentSelected, map[string]interface{}{
		"session_id":   sessionID,
		"equipment_id": res.SelectedId,
		"requested_id": equipmentID,
	})
	return res, nil
}

func (s *showcaseService) TogglePanel(ctx context.Context, sessionID string) (*dto.ViewResponse, error) {
	return s.mutate(ctx, sessionID, ViewReasonPanelToggled, func(v *entity.ViewState) bool {
		s.state.TogglePanel(v)
		return true
	})
}

func (s *showcaseService) RequestInsight(ctx context.Context, sessionID string) (*dto.ViewResponse, error) {
	return s.AskInsight(ctx, sessionID, constant.DefaultInsightQuery)
}

func (s *showcaseService) AskInsight(ctx context.Context, sessionID, query string) (*dto.ViewResponse, error) {
	var (
		ticket  entity.InsightTicket
		started bool
	)

	res, err := s.mutate(ctx, sessionID, ViewReasonInsightLoading, func(v *entity.ViewState) bool {
		ticket, started = s.state.BeginInsight(v, query)
		return started
	})
	if err != nil {
		return nil, err
	}
	if !started {
		s.logger.Debug("ShowcaseService", "Insight already loading, request ignored", map[string]interface{}{
			"session_id": sessionID,
		})
		return res, nil
	}

	s.emit(constant.EventInsightRequested, map[string]interface{}{
		"session_id":   sessionID,
		"equipment_id": ticket.Equipment.Id,
		"request_id":   ticket.RequestId,
	})

	s.wg.Add(1)
	go s.runInsight(sessionID, ticket)

	return res, nil
}

// runInsight performs the collaborator call outside any lock and applies the result afterwards.
func (s *showcaseService) runInsight(sessionID string, ticket entity.InsightTicket) {
	defer s.wg.Done()

	text, outcome := s.insights.RequestInsight(s.baseCtx, ticket.Equipment, ticket.Query)

	var completion state.Completion
	_, err := s.mutate(context.WithoutCancel(s.baseCtx), sessionID, ViewReasonInsightComplete, func(v *entity.ViewState) bool {
		completion = s.state.CompleteInsight(v, ticket, text)
		return completion != state.CompletionSuperseded
	})
	if err != nil {
		// the session ended or expired while the request was in flight
		s.logger.Info("ShowcaseService", "Insight finished for a closed session", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return
	}

	s.logger.Info("ShowcaseService", "Insight completed", map[string]interface{}{
		"session_id":   sessionID,
		"equipment_id": ticket.Equipment.Id,
		"request_id":   ticket.RequestId,
		"outcome":      string(outcome),
		"completion":   completion.String(),
	})
	s.emit(constant.EventInsightCompleted, map[string]interface{}{
		"session_id":   sessionID,
		"equipment_id": ticket.Equipment.Id,
		"outcome":      string(outcome),
		"completion":   completion.String(),
	})
}

func (s *showcaseService) Wait() {
	s.wg.Wait()
}

func (s *showcaseService) Close() {
	s.cancel()
	s.wg.Wait()
	s.events.Close()
}

// mutate runs fn on the stored view under the session lock. When fn reports a change the view
// is saved and pushed to the session's stream subscribers.
func (s *showcaseService) mutate(ctx context.Context, sessionID, reason string, fn func(v *entity.ViewState) bool) (*dto.ViewResponse, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	view, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !fn(view) {
		return s.viewResponse(view), nil
	}

	if err := s.sessions.Save(ctx, view); err != nil {
		return nil, fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}

	res := s.viewResponse(view)
	s.notify(ctx, reason, res)
	return res, nil
}

func (s *showcaseService) load(ctx context.Context, sessionID string) (*entity.ViewState, error) {
	view, found, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if !found {
		return nil, ErrSessionNotFound
	}
	return view, nil
}

func (s *showcaseService) notify(ctx context.Context, reason string, view *dto.ViewResponse) {
	if s.publisher == nil {
		return
	}

	msg := dto.ViewUpdatedMessage{SessionId: view.SessionId, Reason: reason, View: view}
	if reason == ViewReasonSessionEnded {
		msg.View = nil
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("ShowcaseService", "Failed to encode view update", map[string]interface{}{"error": err.Error()})
		return
	}

	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.logger.Warn("ShowcaseService", "Failed to publish view update", map[string]interface{}{
			"session_id": view.SessionId,
			"error":      err.Error(),
		})
	}
}

// emit queues an external event; delivery happens off the request path.
func (s *showcaseService) emit(eventType string, data map[string]interface{}) {
	if err := s.events.Publish(s.baseCtx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("ShowcaseService", "Event dropped", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}

func (s *showcaseService) viewResponse(view *entity.ViewState) *dto.ViewResponse {
	eq := s.state.Active(view)
	variant, _ := s.catalog.Variant(eq.Type)
	return s.mapper.ViewToResponse(view, eq, variant)
}

func (s *showcaseService) equipmentResponse(eq entity.Equipment) dto.EquipmentResponse {
	variant, _ := s.catalog.Variant(eq.Type)
	return s.mapper.EquipmentToResponse(eq, variant)
}

// keyedMutex serializes work per key and forgets keys nobody holds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()

	return func() {
		m.Unlock()

		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
