package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"en-garde-armory-be/internal/constant"
	"en-garde-armory-be/internal/entity"
	"en-garde-armory-be/internal/pkg/logger"
	"en-garde-armory-be/internal/repository/contract"
	"en-garde-armory-be/internal/repository/specification"
	"en-garde-armory-be/pkg/llm"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 50
)

type IInsightService interface {
	// RequestInsight always returns displayable text: the model's answer or one of the two fallbacks.
	RequestInsight(ctx context.Context, eq entity.Equipment, query string) (string, entity.InsightOutcome)
	// History returns one page of recorded calls, newest first, and the total matching count.
	History(ctx context.Context, q HistoryQuery) ([]*entity.InsightLog, int64, error)
}

// HistoryQuery selects insight logs for one item. An empty Outcome matches every outcome.
type HistoryQuery struct {
	EquipmentID string
	Outcome     entity.InsightOutcome
	Limit       int
}

func (q HistoryQuery) filters() []specification.Specification {
	specs := []specification.Specification{specification.ByEquipmentID{EquipmentID: q.EquipmentID}}
	if q.Outcome != "" {
		specs = append(specs, specification.ByOutcome{Outcome: q.Outcome})
	}
	return specs
}

type insightService struct {
	generator llm.LLMProvider
	logRepo   contract.InsightLogRepository
	timeout   time.Duration
	logger    logger.ILogger
	options   []llm.Option
}

// NewInsightService wires the text generator. logRepo may be nil, in which case calls are not recorded.
// opts are passed to every generator call.
func NewInsightService(generator llm.LLMProvider, logRepo contract.InsightLogRepository, timeout time.Duration, log logger.ILogger, opts ...llm.Option) IInsightService {
	return &insightService{
		generator: generator,
		logRepo:   logRepo,
		timeout:   timeout,
		logger:    log,
		options:   opts,
	}
}

// GenerationOptions turns configured sampling values into generator options; zero keeps the
// provider's default.
func GenerationOptions(temperature float64, maxTokens int) []llm.Option {
	var opts []llm.Option
	if temperature > 0 {
		opts = append(opts, llm.WithTemperature(temperature))
	}
	if maxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(maxTokens))
	}
	return opts
}

func BuildInsightPrompt(eq entity.Equipment, query string) string {
	return fmt.Sprintf(constant.InsightPromptTemplate,
		eq.Name,
		eq.Type,
		eq.BaseStats.Weight,
		eq.BaseStats.Flexibility,
		eq.BaseStats.TargetArea,
		query,
	)
}

func (s *insightService) RequestInsight(ctx context.Context, eq entity.Equipment, query string) (string, entity.InsightOutcome) {
	if strings.TrimSpace(query) == "" {
		query = constant.DefaultInsightQuery
	}

	ctx, span := otel.Tracer("insight").Start(ctx, "insight.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("equipment.id", eq.Id),
		attribute.String("equipment.type", string(eq.Type)),
	)

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := s.generate(callCtx, BuildInsightPrompt(eq, query))
	latency := time.Since(start)

	var outcome entity.InsightOutcome
	switch {
	case err != nil:
		s.logger.Error("InsightService", "Insight generation failed", map[string]interface{}{
			"equipment_id": eq.Id,
			"error":        err.Error(),
			"latency_ms":   latency.Milliseconds(),
		})
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		text, outcome = constant.InsightFallbackFailed, entity.InsightOutcomeFailed
	case text == "":
		s.logger.Warn("InsightService", "Insight generation returned no text", map[string]interface{}{
			"equipment_id": eq.Id,
		})
		text, outcome = constant.InsightFallbackEmpty, entity.InsightOutcomeEmpty
	default:
		outcome = entity.InsightOutcomeSuccess
	}

	span.SetAttributes(attribute.String("insight.outcome", string(outcome)))

	s.record(ctx, eq, query, text, outcome, latency)
	return text, outcome
}

// generate isolates the collaborator call so a panicking provider degrades into a failure outcome.
func (s *insightService) generate(ctx context.Context, prompt string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("text generator panicked: %v", r)
		}
	}()
	return s.generator.Generate(ctx, prompt, s.options...)
}

func (s *insightService) record(ctx context.Context, eq entity.Equipment, query, text string, outcome entity.InsightOutcome, latency time.Duration) {
	if s.logRepo == nil {
		return
	}

	// the request context may already be done (timeout); the log write gets its own budget
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	entry := &entity.InsightLog{
		Id:            uuid.New(),
		EquipmentId:   eq.Id,
		EquipmentType: eq.Type,
		Query:         query,
		Response:      text,
		Outcome:       outcome,
		LatencyMs:     latency.Milliseconds(),
		CreatedAt:     time.Now(),
	}
	if err := s.logRepo.Create(writeCtx, entry); err != nil {
		s.logger.Error("InsightService", "Failed to record insight log", map[string]interface{}{
			"equipment_id": eq.Id,
			"error":        err.Error(),
		})
	}
}

func (s *insightService) History(ctx context.Context, q HistoryQuery) ([]*entity.InsightLog, int64, error) {
	if s.logRepo == nil {
		return []*entity.InsightLog{}, 0, nil
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	filters := q.filters()
	logs, err := s.logRepo.FindAll(ctx, append(filters,
		specification.NewestFirst{},
		specification.Pagination{Limit: limit},
	)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load insight history: %w", err)
	}

	total, err := s.logRepo.Count(ctx, filters...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count insight history: %w", err)
	}
	return logs, total, nil
}
