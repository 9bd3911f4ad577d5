package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"en-garde-armory-be/internal/config"
	"en-garde-armory-be/internal/constant"
	"en-garde-armory-be/internal/controller"
	"en-garde-armory-be/internal/handler"
	"en-garde-armory-be/internal/pkg/logger"
	"en-garde-armory-be/internal/pkg/serverutils"
	"en-garde-armory-be/internal/repository/contract"
	"en-garde-armory-be/internal/repository/implementation"
	"en-garde-armory-be/internal/repository/memory"
	"en-garde-armory-be/internal/service"
	"en-garde-armory-be/internal/websocket"
	"en-garde-armory-be/pkg/events"
	"en-garde-armory-be/pkg/llm"
	"en-garde-armory-be/pkg/llm/factory"

	pktNats "en-garde-armory-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	CatalogController controller.ICatalogController
	SessionController controller.ISessionController
	StreamHandler     *handler.StreamHandler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	ShowcaseService service.IShowcaseService
	WebSocketHub    *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

// Dependencies are the infrastructure pieces the container is assembled from.
// NewContainer builds them from config; tests build them by hand.
type Dependencies struct {
	Config      *config.Config
	Logger      logger.ILogger
	HubLogger   logger.ILogger
	Catalog     contract.CatalogRepository
	Sessions    contract.SessionRepository
	InsightLogs contract.InsightLogRepository
	Generator   llm.LLMProvider
	Events      events.Publisher
	Redis       *redis.Client
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	var closers []func()

	catalog, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	sysLogger.Info("Bootstrap", "Catalog loaded", map[string]interface{}{
		"items": len(catalog.List()),
		"file":  cfg.Catalog.FilePath,
	})

	// 2. LLM Provider based on Config
	generator, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	if cfg.Ai.LLMProvider == "gemini" && cfg.Keys.GoogleGemini == "" {
		sysLogger.Warn("Bootstrap", "GOOGLE_GEMINI_API_KEY is not set, insights will show the link failure message", nil)
	}

	// 3. Infrastructure
	// Redis (optional): session store and websocket fan-out
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		rdb = newRedisClient(cfg.App.RedisURL)
		closers = append(closers, func() { _ = rdb.Close() })
	}

	var sessions contract.SessionRepository
	switch cfg.App.SessionStore {
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("SESSION_STORE=redis requires REDIS_URL")
		}
		sessions = implementation.NewRedisSessionRepository(rdb, cfg.App.SessionTTL)
	default:
		sessions = memory.NewSessionRepository(cfg.App.SessionTTL)
	}

	// NATS (optional): external event stream
	var eventPublisher events.Publisher = events.NopPublisher{}
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			eventPublisher = natsPub
			closers = append(closers, natsPub.Close)
		}
	}

	var insightLogs contract.InsightLogRepository
	if db != nil {
		insightLogs = implementation.NewInsightLogRepository(db)
	}

	c := Assemble(Dependencies{
		Config:      cfg,
		Logger:      sysLogger,
		HubLogger:   logger.NewIsolatedLogger("logs/stream.log"),
		Catalog:     catalog,
		Sessions:    sessions,
		InsightLogs: insightLogs,
		Generator:   generator,
		Events:      eventPublisher,
		Redis:       rdb,
	})
	c.closers = append(c.closers, closers...)
	return c, nil
}

// Assemble wires services, controllers and the stream pipeline from ready-made dependencies.
func Assemble(deps Dependencies) *Container {
	cfg := deps.Config
	if deps.HubLogger == nil {
		deps.HubLogger = deps.Logger
	}

	// Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)

	wsHub := websocket.NewHub(deps.Redis, deps.HubLogger)

	publisherService := service.NewPublisherService(cfg.Ai.InsightEventsTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.Ai.InsightEventsTopic, wsHub, deps.Logger)

	insightService := service.NewInsightService(deps.Generator, deps.InsightLogs, cfg.Ai.InsightTimeout, deps.Logger,
		service.GenerationOptions(cfg.Ai.Temperature, cfg.Ai.MaxTokens)...)
	showcaseService := service.NewShowcaseService(
		deps.Catalog,
		deps.Sessions,
		insightService,
		publisherService,
		deps.Events,
		deps.Logger,
	)

	tokens := serverutils.NewSessionTokens(cfg.App.SessionSecret, cfg.App.SessionTTL)

	return &Container{
		CatalogController: controller.NewCatalogController(showcaseService),
		SessionController: controller.NewSessionController(showcaseService, tokens),
		StreamHandler:     handler.NewStreamHandler(showcaseService, tokens, wsHub, deps.HubLogger),

		ConsumerService: consumerService,
		ShowcaseService: showcaseService,
		WebSocketHub:    wsHub,
		Logger:          deps.Logger,

		closers: []func(){
			showcaseService.Close,
			func() { _ = pubSub.Close() },
		},
	}
}

// Close stops in-flight insights first, then the bus and external connections.
func (c *Container) Close() {
	for _, closeFn := range c.closers {
		closeFn()
	}
	_ = c.Logger.Sync()
}

func loadCatalog(cfg config.CatalogConfig) (*memory.CatalogRepository, error) {
	if cfg.FilePath != "" {
		return memory.LoadCatalogFile(cfg.FilePath)
	}
	return memory.NewCatalogRepository(constant.EquipmentData)
}

func newRedisClient(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: url,
		}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	return rdb
}
