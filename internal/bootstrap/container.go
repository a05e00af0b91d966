package bootstrap

import (
	"context"
	"fmt"
	"time"

	"food-consult-bot/internal/chat"
	"food-consult-bot/internal/config"
	"food-consult-bot/internal/controller"
	"food-consult-bot/internal/pkg/logger"
	"food-consult-bot/internal/repository/memory"
	"food-consult-bot/internal/repository/unitofwork"
	"food-consult-bot/internal/service"
	"food-consult-bot/pkg/llm/factory"
	"food-consult-bot/pkg/recipe"

	pktNats "food-consult-bot/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	SessionController controller.ISessionController
	MasterController  controller.IMasterController
	HistoryController controller.IHistoryController

	// Core
	Sessions      *memory.SessionRepository
	MasterService service.IMasterService
	Flow          *service.FlowService
	Dispatcher    *chat.Dispatcher

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	return NewContainerWithLogger(db, cfg, logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production"))
}

// NewContainerWithLogger lets a caller own its log sink, e.g. the terminal
// front end keeps logs off the screen.
func NewContainerWithLogger(db *gorm.DB, cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)

	c := &Container{Logger: sysLogger}

	// 2. External services
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Keys.GoogleGemini,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		return nil, fmt.Errorf("init llm provider: %w", err)
	}
	sysLogger.Info("BOOTSTRAP", "Using LLM provider", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	var searcher recipe.Searcher
	if cfg.Keys.RecipeSearchKey != "" && cfg.Keys.RecipeSearchCX != "" {
		searcher = recipe.NewGoogleSearcher(cfg.Keys.RecipeSearchURL, cfg.Keys.RecipeSearchKey, cfg.Keys.RecipeSearchCX)
	} else {
		sysLogger.Warn("BOOTSTRAP", "Recipe search is not configured, recipes come from the model only", nil)
	}

	// 3. Infrastructure
	var sink service.EventSink
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, cfg.Keys.EventsSubjectRoot)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS, domain events disabled", map[string]interface{}{"error": err.Error()})
		} else {
			sink = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	var recipeCache recipe.Cache
	if cfg.App.RedisURL != "" {
		if rdb, err := connectRedis(cfg.App.RedisURL); err != nil {
			sysLogger.Warn("BOOTSTRAP", "Redis unavailable, recipe cache disabled", map[string]interface{}{"error": err.Error()})
		} else {
			recipeCache = recipe.NewRedisCache(rdb, cfg.Keys.RecipeCacheTTL)
			c.closers = append(c.closers, func() { rdb.Close() })
		}
	}

	// 4. Services
	c.Sessions = memory.NewSessionRepository(cfg.Flow.MaxSessions, cfg.Flow.SessionTTL)
	c.MasterService = service.NewMasterService(uowFactory, sysLogger)
	catalogService := service.NewCatalogService(uowFactory, cfg.Flow.ExternalCallTimeout)
	suggestionService := service.NewSuggestionService(llmProvider, searcher, cfg.Flow.ExternalCallTimeout)
	publisherService := service.NewPublisherService(sink, sysLogger)
	selectionService := service.NewSelectionService(catalogService, suggestionService, c.MasterService, publisherService, sysLogger)
	recipeService := service.NewRecipeService(suggestionService, recipeCache, sysLogger)
	historyService := service.NewHistoryService(catalogService, c.MasterService, sysLogger)

	c.Flow = service.NewFlowService(
		c.Sessions,
		selectionService,
		recipeService,
		historyService,
		c.MasterService,
		sysLogger,
		service.FlowConfig{PromptExpiry: cfg.Flow.PromptExpiry},
	)

	// 5. Event stream
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { pubSub.Close() })
	c.Dispatcher = chat.NewDispatcher(pubSub, chat.DefaultTopic, c.Flow, sysLogger)

	// 6. Controllers
	c.SessionController = controller.NewSessionController(c.Sessions)
	c.MasterController = controller.NewMasterController(c.MasterService)
	c.HistoryController = controller.NewHistoryController(historyService, c.MasterService)

	return c, nil
}

func connectRedis(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// Close waits for in-flight chat tasks, then releases connections in reverse order.
func (c *Container) Close() {
	if c.Dispatcher != nil {
		c.Dispatcher.Wait()
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.Logger.Sync()
}
