package bootstrap

import (
	"context"
	"log"

	"policy-matching-be/internal/config"
	"policy-matching-be/internal/controller"
	"policy-matching-be/internal/pkg/logger"
	"policy-matching-be/internal/repository/memory"
	"policy-matching-be/internal/repository/redisstore"
	"policy-matching-be/internal/repository/unitofwork"
	"policy-matching-be/internal/service"
	"policy-matching-be/pkg/embedding"
	"policy-matching-be/pkg/extraction"
	"policy-matching-be/pkg/llm/factory"
	"policy-matching-be/pkg/matching"
	"policy-matching-be/pkg/retrieval"
	"policy-matching-be/pkg/store"

	pktNats "policy-matching-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	PolicyController controller.IPolicyController
	AuthController   controller.IAuthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Session storage. Redis keeps conversations alive across instances;
	// the in-memory store is the single-node fallback.
	var sessions store.SessionStore
	if cfg.App.SessionStore == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v. Falling back to in-memory sessions", err)
			sessions = memory.NewSessionStore()
		} else {
			sessions = redisstore.NewSessionStore(rdb)
		}
	} else {
		sessions = memory.NewSessionStore()
	}

	// Profile extraction: LLM first, keyword rules as fallback.
	extractor := extraction.NewChainedExtractor(
		extraction.NewLLMExtractor(llmProvider),
		extraction.NewKeywordExtractor(),
		sysLogger,
	)

	retriever := retrieval.NewRetriever(uowFactory, embeddingProvider, sysLogger)

	engine := matching.NewEngine(extractor, retriever, matching.DefaultCatalog(), sysLogger)

	// 3. Services
	publisherService := service.NewPublisherService(cfg.Keys.EmbedPolicyTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedPolicyTopic,
		uowFactory,
		embeddingProvider,
		sysLogger,
	)

	matchingService := service.NewMatchingService(engine, sessions, uowFactory, natsPub, sysLogger)
	policyService := service.NewPolicyService(uowFactory, publisherService, sysLogger)
	authService := service.NewAuthService(uowFactory)

	// 4. Controllers
	return &Container{
		ChatController:   controller.NewChatController(matchingService),
		PolicyController: controller.NewPolicyController(policyService),
		AuthController:   controller.NewAuthController(authService),

		ConsumerService: consumerService,
	}
}
