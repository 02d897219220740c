package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-qa-agent-be/internal/config"
	"ai-qa-agent-be/internal/controller"
	"ai-qa-agent-be/internal/pkg/logger"
	"ai-qa-agent-be/internal/repository/contract"
	"ai-qa-agent-be/internal/repository/implementation"
	"ai-qa-agent-be/internal/repository/memory"
	redisrepo "ai-qa-agent-be/internal/repository/redis"
	"ai-qa-agent-be/internal/service"
	"ai-qa-agent-be/pkg/chunker"
	"ai-qa-agent-be/pkg/embedding"
	"ai-qa-agent-be/pkg/llm/factory"
	"ai-qa-agent-be/pkg/objectstore"
	"ai-qa-agent-be/pkg/secrets"

	pktNats "ai-qa-agent-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DocumentController controller.IDocumentController
	ChatController     controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService   service.IConsumerService
	DeadLetterService service.IDeadLetterService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	ctx := context.Background()

	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	secretProvider := secrets.NewCachedProvider(secrets.NewEnvProvider())

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		apiKey, err := secretProvider.Get(ctx, cfg.Ai.OpenAIKeyName)
		if err != nil {
			log.Fatalf("[FATAL] Failed to resolve OpenAI API key %q: %v", cfg.Ai.OpenAIKeyName, err)
		}
		embeddingProvider = embedding.NewOpenAIProvider(apiKey, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	}

	var completionKey string
	if cfg.Ai.LLMProvider == "openai" {
		key, err := secretProvider.Get(ctx, cfg.Ai.OpenAIKeyName)
		if err != nil {
			log.Fatalf("[FATAL] Failed to resolve OpenAI API key %q: %v", cfg.Ai.OpenAIKeyName, err)
		}
		completionKey = key
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.CompletionModel,
		cfg.Ai.OllamaBaseURL,
		completionKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.CompletionModel)

	// 4. Infrastructure
	var eventPublisher service.EventPublisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
	}

	sessionRepo := newSessionRepository(cfg)
	vectorRepo := implementation.NewDocumentVectorRepository(db)

	documentStore := objectstore.NewFSStore(cfg.App.DocumentDir)
	splitter := chunker.New(chunker.Config{
		ChunkSize: cfg.Pipeline.ChunkSize,
		Overlap:   cfg.Pipeline.ChunkOverlap,
	})

	// 5. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Pipeline.ChunkTopic, cfg.Pipeline.BatchSize, sysLogger)

	consumerService, err := service.NewConsumerService(pubSub, pubSub, service.ConsumerConfig{
		Topic:           cfg.Pipeline.ChunkTopic,
		DeadLetterTopic: cfg.Pipeline.DeadLetterTopic,
		MaxReceiveCount: cfg.Pipeline.MaxReceiveCount,
	}, embeddingProvider, vectorRepo, eventPublisher, sysLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Consumer Service: %v", err)
	}

	deadLetterService := service.NewDeadLetterService(pubSub, cfg.Pipeline.DeadLetterTopic, eventPublisher, sysLogger)

	documentService := service.NewDocumentService(documentStore, splitter, publisherService, eventPublisher, sysLogger)
	askService := service.NewAskService(embeddingProvider, vectorRepo, sessionRepo, llmProvider, cfg.Pipeline.TopK, sysLogger)
	sessionService := service.NewSessionService(sessionRepo)

	// 6. Controllers
	return &Container{
		DocumentController: controller.NewDocumentController(documentService),
		ChatController:     controller.NewChatController(askService, sessionService),
		ConsumerService:    consumerService,
		DeadLetterService:  deadLetterService,
		Logger:             sysLogger,
	}
}

// newSessionRepository picks the session backend. Redis is preferred; if it
// is unreachable at startup the in-memory store keeps a single node usable.
func newSessionRepository(cfg *config.Config) contract.SessionRepository {
	if cfg.Session.Backend != "redis" {
		log.Println("[INFO] Using Session Backend: MEMORY")
		return memory.NewSessionRepository(cfg.Session.Retention)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Invalid REDIS_URL %q, falling back to in-memory sessions: %v", cfg.App.RedisURL, err)
		return memory.NewSessionRepository(cfg.Session.Retention)
	}

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("[WARN] Redis unreachable, falling back to in-memory sessions: %v", err)
		return memory.NewSessionRepository(cfg.Session.Retention)
	}

	log.Println("[INFO] Using Session Backend: REDIS")
	return redisrepo.NewSessionRepository(client, cfg.Session.Retention)
}
