package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-qa-agent-be/internal/apperr"
	"ai-qa-agent-be/internal/dto"
	"ai-qa-agent-be/internal/entity"
	"ai-qa-agent-be/internal/pkg/logger"
	"ai-qa-agent-be/internal/repository/contract"
	"ai-qa-agent-be/pkg/embedding"
	"ai-qa-agent-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// EventPublisher is the optional notification bus. A nil publisher disables
// events without touching the processing path.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type ConsumerConfig struct {
	Topic           string
	DeadLetterTopic string
	// MaxReceiveCount is the total number of deliveries before a message is
	// dead-lettered, first attempt included.
	MaxReceiveCount int
}

type IConsumerService interface {
	// Consume starts the processing loop and returns once it is running.
	Consume(ctx context.Context) error
	Close() error
}

type consumerService struct {
	router            *message.Router
	subscriber        message.Subscriber
	cfg               ConsumerConfig
	embeddingProvider embedding.EmbeddingProvider
	vectorRepo        contract.VectorRepository
	eventPublisher    EventPublisher
	log               logger.ILogger
}

// NewConsumerService wires the chunk worker: bounded retry around the
// handler, and a poison-queue fallback that moves a message to the
// dead-letter topic once its receive count is exhausted.
func NewConsumerService(
	subscriber message.Subscriber,
	dlqPublisher message.Publisher,
	cfg ConsumerConfig,
	embeddingProvider embedding.EmbeddingProvider,
	vectorRepo contract.VectorRepository,
	eventPublisher EventPublisher,
	log logger.ILogger,
) (IConsumerService, error) {
	wmLogger := watermill.NopLogger{}

	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		return nil, err
	}

	cs := &consumerService{
		router:            router,
		subscriber:        subscriber,
		cfg:               cfg,
		embeddingProvider: embeddingProvider,
		vectorRepo:        vectorRepo,
		eventPublisher:    eventPublisher,
		log:               log,
	}

	poison, err := middleware.PoisonQueue(dlqPublisher, cfg.DeadLetterTopic)
	if err != nil {
		return nil, err
	}

	maxRetries := cfg.MaxReceiveCount - 1
	if maxRetries < 0 {
		maxRetries = 0
	}

	// PoisonQueue wraps Retry, so it only sees the error after every
	// redelivery attempt has been spent.
	router.AddMiddleware(poison)
	router.AddMiddleware(middleware.Retry{
		MaxRetries:      maxRetries,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
		Multiplier:      2,
		Logger:          wmLogger,
	}.Middleware)

	router.AddNoPublisherHandler(
		"process_document_chunk",
		cfg.Topic,
		subscriber,
		cs.processMessage,
	)

	return cs, nil
}

func (cs *consumerService) Consume(ctx context.Context) error {
	go func() {
		if err := cs.router.Run(ctx); err != nil {
			cs.log.Error("ConsumerService", "Router stopped", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	select {
	case <-cs.router.Running():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (cs *consumerService) Close() error {
	return cs.router.Close()
}

func (cs *consumerService) processMessage(msg *message.Message) error {
	ctx := msg.Context()

	var payload dto.ChunkMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return apperr.MalformedMessage("chunk message is not valid JSON", err)
	}
	if payload.DocumentKey == "" {
		return apperr.MalformedMessage("chunk message is missing documentKey", nil)
	}

	res, err := cs.embeddingProvider.Generate(payload.Chunk, embedding.TaskRetrievalDocument)
	if err != nil {
		cs.log.Error("ConsumerService", "Embedding generation failed", map[string]interface{}{
			"documentKey": payload.DocumentKey,
			"chunkIndex":  payload.ChunkIndex,
			"error":       err.Error(),
		})
		return apperr.Upstream("embedding generation failed", err)
	}
	if len(res.Embedding.Values) == 0 {
		return apperr.Upstream("embedding provider returned an empty vector", nil)
	}

	record := entity.NewVectorRecord(&entity.Chunk{
		Text:          payload.Chunk,
		SequenceIndex: payload.ChunkIndex,
		TotalChunks:   payload.TotalChunks,
		DocumentKey:   payload.DocumentKey,
	}, res.Embedding.Values)

	if err := cs.vectorRepo.Upsert(ctx, []*entity.VectorRecord{record}); err != nil {
		cs.log.Error("ConsumerService", "Vector upsert failed", map[string]interface{}{
			"vectorId": record.Id,
			"error":    err.Error(),
		})
		return apperr.Upstream("vector upsert failed", err)
	}

	cs.log.Info("ConsumerService", "Chunk indexed", map[string]interface{}{
		"vectorId":    record.Id,
		"documentKey": payload.DocumentKey,
		"chunkIndex":  payload.ChunkIndex,
		"totalChunks": payload.TotalChunks,
	})

	if cs.eventPublisher != nil {
		if err := cs.eventPublisher.Publish(ctx, events.ChunkIndexed(payload.DocumentKey, payload.ChunkIndex, payload.TotalChunks)); err != nil {
			cs.log.Warn("ConsumerService", "Failed to publish chunk indexed event", map[string]interface{}{
				"vectorId": record.Id,
				"error":    err.Error(),
			})
		}
	}

	return nil
}
