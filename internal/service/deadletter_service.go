package service

import (
	"context"

	"ai-qa-agent-be/internal/pkg/logger"
	"ai-qa-agent-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

type IDeadLetterService interface {
	// Consume drains the dead-letter topic, recording every poisoned chunk.
	Consume(ctx context.Context) error
}

type deadLetterService struct {
	subscriber     message.Subscriber
	topicName      string
	eventPublisher EventPublisher
	log            logger.ILogger
}

// NewDeadLetterService observes messages that exhausted their redeliveries.
// Dead-lettered chunks are logged and announced on the event bus; they are
// never re-driven automatically, an operator reprocesses the document
// instead.
func NewDeadLetterService(
	subscriber message.Subscriber,
	topicName string,
	eventPublisher EventPublisher,
	log logger.ILogger,
) IDeadLetterService {
	return &deadLetterService{
		subscriber:     subscriber,
		topicName:      topicName,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (ds *deadLetterService) Consume(ctx context.Context) error {
	messages, err := ds.subscriber.Subscribe(ctx, ds.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ds.record(ctx, msg)
			msg.Ack()
		}
	}()

	return nil
}

func (ds *deadLetterService) record(ctx context.Context, msg *message.Message) {
	reason := msg.Metadata.Get(middleware.ReasonForPoisonedKey)

	ds.log.Error("DeadLetterService", "Chunk moved to dead-letter queue", map[string]interface{}{
		"messageId": msg.UUID,
		"reason":    reason,
		"payload":   string(msg.Payload),
	})

	if ds.eventPublisher != nil {
		if err := ds.eventPublisher.Publish(ctx, events.ChunkDeadLettered(reason, string(msg.Payload))); err != nil {
			ds.log.Warn("DeadLetterService", "Failed to publish dead-letter event", map[string]interface{}{
				"messageId": msg.UUID,
				"error":     err.Error(),
			})
		}
	}
}
