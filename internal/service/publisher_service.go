package service

import (
	"context"
	"encoding/json"

	"ai-qa-agent-be/internal/dto"
	"ai-qa-agent-be/internal/entity"
	"ai-qa-agent-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// DispatchResult reports how much of a chunk sequence actually reached the
// queue. Queued < Total after a partial failure; nothing is rolled back, the
// caller reprocesses the whole document and idempotent upserts absorb the
// duplicates.
type DispatchResult struct {
	Queued int
	Total  int
}

type IPublisherService interface {
	DispatchChunks(ctx context.Context, chunks []*entity.Chunk) (*DispatchResult, error)
}

type publisherService struct {
	publisher message.Publisher
	topicName string
	batchSize int
	log       logger.ILogger
}

func NewPublisherService(publisher message.Publisher, topicName string, batchSize int, log logger.ILogger) IPublisherService {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &publisherService{
		publisher: publisher,
		topicName: topicName,
		batchSize: batchSize,
		log:       log,
	}
}

// DispatchChunks fans one chunk sequence out to the queue, one message per
// chunk, sent in batches. A failed batch is logged and skipped; later batches
// are still attempted so a transient error does not discard the whole tail.
func (ps *publisherService) DispatchChunks(ctx context.Context, chunks []*entity.Chunk) (*DispatchResult, error) {
	result := &DispatchResult{Total: len(chunks)}

	for start := 0; start < len(chunks); start += ps.batchSize {
		end := start + ps.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		batch := make([]*message.Message, 0, end-start)
		for _, chunk := range chunks[start:end] {
			payload, err := json.Marshal(dto.ChunkMessage{
				Chunk:       chunk.Text,
				DocumentKey: chunk.DocumentKey,
				ChunkIndex:  chunk.SequenceIndex,
				TotalChunks: chunk.TotalChunks,
			})
			if err != nil {
				ps.log.Error("PublisherService", "Failed to marshal chunk message", map[string]interface{}{
					"documentKey": chunk.DocumentKey,
					"chunkIndex":  chunk.SequenceIndex,
					"error":       err.Error(),
				})
				continue
			}
			batch = append(batch, message.NewMessage(watermill.NewUUID(), payload))
		}

		if len(batch) == 0 {
			continue
		}

		if err := ps.publisher.Publish(ps.topicName, batch...); err != nil {
			ps.log.Error("PublisherService", "Failed to publish chunk batch", map[string]interface{}{
				"topic":      ps.topicName,
				"batchStart": start,
				"batchSize":  len(batch),
				"error":      err.Error(),
			})
			continue
		}
		result.Queued += len(batch)
	}

	return result, nil
}
