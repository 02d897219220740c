package service

import (
	"context"
	"encoding/json"
	"testing"

	"ai-qa-agent-be/internal/dto"
	"ai-qa-agent-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeChunks(documentKey string, n int) []*entity.Chunk {
	chunks := make([]*entity.Chunk, n)
	for i := range chunks {
		chunks[i] = &entity.Chunk{
			Text:          "chunk text",
			SequenceIndex: i,
			TotalChunks:   n,
			DocumentKey:   documentKey,
		}
	}
	return chunks
}

func TestDispatchChunksBatches(t *testing.T) {
	publisher := &capturingPublisher{}
	svc := NewPublisherService(publisher, "PROCESS_DOCUMENT_CHUNK", 10, nopLogger{})

	result, err := svc.DispatchChunks(context.Background(), makeChunks("docs/a.txt", 25))
	require.NoError(t, err)
	assert.Equal(t, 25, result.Total)
	assert.Equal(t, 25, result.Queued)

	require.Len(t, publisher.calls, 3)
	assert.Len(t, publisher.calls[0], 10)
	assert.Len(t, publisher.calls[1], 10)
	assert.Len(t, publisher.calls[2], 5)

	// Indices are absolute and totalChunks is constant across every message.
	seen := map[int]bool{}
	for _, call := range publisher.calls {
		for _, msg := range call {
			var payload dto.ChunkMessage
			require.NoError(t, json.Unmarshal(msg.Payload, &payload))
			assert.Equal(t, "docs/a.txt", payload.DocumentKey)
			assert.Equal(t, 25, payload.TotalChunks)
			seen[payload.ChunkIndex] = true
		}
	}
	assert.Len(t, seen, 25)
}

func TestDispatchChunksPartialFailure(t *testing.T) {
	publisher := &capturingPublisher{failCalls: map[int]error{1: errBoom}}
	svc := NewPublisherService(publisher, "PROCESS_DOCUMENT_CHUNK", 10, nopLogger{})

	result, err := svc.DispatchChunks(context.Background(), makeChunks("docs/a.txt", 25))
	require.NoError(t, err)
	assert.Equal(t, 25, result.Total)
	assert.Equal(t, 15, result.Queued)

	// The failed batch does not stop the tail from being sent.
	require.Len(t, publisher.calls, 3)
}

func TestDispatchChunksEmpty(t *testing.T) {
	publisher := &capturingPublisher{}
	svc := NewPublisherService(publisher, "PROCESS_DOCUMENT_CHUNK", 10, nopLogger{})

	result, err := svc.DispatchChunks(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.Equal(t, 0, result.Queued)
	assert.Empty(t, publisher.calls)
}
