package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DOCUMENT_QUEUED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used by all publishers.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Document lifecycle events emitted by the ingestion pipeline.

func DocumentQueued(documentKey string, totalChunks, queuedChunks int) Event {
	return BaseEvent{
		Type: "DOCUMENT_QUEUED",
		Data: map[string]interface{}{
			"document_key":  documentKey,
			"total_chunks":  totalChunks,
			"queued_chunks": queuedChunks,
		},
		OccurredAt: time.Now(),
	}
}

func ChunkIndexed(documentKey string, chunkIndex, totalChunks int) Event {
	return BaseEvent{
		Type: "CHUNK_INDEXED",
		Data: map[string]interface{}{
			"document_key": documentKey,
			"chunk_index":  chunkIndex,
			"total_chunks": totalChunks,
		},
		OccurredAt: time.Now(),
	}
}

func ChunkDeadLettered(reason string, payload string) Event {
	return BaseEvent{
		Type: "CHUNK_DEAD_LETTERED",
		Data: map[string]interface{}{
			"reason":  reason,
			"payload": payload,
		},
		OccurredAt: time.Now(),
	}
}
