package dto

// ProcessDocumentRequest starts asynchronous ingestion of an uploaded
// document.
type ProcessDocumentRequest struct {
	DocumentKey string `json:"documentKey" validate:"required,min=1"`
}

// ProcessDocumentResponse reports how far the fan-out got. QueuedChunks may
// be lower than TotalChunks after a partial batch-send failure; sends are not
// transactional and already-queued chunks are not rolled back.
type ProcessDocumentResponse struct {
	Message      string `json:"message"`
	Status       string `json:"status"`
	DocumentKey  string `json:"documentKey"`
	TotalChunks  int    `json:"totalChunks"`
	QueuedChunks int    `json:"queuedChunks"`
}

const StatusProcessing = "PROCESSING"

// ChunkMessage is the JSON wire format of one queued chunk. ChunkIndex is the
// absolute position in the original sequence, TotalChunks is constant across
// all messages of one document.
type ChunkMessage struct {
	Chunk       string `json:"chunk"`
	DocumentKey string `json:"documentKey"`
	ChunkIndex  int    `json:"chunkIndex"`
	TotalChunks int    `json:"totalChunks"`
}
