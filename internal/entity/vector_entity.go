package entity

import "fmt"

// VectorMetadata travels with every stored vector so a consumer can
// reconstruct provenance without consulting the dispatcher again.
type VectorMetadata struct {
	Text        string
	Source      string // document key
	ChunkIndex  int
	TotalChunks int
}

// VectorRecord is one (id, vector, metadata) triple in the index.
// Id = documentKey + "-" + chunkIndex, which makes upsert idempotent:
// reprocessing the same chunk overwrites instead of duplicating.
type VectorRecord struct {
	Id       string
	Values   []float32
	Metadata VectorMetadata
}

// VectorMatch is a query hit with its similarity score.
type VectorMatch struct {
	Record VectorRecord
	Score  float64
}

// VectorId builds the deterministic record id for a chunk.
func VectorId(documentKey string, chunkIndex int) string {
	return fmt.Sprintf("%s-%d", documentKey, chunkIndex)
}

// NewVectorRecord builds the record for a chunk and its embedding.
func NewVectorRecord(chunk *Chunk, values []float32) *VectorRecord {
	return &VectorRecord{
		Id:     VectorId(chunk.DocumentKey, chunk.SequenceIndex),
		Values: values,
		Metadata: VectorMetadata{
			Text:        chunk.Text,
			Source:      chunk.DocumentKey,
			ChunkIndex:  chunk.SequenceIndex,
			TotalChunks: chunk.TotalChunks,
		},
	}
}
