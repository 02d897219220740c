package entity

// Chunk is a bounded slice of a document's text, the unit of embedding and
// indexing. Immutable once produced by the chunker; ownership moves to the
// dispatcher and then to exactly one worker invocation at a time
// (at-least-once, not exactly-once).
type Chunk struct {
	Text          string
	SequenceIndex int
	TotalChunks   int
	DocumentKey   string
}
