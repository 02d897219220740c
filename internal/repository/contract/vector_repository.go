package contract

import (
	"context"

	"ai-qa-agent-be/internal/entity"
)

// VectorRepository is the vector index client. Upsert is idempotent by
// record id (last write wins); Query is a top-K cosine similarity search
// restricted to one document so multi-document corpora never
// cross-contaminate answers.
type VectorRepository interface {
	Upsert(ctx context.Context, records []*entity.VectorRecord) error
	Query(ctx context.Context, vector []float32, topK int, documentKey string) ([]*entity.VectorMatch, error)
}
