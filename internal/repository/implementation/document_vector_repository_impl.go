package implementation

import (
	"context"

	"ai-qa-agent-be/internal/entity"
	"ai-qa-agent-be/internal/model"
	"ai-qa-agent-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DocumentVectorRepositoryImpl struct {
	db *gorm.DB
}

func NewDocumentVectorRepository(db *gorm.DB) contract.VectorRepository {
	return &DocumentVectorRepositoryImpl{db: db}
}

// Upsert writes records with ON CONFLICT on the deterministic id, so
// redelivered chunks overwrite their earlier row (last write wins).
func (r *DocumentVectorRepositoryImpl) Upsert(ctx context.Context, records []*entity.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	models := make([]*model.DocumentVector, len(records))
	for i, rec := range records {
		models[i] = &model.DocumentVector{
			Id:          rec.Id,
			DocumentKey: rec.Metadata.Source,
			ChunkIndex:  rec.Metadata.ChunkIndex,
			TotalChunks: rec.Metadata.TotalChunks,
			Content:     rec.Metadata.Text,
			Embedding:   pgvector.NewVector(rec.Values),
		}
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"document_key", "chunk_index", "total_chunks", "content", "embedding", "updated_at",
		}),
	}).Create(&models).Error
}

// Query runs a cosine top-K search restricted to one document.
// Cosine distance in pgvector is 1 - cosine_similarity, so we compute
// 1 - (embedding <=> query_vector) as the similarity score.
func (r *DocumentVectorRepositoryImpl) Query(ctx context.Context, vector []float32, topK int, documentKey string) ([]*entity.VectorMatch, error) {
	if topK <= 0 {
		topK = 5
	}

	type result struct {
		model.DocumentVector
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(vector)

	err := r.db.WithContext(ctx).
		Table("document_vectors").
		Select("document_vectors.*, 1 - (embedding <=> ?) AS similarity", queryVector).
		Where("document_key = ?", documentKey).
		Order("similarity DESC").
		Limit(topK).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	matches := make([]*entity.VectorMatch, len(results))
	for i, res := range results {
		matches[i] = &entity.VectorMatch{
			Record: entity.VectorRecord{
				Id:     res.Id,
				Values: res.Embedding.Slice(),
				Metadata: entity.VectorMetadata{
					Text:        res.Content,
					Source:      res.DocumentKey,
					ChunkIndex:  res.ChunkIndex,
					TotalChunks: res.TotalChunks,
				},
			},
			Score: res.Similarity,
		}
	}
	return matches, nil
}
