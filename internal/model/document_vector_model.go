package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// DocumentVector is one indexed chunk embedding. The primary key is the
// deterministic "documentKey-chunkIndex" string, so reprocessing a chunk
// overwrites the row instead of duplicating it.
type DocumentVector struct {
	Id          string          `gorm:"type:text;primaryKey"`
	DocumentKey string          `gorm:"type:text;not null;index"`
	ChunkIndex  int             `gorm:"not null"`
	TotalChunks int             `gorm:"not null"`
	Content     string          `gorm:"type:text"`
	Embedding   pgvector.Vector `gorm:"type:vector(1536)"` // text-embedding-3-small uses 1536 dimensions
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

func (DocumentVector) TableName() string {
	return "document_vectors"
}
