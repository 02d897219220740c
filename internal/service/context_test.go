package service

import (
	"testing"

	"ai-qa-agent-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func match(text string) *entity.VectorMatch {
	return &entity.VectorMatch{
		Record: entity.VectorRecord{Metadata: entity.VectorMetadata{Text: text}},
	}
}

func TestAssembleContext(t *testing.T) {
	got := AssembleContext([]*entity.VectorMatch{match("First"), match("Second"), match("")})
	assert.Equal(t, "First\n\nSecond", got)
}

func TestAssembleContextEmpty(t *testing.T) {
	assert.Equal(t, "", AssembleContext(nil))
	assert.Equal(t, "", AssembleContext([]*entity.VectorMatch{}))
	assert.Equal(t, "", AssembleContext([]*entity.VectorMatch{match("")}))
}
