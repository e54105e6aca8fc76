package entity

import (
	"time"

	"github.com/google/uuid"
)

type PolicyEmbedding struct {
	Id             uuid.UUID
	Document       string
	EmbeddingValue []float32
	PolicyId       uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
