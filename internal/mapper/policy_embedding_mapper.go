package mapper

import (
	"time"

	"github.com/pgvector/pgvector-go"

	"policy-matching-be/internal/entity"
	"policy-matching-be/internal/model"
)

type PolicyEmbeddingMapper struct{}

func NewPolicyEmbeddingMapper() *PolicyEmbeddingMapper {
	return &PolicyEmbeddingMapper{}
}

func (m *PolicyEmbeddingMapper) ToEntity(e *model.PolicyEmbedding) *entity.PolicyEmbedding {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.PolicyEmbedding{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		PolicyId:       e.PolicyId,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *PolicyEmbeddingMapper) ToModel(e *entity.PolicyEmbedding) *model.PolicyEmbedding {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.PolicyEmbedding{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		PolicyId:       e.PolicyId,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}
