package contract

import (
	"context"

	"github.com/google/uuid"

	"policy-matching-be/internal/entity"
	"policy-matching-be/internal/repository/specification"
)

// ScoredPolicy is a policy joined with the cosine similarity of its
// embedding to a query vector.
type ScoredPolicy struct {
	Policy     *entity.Policy
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type PolicyEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.PolicyEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.PolicyEmbedding) error
	DeleteByPolicyId(ctx context.Context, policyId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PolicyEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarPolicies runs a cosine search over policy embeddings and
	// returns the joined policy rows with their similarity scores.
	SearchSimilarPolicies(ctx context.Context, embedding []float32, limit int) ([]*ScoredPolicy, error)
}
