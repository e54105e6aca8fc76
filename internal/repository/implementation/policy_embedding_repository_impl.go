package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"policy-matching-be/internal/entity"
	"policy-matching-be/internal/mapper"
	"policy-matching-be/internal/model"
	"policy-matching-be/internal/repository/contract"
	"policy-matching-be/internal/repository/specification"
)

type PolicyEmbeddingRepositoryImpl struct {
	db           *gorm.DB
	mapper       *mapper.PolicyEmbeddingMapper
	policyMapper *mapper.PolicyMapper
}

func NewPolicyEmbeddingRepository(db *gorm.DB) contract.PolicyEmbeddingRepository {
	return &PolicyEmbeddingRepositoryImpl{
		db:           db,
		mapper:       mapper.NewPolicyEmbeddingMapper(),
		policyMapper: mapper.NewPolicyMapper(),
	}
}

func (r *PolicyEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PolicyEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.PolicyEmbedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *PolicyEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.PolicyEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := make([]*model.PolicyEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.ToModel(e)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*embeddings[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *PolicyEmbeddingRepositoryImpl) DeleteByPolicyId(ctx context.Context, policyId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("policy_id = ?", policyId).Delete(&model.PolicyEmbedding{}).Error
}

func (r *PolicyEmbeddingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PolicyEmbedding, error) {
	var m model.PolicyEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PolicyEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.PolicyEmbedding{}).Count(&count).Error
	return count, err
}

// SearchSimilarPolicies joins policies to their embeddings and scores by
// cosine similarity. pgvector's <=> operator is cosine distance, so
// similarity = 1 - distance.
func (r *PolicyEmbeddingRepositoryImpl) SearchSimilarPolicies(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredPolicy, error) {
	if limit <= 0 {
		limit = 50
	}

	type result struct {
		model.Policy
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("policies").
		Select("policies.*, 1 - (policy_embeddings.embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN policy_embeddings ON policy_embeddings.policy_id = policies.id").
		Where("policies.deleted_at IS NULL").
		Where("policy_embeddings.deleted_at IS NULL").
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredPolicy, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredPolicy{
			Policy:     r.policyMapper.ToEntity(&res.Policy),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
