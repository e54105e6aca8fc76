package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"policy-matching-be/internal/entity"
	"policy-matching-be/internal/mapper"
	"policy-matching-be/internal/model"
	"policy-matching-be/internal/repository/contract"
	"policy-matching-be/internal/repository/specification"
)

type PolicyRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PolicyMapper
}

func NewPolicyRepository(db *gorm.DB) contract.PolicyRepository {
	return &PolicyRepositoryImpl{
		db:     db,
		mapper: mapper.NewPolicyMapper(),
	}
}

func (r *PolicyRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PolicyRepositoryImpl) Create(ctx context.Context, policy *entity.Policy) error {
	m := r.mapper.ToModel(policy)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*policy = *r.mapper.ToEntity(m)
	return nil
}

func (r *PolicyRepositoryImpl) Update(ctx context.Context, policy *entity.Policy) error {
	m := r.mapper.ToModel(policy)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*policy = *r.mapper.ToEntity(m)
	return nil
}

func (r *PolicyRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Policy{}, id).Error
}

func (r *PolicyRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Policy, error) {
	var m model.Policy
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PolicyRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Policy, error) {
	var models []*model.Policy
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *PolicyRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Policy{}).Count(&count).Error
	return count, err
}

func (r *PolicyRepositoryImpl) IncrementApplyCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Policy{}).
		Where("id = ?", id).
		UpdateColumn("apply_count", gorm.Expr("apply_count + 1")).Error
}

func (r *PolicyRepositoryImpl) MaxApplyCount(ctx context.Context) (int64, error) {
	var max *int64
	err := r.db.WithContext(ctx).
		Model(&model.Policy{}).
		Select("MAX(apply_count)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}
