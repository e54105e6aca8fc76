package implementation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"policy-matching-be/internal/entity"
	"policy-matching-be/internal/mapper"
	"policy-matching-be/internal/model"
	"policy-matching-be/internal/repository/contract"
	"policy-matching-be/internal/repository/specification"
)

type MatchSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MatchSessionMapper
}

func NewMatchSessionRepository(db *gorm.DB) contract.MatchSessionRepository {
	return &MatchSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewMatchSessionMapper(),
	}
}

func (r *MatchSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MatchSessionRepositoryImpl) Create(ctx context.Context, session *entity.MatchSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *MatchSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MatchSession, error) {
	var m model.MatchSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *MatchSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MatchSession, error) {
	var models []*model.MatchSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *MatchSessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.MatchSession{}).Count(&count).Error
	return count, err
}
