package contract

import (
	"context"

	"policy-matching-be/internal/entity"
	"policy-matching-be/internal/repository/specification"
)

type MatchSessionRepository interface {
	Create(ctx context.Context, session *entity.MatchSession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MatchSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MatchSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
