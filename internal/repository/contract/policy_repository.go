package contract

import (
	"context"

	"github.com/google/uuid"

	"policy-matching-be/internal/entity"
	"policy-matching-be/internal/repository/specification"
)

type PolicyRepository interface {
	Create(ctx context.Context, policy *entity.Policy) error
	Update(ctx context.Context, policy *entity.Policy) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Policy, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Policy, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// IncrementApplyCount bumps the popularity counter without a full update.
	IncrementApplyCount(ctx context.Context, id uuid.UUID) error
	// MaxApplyCount returns the largest apply_count among live policies,
	// used to normalize popularity scores.
	MaxApplyCount(ctx context.Context) (int64, error)
}
