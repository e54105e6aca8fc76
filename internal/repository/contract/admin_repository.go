package contract

import (
	"context"

	"policy-matching-be/internal/entity"
	"policy-matching-be/internal/repository/specification"
)

type AdminRepository interface {
	Create(ctx context.Context, admin *entity.Admin) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Admin, error)
}
