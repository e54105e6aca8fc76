package unitofwork

import (
	"context"

	"policy-matching-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	PolicyRepository() contract.PolicyRepository
	PolicyEmbeddingRepository() contract.PolicyEmbeddingRepository
	MatchSessionRepository() contract.MatchSessionRepository
	AdminRepository() contract.AdminRepository
}
