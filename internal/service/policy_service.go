package service

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"policy-matching-be/internal/dto"
	"policy-matching-be/internal/entity"
	"policy-matching-be/internal/pkg/logger"
	"policy-matching-be/internal/repository/specification"
	"policy-matching-be/internal/repository/unitofwork"
)

const defaultPolicyPageSize = 20

type IPolicyService interface {
	Create(ctx context.Context, req *dto.CreatePolicyRequest) (*dto.PolicyResponse, error)
	Update(ctx context.Context, req *dto.UpdatePolicyRequest) (*dto.PolicyResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Show(ctx context.Context, id uuid.UUID) (*dto.PolicyResponse, error)
	GetAll(ctx context.Context, req *dto.ListPoliciesRequest) (*dto.ListPoliciesResponse, error)
	RecordApplication(ctx context.Context, id uuid.UUID) error
}

type policyService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewPolicyService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) IPolicyService {
	return &policyService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *policyService) Create(ctx context.Context, req *dto.CreatePolicyRequest) (*dto.PolicyResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	policy := &entity.Policy{
		Id:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Agency:      req.Agency,
		ApplyURL:    req.ApplyURL,
		Conditions:  req.Conditions,
		CreatedAt:   time.Now(),
	}

	if err := uow.PolicyRepository().Create(ctx, policy); err != nil {
		return nil, err
	}

	s.requestEmbedding(ctx, policy.Id)
	return toPolicyResponse(policy), nil
}

func (s *policyService) Update(ctx context.Context, req *dto.UpdatePolicyRequest) (*dto.PolicyResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	policy, err := uow.PolicyRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "policy not found")
	}

	policy.Title = req.Title
	policy.Description = req.Description
	policy.Category = req.Category
	policy.Agency = req.Agency
	policy.ApplyURL = req.ApplyURL
	policy.Conditions = req.Conditions
	now := time.Now()
	policy.UpdatedAt = &now

	if err := uow.PolicyRepository().Update(ctx, policy); err != nil {
		return nil, err
	}

	s.requestEmbedding(ctx, policy.Id)
	return toPolicyResponse(policy), nil
}

func (s *policyService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.PolicyRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.PolicyEmbeddingRepository().DeleteByPolicyId(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *policyService) Show(ctx context.Context, id uuid.UUID) (*dto.PolicyResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	policy, err := uow.PolicyRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "policy not found")
	}
	return toPolicyResponse(policy), nil
}

func (s *policyService) GetAll(ctx context.Context, req *dto.ListPoliciesRequest) (*dto.ListPoliciesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.PolicyRepository()

	var filters []specification.Specification
	if req.Category != "" {
		filters = append(filters, specification.ByCategory{Category: req.Category})
	}
	if req.Search != "" {
		filters = append(filters, specification.ByTitleSearch{Query: req.Search})
	}

	total, err := repo.Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = defaultPolicyPageSize
	}
	listSpecs := append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: req.Offset},
	)

	policies, err := repo.FindAll(ctx, listSpecs...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.PolicyResponse, len(policies))
	for i, p := range policies {
		items[i] = *toPolicyResponse(p)
	}
	return &dto.ListPoliciesResponse{Items: items, Total: total}, nil
}

func (s *policyService) RecordApplication(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	policy, err := uow.PolicyRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if policy == nil {
		return fiber.NewError(fiber.StatusNotFound, "policy not found")
	}
	return uow.PolicyRepository().IncrementApplyCount(ctx, id)
}

// requestEmbedding asks the background worker to (re)embed the policy. The
// policy write already succeeded, so a bus failure only logs.
func (s *policyService) requestEmbedding(ctx context.Context, policyId uuid.UUID) {
	if err := s.publisherService.PublishEmbedPolicy(ctx, policyId); err != nil {
		s.logger.Warn("policy_service", "failed to enqueue policy embedding", map[string]interface{}{
			"policy_id": policyId.String(),
			"error":     err.Error(),
		})
	}
}

func toPolicyResponse(p *entity.Policy) *dto.PolicyResponse {
	return &dto.PolicyResponse{
		Id:          p.Id,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Agency:      p.Agency,
		ApplyURL:    p.ApplyURL,
		Conditions:  p.Conditions,
		ApplyCount:  p.ApplyCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
