package dto

import (
	"time"

	"github.com/google/uuid"

	"policy-matching-be/pkg/matching"
)

type CreatePolicyRequest struct {
	Title       string                        `json:"title" validate:"required,max=255"`
	Description string                        `json:"description" validate:"required"`
	Category    string                        `json:"category" validate:"required,max=50"`
	Agency      string                        `json:"agency" validate:"max=255"`
	ApplyURL    string                        `json:"apply_url" validate:"omitempty,url,max=512"`
	Conditions  map[string]matching.Condition `json:"conditions"`
}

type UpdatePolicyRequest struct {
	Id          uuid.UUID                     `json:"-"`
	Title       string                        `json:"title" validate:"required,max=255"`
	Description string                        `json:"description" validate:"required"`
	Category    string                        `json:"category" validate:"required,max=50"`
	Agency      string                        `json:"agency" validate:"max=255"`
	ApplyURL    string                        `json:"apply_url" validate:"omitempty,url,max=512"`
	Conditions  map[string]matching.Condition `json:"conditions"`
}

type PolicyResponse struct {
	Id          uuid.UUID                     `json:"id"`
	Title       string                        `json:"title"`
	Description string                        `json:"description"`
	Category    string                        `json:"category"`
	Agency      string                        `json:"agency"`
	ApplyURL    string                        `json:"apply_url"`
	Conditions  map[string]matching.Condition `json:"conditions"`
	ApplyCount  int                           `json:"apply_count"`
	CreatedAt   time.Time                     `json:"created_at"`
	UpdatedAt   *time.Time                    `json:"updated_at,omitempty"`
}

type ListPoliciesRequest struct {
	Category string `query:"category"`
	Search   string `query:"search"`
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
}

type ListPoliciesResponse struct {
	Items []PolicyResponse `json:"items"`
	Total int64            `json:"total"`
}

// PublishEmbedPolicyMessage is the internal bus payload that triggers
// (re)embedding of one policy.
type PublishEmbedPolicyMessage struct {
	PolicyId uuid.UUID `json:"policy_id"`
}
