package entity

import (
	"time"

	"github.com/google/uuid"

	"policy-matching-be/pkg/matching"
)

// Policy is one government support program. Conditions holds the
// per-attribute eligibility predicates the matching engine scores against.
type Policy struct {
	Id          uuid.UUID
	Title       string
	Description string
	Category    string // support_type bucket: 창업지원, 취업지원, ...
	Agency      string
	ApplyURL    string
	Conditions  map[string]matching.Condition
	ApplyCount  int
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
