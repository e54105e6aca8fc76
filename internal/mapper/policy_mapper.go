package mapper

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"policy-matching-be/internal/entity"
	"policy-matching-be/internal/model"
	"policy-matching-be/pkg/matching"
)

type PolicyMapper struct{}

func NewPolicyMapper() *PolicyMapper {
	return &PolicyMapper{}
}

func (m *PolicyMapper) ToEntity(p *model.Policy) *entity.Policy {
	if p == nil {
		return nil
	}

	var deletedAt *time.Time
	if p.DeletedAt.Valid {
		t := p.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	conditions := make(map[string]matching.Condition)
	if len(p.Conditions) > 0 {
		// A policy with unreadable conditions still surfaces; it just has
		// no predicates to score against.
		_ = json.Unmarshal(p.Conditions, &conditions)
	}

	return &entity.Policy{
		Id:          p.Id,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Agency:      p.Agency,
		ApplyURL:    p.ApplyURL,
		Conditions:  conditions,
		ApplyCount:  p.ApplyCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   p.DeletedAt.Valid,
	}
}

func (m *PolicyMapper) ToModel(p *entity.Policy) *model.Policy {
	if p == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if p.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *p.DeletedAt, Valid: true}
	} else if p.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	var conditions datatypes.JSON
	if p.Conditions != nil {
		if raw, err := json.Marshal(p.Conditions); err == nil {
			conditions = raw
		}
	}

	return &model.Policy{
		Id:          p.Id,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Agency:      p.Agency,
		ApplyURL:    p.ApplyURL,
		Conditions:  conditions,
		ApplyCount:  p.ApplyCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *PolicyMapper) ToEntities(policies []*model.Policy) []*entity.Policy {
	entities := make([]*entity.Policy, len(policies))
	for i, p := range policies {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
