package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"policy-matching-be/internal/entity"
	"policy-matching-be/internal/model"
	"policy-matching-be/pkg/matching"
)

type MatchSessionMapper struct{}

func NewMatchSessionMapper() *MatchSessionMapper {
	return &MatchSessionMapper{}
}

func (m *MatchSessionMapper) ToEntity(s *model.MatchSession) *entity.MatchSession {
	if s == nil {
		return nil
	}

	profile := make(matching.Profile)
	if len(s.Profile) > 0 {
		_ = json.Unmarshal(s.Profile, &profile)
	}

	var recommendations []matching.RankedItem
	if len(s.Recommendations) > 0 {
		_ = json.Unmarshal(s.Recommendations, &recommendations)
	}

	return &entity.MatchSession{
		Id:              s.Id,
		SessionKey:      s.SessionKey,
		Profile:         profile,
		Recommendations: recommendations,
		StopReason:      s.StopReason,
		TurnCount:       s.TurnCount,
		QualityScore:    s.QualityScore,
		QualityGrade:    s.QualityGrade,
		CreatedAt:       s.CreatedAt,
	}
}

func (m *MatchSessionMapper) ToModel(s *entity.MatchSession) *model.MatchSession {
	if s == nil {
		return nil
	}

	var profile datatypes.JSON
	if s.Profile != nil {
		if raw, err := json.Marshal(s.Profile); err == nil {
			profile = raw
		}
	}

	var recommendations datatypes.JSON
	if s.Recommendations != nil {
		if raw, err := json.Marshal(s.Recommendations); err == nil {
			recommendations = raw
		}
	}

	return &model.MatchSession{
		Id:              s.Id,
		SessionKey:      s.SessionKey,
		Profile:         profile,
		Recommendations: recommendations,
		StopReason:      s.StopReason,
		TurnCount:       s.TurnCount,
		QualityScore:    s.QualityScore,
		QualityGrade:    s.QualityGrade,
		CreatedAt:       s.CreatedAt,
	}
}

func (m *MatchSessionMapper) ToEntities(sessions []*model.MatchSession) []*entity.MatchSession {
	entities := make([]*entity.MatchSession, len(sessions))
	for i, s := range sessions {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
