package dto

import (
	"policy-matching-be/pkg/matching"
)

type SendMessageRequest struct {
	SessionId string `json:"session_id" validate:"required,max=64"`
	Message   string `json:"message" validate:"max=2000"`
}

// SendMessageResponse is the single chat payload shape. Type selects which
// of the optional groups is populated: a consent prompt, a question, or the
// final result.
type SendMessageResponse struct {
	Type      string `json:"type"` // "consent" | "question" | "result"
	Message   string `json:"message"`
	SessionId string `json:"session_id"`

	// Question fields
	Field           string   `json:"field,omitempty"`
	Options         []string `json:"options,omitempty"`
	InformationGain float64  `json:"information_gain,omitempty"`
	CurrentStep     int      `json:"current_step,omitempty"`
	MaxSteps        int      `json:"max_steps,omitempty"`

	// Result fields
	Recommendations       []matching.RankedItem  `json:"recommendations,omitempty"`
	RecommendationReasons []string               `json:"recommendation_reasons,omitempty"`
	StopReason            string                 `json:"stop_reason,omitempty"`
	MatchQuality          *matching.MatchQuality `json:"match_quality,omitempty"`

	Profile   matching.Profile `json:"user_profile,omitempty"`
	TurnCount int              `json:"turn_count,omitempty"`
}

type ResetSessionRequest struct {
	SessionId string `json:"session_id" validate:"required,max=64"`
}
