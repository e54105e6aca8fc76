package entity

import (
	"time"

	"github.com/google/uuid"

	"policy-matching-be/pkg/matching"
)

// MatchSession is the archived outcome of a finished matching dialogue:
// the profile as it stood at the end, the top recommendations, and why the
// dialogue stopped.
type MatchSession struct {
	Id              uuid.UUID
	SessionKey      string
	Profile         matching.Profile
	Recommendations []matching.RankedItem
	StopReason      string
	TurnCount       int
	QualityScore    float64
	QualityGrade    string
	CreatedAt       time.Time
}
