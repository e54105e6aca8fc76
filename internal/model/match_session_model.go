package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type MatchSession struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionKey      string         `gorm:"type:varchar(64);not null;index"`
	Profile         datatypes.JSON `gorm:"type:jsonb"`
	Recommendations datatypes.JSON `gorm:"type:jsonb"`
	StopReason      string         `gorm:"type:varchar(50)"`
	TurnCount       int            `gorm:"default:0"`
	QualityScore    float64        `gorm:"default:0"`
	QualityGrade    string         `gorm:"type:varchar(2)"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
}

func (MatchSession) TableName() string {
	return "match_sessions"
}
