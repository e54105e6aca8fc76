package store

import (
	"context"
	"time"

	"policy-matching-be/pkg/matching"
)

// Session is the per-conversation record that survives between turns. It
// wraps the engine's dialogue state with the consent gate the product
// requires before any profiling question is asked.
type Session struct {
	ID            string                 `json:"id"`
	State         *matching.SessionState `json:"state"`
	ConsentGiven  bool                   `json:"consent_given"`
	ConsentAsked  bool                   `json:"consent_asked"`
	CreatedAt     time.Time              `json:"created_at"`
	LastMessageAt time.Time              `json:"last_message_at"`
}

func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		State:     matching.NewSessionState(),
		CreatedAt: now,
	}
}

// SessionStore abstracts where sessions live. The in-memory store backs
// single-instance deployments and tests; Redis backs horizontally scaled
// ones. Get returns (nil, false, nil) for an unknown or expired id.
type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, bool, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
}

// SessionTTL bounds how long an idle conversation is kept.
const SessionTTL = 24 * time.Hour
