package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"policy-matching-be/internal/constant"
	"policy-matching-be/internal/dto"
	"policy-matching-be/internal/entity"
	"policy-matching-be/internal/pkg/logger"
	"policy-matching-be/internal/repository/unitofwork"
	"policy-matching-be/pkg/events"
	"policy-matching-be/pkg/matching"
	pktNats "policy-matching-be/pkg/nats"
	"policy-matching-be/pkg/store"
)

// archivedRecommendations caps how many ranked items are persisted with a
// finished session.
const archivedRecommendations = 5

type IMatchingService interface {
	SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	ResetSession(ctx context.Context, sessionId string) error
}

type matchingService struct {
	engine         *matching.Engine
	sessions       store.SessionStore
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger

	// One mutex per live session so concurrent messages for the same
	// conversation serialize instead of racing on its state.
	locks sync.Map
}

func NewMatchingService(
	engine *matching.Engine,
	sessions store.SessionStore,
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IMatchingService {
	return &matchingService{
		engine:         engine,
		sessions:       sessions,
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *matchingService) sessionLock(sessionId string) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(sessionId, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (s *matchingService) SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	lock := s.sessionLock(req.SessionId)
	lock.Lock()
	defer lock.Unlock()

	message := strings.TrimSpace(req.Message)

	session, found, err := s.sessions.Get(ctx, req.SessionId)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !found {
		session = store.NewSession(req.SessionId)
	}
	session.LastMessageAt = time.Now()

	// A greeting (or empty message) restarts the flow with a consent
	// prompt, regardless of previous state.
	if message == "" || isGreeting(message) {
		session = store.NewSession(req.SessionId)
		session.ConsentAsked = true
		session.LastMessageAt = time.Now()
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
		return &dto.SendMessageResponse{
			Type:      constant.ResponseTypeConsent,
			Message:   constant.ConsentRequestMessage,
			SessionId: req.SessionId,
		}, nil
	}

	if !session.ConsentGiven {
		if strings.Contains(strings.ToLower(message), constant.ConsentKeyword) {
			session.ConsentGiven = true
		} else {
			// After the prompt was shown once, anything short of consent
			// reads as a decline.
			responseMessage := constant.ConsentRequestMessage
			if session.ConsentAsked {
				responseMessage = constant.ConsentDeclinedMessage
			}
			session.ConsentAsked = true
			if err := s.sessions.Save(ctx, session); err != nil {
				return nil, fmt.Errorf("save session: %w", err)
			}
			return &dto.SendMessageResponse{
				Type:      constant.ResponseTypeConsent,
				Message:   responseMessage,
				SessionId: req.SessionId,
			}, nil
		}
	}

	result, err := s.engine.Advance(ctx, session.State, message)
	if err != nil {
		return nil, err
	}

	switch r := result.(type) {
	case matching.Question:
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
		return &dto.SendMessageResponse{
			Type:            constant.ResponseTypeQuestion,
			Message:         r.Text,
			SessionId:       req.SessionId,
			Field:           r.Field,
			Options:         r.Options,
			InformationGain: r.InformationGain,
			CurrentStep:     r.Step,
			MaxSteps:        r.MaxSteps,
			Profile:         session.State.Profile,
			TurnCount:       session.State.TurnCount,
		}, nil

	case matching.FinalResult:
		s.finishSession(ctx, session, r)

		message := constant.ResultIntroMessage
		if len(r.Items) == 0 {
			message = constant.NoResultMessage
		}
		quality := r.Quality
		return &dto.SendMessageResponse{
			Type:                  constant.ResponseTypeResult,
			Message:               message,
			SessionId:             req.SessionId,
			Recommendations:       r.Items,
			RecommendationReasons: r.Reasons,
			StopReason:            string(r.StopReason),
			MatchQuality:          &quality,
			Profile:               session.State.Profile,
			TurnCount:             session.State.TurnCount,
		}, nil

	default:
		return nil, fmt.Errorf("unexpected turn result %T", result)
	}
}

// finishSession archives the outcome and emits the completion event. Both
// are best effort: a storage or bus failure must not cost the user their
// result.
func (s *matchingService) finishSession(ctx context.Context, session *store.Session, result matching.FinalResult) {
	recommendations := result.Items
	if len(recommendations) > archivedRecommendations {
		recommendations = recommendations[:archivedRecommendations]
	}

	archive := &entity.MatchSession{
		Id:              uuid.New(),
		SessionKey:      session.ID,
		Profile:         session.State.Profile,
		Recommendations: recommendations,
		StopReason:      string(result.StopReason),
		TurnCount:       session.State.TurnCount,
		QualityScore:    result.Quality.Score,
		QualityGrade:    result.Quality.Grade,
		CreatedAt:       time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.MatchSessionRepository().Create(ctx, archive); err != nil {
		s.logger.Error("matching_service", "failed to archive match session", map[string]interface{}{
			"session_id": session.ID,
			"error":      err.Error(),
		})
	}

	if s.eventPublisher != nil {
		event := events.NewMatchCompletedEvent(session.ID, string(result.StopReason), session.State.TurnCount, len(result.Items))
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("matching_service", "failed to publish match completed event", map[string]interface{}{
				"session_id": session.ID,
				"error":      err.Error(),
			})
		}
	}

	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		s.logger.Warn("matching_service", "failed to delete finished session", map[string]interface{}{
			"session_id": session.ID,
			"error":      err.Error(),
		})
	}
	s.locks.Delete(session.ID)
}

func (s *matchingService) ResetSession(ctx context.Context, sessionId string) error {
	lock := s.sessionLock(sessionId)
	lock.Lock()
	defer lock.Unlock()

	if err := s.sessions.Delete(ctx, sessionId); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.locks.Delete(sessionId)
	return nil
}

func isGreeting(message string) bool {
	lower := strings.ToLower(message)
	for _, greeting := range constant.Greetings {
		if lower == greeting {
			return true
		}
	}
	return false
}
