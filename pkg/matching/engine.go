package matching

import (
	"context"

	"policy-matching-be/internal/pkg/logger"
)

// Extraction is the structured outcome of condition extraction: attribute
// deltas (nil-valued entries are ignored on merge) and the extractor's
// confidence in them.
type Extraction struct {
	Deltas     map[string]interface{}
	Confidence float64
}

// ConditionExtractor turns a raw user utterance into profile deltas. It must
// not mutate the profile it is given.
type ConditionExtractor interface {
	Extract(ctx context.Context, message string, profile Profile) (*Extraction, error)
}

// CandidateRetriever returns a fresh per-turn view of the candidate corpus
// for the given profile, each candidate carrying its predicate set and a
// similarity score in [0,1].
type CandidateRetriever interface {
	Retrieve(ctx context.Context, profile Profile) ([]Candidate, error)
}

// Engine drives one turn of the adaptive matching dialogue. It holds no
// per-session state; everything that survives a turn is threaded through
// SessionState by the caller.
type Engine struct {
	extractor ConditionExtractor
	retriever CandidateRetriever
	selector  *QuestionSelector
	ranker    *FinalRanker
	catalog   *Catalog
	logger    logger.ILogger
}

func NewEngine(
	extractor ConditionExtractor,
	retriever CandidateRetriever,
	catalog *Catalog,
	log logger.ILogger,
) *Engine {
	return &Engine{
		extractor: extractor,
		retriever: retriever,
		selector:  NewQuestionSelector(catalog),
		ranker:    NewFinalRanker(),
		catalog:   catalog,
		logger:    log,
	}
}

// Advance runs one dialogue turn: merge extraction deltas, retrieve and
// score candidates, evaluate the stopping criteria, then either finalize or
// pick the next question. It mutates state exactly once and absorbs
// collaborator failures per the degrade-gracefully policy, so the only
// error it surfaces is context cancellation.
func (e *Engine) Advance(ctx context.Context, state *SessionState, message string) (TurnResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	extraction, err := e.extractor.Extract(ctx, message, state.Profile.Clone())
	if err != nil {
		// Profile stays as-is; the turn proceeds on what we already know.
		e.logger.Warn("matching", "condition extraction failed, continuing with unchanged profile", map[string]interface{}{
			"error": err.Error(),
		})
	} else if extraction != nil {
		state.Profile.Merge(extraction.Deltas)
	}

	candidates, err := e.retriever.Retrieve(ctx, state.Profile.Clone())
	if err != nil {
		// Distinct from a genuine zero-match retrieval, even though both
		// surface to the caller as few_candidates.
		e.logger.Error("matching", "candidate retrieval failed, treating as empty candidate set", map[string]interface{}{
			"error": err.Error(),
		})
		candidates = nil
	}

	scored := ScoreCandidates(candidates, state.Profile)

	if reason, stop := EvaluateStopping(scored, state.QuestionsAsked); stop {
		return e.finalize(scored, state, reason), nil
	}

	pick := e.selector.Select(scored, state.Profile, state.QuestionsAsked)
	if pick == nil {
		return e.finalize(scored, state, StopNoMoreQuestions), nil
	}

	state.QuestionsAsked = append(state.QuestionsAsked, pick.Field)
	state.TurnCount++

	text, options := e.catalog.QuestionFor(pick.Field)
	return Question{
		Field:           pick.Field,
		Text:            text,
		Options:         options,
		InformationGain: pick.InformationGain,
		Step:            len(state.QuestionsAsked),
		MaxSteps:        maxQuestions,
	}, nil
}

func (e *Engine) finalize(scored []ScoredCandidate, state *SessionState, reason StopReason) FinalResult {
	items := e.ranker.Rank(scored, state.Profile)
	e.logger.Info("matching", "dialogue finished", map[string]interface{}{
		"stop_reason": string(reason),
		"turns":       state.TurnCount,
		"results":     len(items),
	})
	return FinalResult{
		Items:      items,
		Reasons:    TopReasons(items),
		StopReason: reason,
		Quality:    Quality(items),
	}
}
