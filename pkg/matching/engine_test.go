package matching

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"policy-matching-be/internal/pkg/logger"
)

type fakeExtractor struct {
	deltas map[string]interface{}
	err    error
}

func (f *fakeExtractor) Extract(_ context.Context, _ string, _ Profile) (*Extraction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &Extraction{Deltas: f.deltas, Confidence: 0.9}, nil
}

type fakeRetriever struct {
	candidates []Candidate
	err        error
	calls      int
}

func (f *fakeRetriever) Retrieve(_ context.Context, _ Profile) ([]Candidate, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

func testCandidates(n int) []Candidate {
	out := make([]Candidate, n)
	for i := range out {
		out[i] = Candidate{
			ID: uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", i+1)),
			Conditions: map[string]Condition{
				"region": {Values: []string{fmt.Sprintf("지역%d", i)}},
				"age":    {Min: floatPtr(float64(20 + i*10))},
			},
			Similarity: 0.5,
		}
	}
	return out
}

func newTestEngine(extractor ConditionExtractor, retriever CandidateRetriever) *Engine {
	return NewEngine(extractor, retriever, DefaultCatalog(), logger.NewNopLogger())
}

func TestAdvanceAsksQuestionWhileCandidatesRemain(t *testing.T) {
	engine := newTestEngine(
		&fakeExtractor{deltas: map[string]interface{}{"support_type": "창업지원"}},
		&fakeRetriever{candidates: testCandidates(5)},
	)
	state := NewSessionState()

	result, err := engine.Advance(context.Background(), state, "창업 지원금 찾고 있어요")
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}

	q, ok := result.(Question)
	if !ok {
		t.Fatalf("expected Question, got %T", result)
	}
	if q.Step != 1 || q.MaxSteps != maxQuestions {
		t.Errorf("Step/MaxSteps = %d/%d, want 1/%d", q.Step, q.MaxSteps, maxQuestions)
	}
	if state.TurnCount != 1 || len(state.QuestionsAsked) != 1 {
		t.Errorf("state not advanced once: turns=%d asked=%v", state.TurnCount, state.QuestionsAsked)
	}
	if state.QuestionsAsked[0] != q.Field {
		t.Errorf("asked %q but recorded %q", q.Field, state.QuestionsAsked[0])
	}
	if state.Profile["support_type"] != "창업지원" {
		t.Errorf("extraction delta not merged: %v", state.Profile)
	}
}

func TestAdvanceTurnCountTracksQuestionsAsked(t *testing.T) {
	engine := newTestEngine(
		&fakeExtractor{},
		&fakeRetriever{candidates: testCandidates(8)},
	)
	state := NewSessionState()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		result, err := engine.Advance(ctx, state, "답변")
		if err != nil {
			t.Fatalf("turn %d: %v", i, err)
		}
		if state.TurnCount != len(state.QuestionsAsked) {
			t.Fatalf("turn %d: turn_count %d != asked %d", i, state.TurnCount, len(state.QuestionsAsked))
		}
		if _, done := result.(FinalResult); done {
			return
		}
	}
	t.Fatal("dialogue never terminated")
}

func TestAdvanceStopsAtQuestionCap(t *testing.T) {
	// Many candidates with many distinct attributes so neither confidence
	// nor candidate count stops the dialogue early.
	candidates := make([]Candidate, 10)
	for i := range candidates {
		conds := make(map[string]Condition)
		for j := 0; j < 8; j++ {
			conds[fmt.Sprintf("attr_%02d", j)] = Condition{Values: []string{fmt.Sprintf("v%d-%d", i, j)}}
		}
		candidates[i] = Candidate{
			ID:         uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", i+1)),
			Conditions: conds,
			Similarity: 0.3,
		}
	}
	engine := newTestEngine(&fakeExtractor{}, &fakeRetriever{candidates: candidates})
	state := NewSessionState()
	ctx := context.Background()

	var final FinalResult
	for i := 0; i < 8; i++ {
		result, err := engine.Advance(ctx, state, "잘 모르겠어요")
		if err != nil {
			t.Fatalf("turn %d: %v", i, err)
		}
		if f, done := result.(FinalResult); done {
			final = f
			break
		}
	}

	if final.StopReason != StopMaxQuestionsReached {
		t.Fatalf("StopReason = %q, want %q", final.StopReason, StopMaxQuestionsReached)
	}
	if state.TurnCount != maxQuestions {
		t.Errorf("TurnCount = %d, want %d", state.TurnCount, maxQuestions)
	}
}

func TestAdvanceStopsOnFewCandidates(t *testing.T) {
	engine := newTestEngine(&fakeExtractor{}, &fakeRetriever{candidates: testCandidates(2)})
	state := NewSessionState()

	result, err := engine.Advance(context.Background(), state, "안녕하세요")
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	final, ok := result.(FinalResult)
	if !ok {
		t.Fatalf("expected FinalResult, got %T", result)
	}
	if final.StopReason != StopFewCandidates {
		t.Errorf("StopReason = %q, want %q", final.StopReason, StopFewCandidates)
	}
	if len(final.Items) != 2 {
		t.Errorf("len(Items) = %d, want 2", len(final.Items))
	}
	if state.TurnCount != 0 {
		t.Errorf("finalizing turn must not bump turn count, got %d", state.TurnCount)
	}
}

func TestAdvanceExtractionFailureKeepsProfile(t *testing.T) {
	engine := newTestEngine(
		&fakeExtractor{err: errors.New("model timeout")},
		&fakeRetriever{candidates: testCandidates(5)},
	)
	state := NewSessionState()
	state.Profile["region"] = "서울"

	result, err := engine.Advance(context.Background(), state, "34살이에요")
	if err != nil {
		t.Fatalf("extraction failure must not surface: %v", err)
	}
	if _, ok := result.(Question); !ok {
		t.Fatalf("expected Question, got %T", result)
	}
	if len(state.Profile) != 1 || state.Profile["region"] != "서울" {
		t.Errorf("profile changed on failed extraction: %v", state.Profile)
	}
}

func TestAdvanceRetrievalFailureFinalizesEmpty(t *testing.T) {
	engine := newTestEngine(
		&fakeExtractor{},
		&fakeRetriever{err: errors.New("database unavailable")},
	)
	state := NewSessionState()

	result, err := engine.Advance(context.Background(), state, "안녕하세요")
	if err != nil {
		t.Fatalf("retrieval failure must not surface: %v", err)
	}
	final, ok := result.(FinalResult)
	if !ok {
		t.Fatalf("expected FinalResult, got %T", result)
	}
	if final.StopReason != StopFewCandidates {
		t.Errorf("StopReason = %q, want %q", final.StopReason, StopFewCandidates)
	}
	if len(final.Items) != 0 {
		t.Errorf("expected empty items, got %d", len(final.Items))
	}
	if final.Quality.Grade != "F" {
		t.Errorf("Grade = %q, want F", final.Quality.Grade)
	}
}

func TestAdvanceNoMoreQuestions(t *testing.T) {
	// Candidates condition only on region; once region is known there is
	// nothing left to ask even though three candidates remain.
	candidates := []Candidate{
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), Conditions: map[string]Condition{"region": {Values: []string{"서울"}}}},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), Conditions: map[string]Condition{"region": {Values: []string{"부산"}}}},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000003"), Conditions: map[string]Condition{"region": {Values: []string{"대구"}}}},
	}
	engine := newTestEngine(
		&fakeExtractor{deltas: map[string]interface{}{"region": "서울"}},
		&fakeRetriever{candidates: candidates},
	)
	state := NewSessionState()

	result, err := engine.Advance(context.Background(), state, "서울 살아요")
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	final, ok := result.(FinalResult)
	if !ok {
		t.Fatalf("expected FinalResult, got %T", result)
	}
	if final.StopReason != StopNoMoreQuestions {
		t.Errorf("StopReason = %q, want %q", final.StopReason, StopNoMoreQuestions)
	}
}

func TestAdvanceHighConfidenceShortCircuits(t *testing.T) {
	candidates := []Candidate{
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), Conditions: map[string]Condition{"region": {Values: []string{"서울"}}}, Similarity: 1.0},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), Conditions: map[string]Condition{"region": {Values: []string{"서울"}}}, Similarity: 1.0},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000003"), Conditions: map[string]Condition{"region": {Values: []string{"서울"}}}, Similarity: 1.0},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000004"), Conditions: map[string]Condition{"region": {Values: []string{"부산"}}}, Similarity: 0.1},
	}
	engine := newTestEngine(
		&fakeExtractor{deltas: map[string]interface{}{"region": "서울"}},
		&fakeRetriever{candidates: candidates},
	)
	state := NewSessionState()

	result, err := engine.Advance(context.Background(), state, "서울이요")
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	final, ok := result.(FinalResult)
	if !ok {
		t.Fatalf("expected FinalResult, got %T", result)
	}
	if final.StopReason != StopHighConfidence {
		t.Errorf("StopReason = %q, want %q", final.StopReason, StopHighConfidence)
	}
	if len(final.Reasons) == 0 || len(final.Reasons) > maxReasons {
		t.Errorf("Reasons len = %d", len(final.Reasons))
	}
}

func TestAdvanceCancelledContext(t *testing.T) {
	engine := newTestEngine(&fakeExtractor{}, &fakeRetriever{candidates: testCandidates(5)})
	state := NewSessionState()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := engine.Advance(ctx, state, "안녕하세요"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if state.TurnCount != 0 {
		t.Errorf("cancelled turn mutated state")
	}
}

func TestAdvanceIsDeterministic(t *testing.T) {
	run := func() []string {
		engine := newTestEngine(&fakeExtractor{}, &fakeRetriever{candidates: testCandidates(6)})
		state := NewSessionState()
		ctx := context.Background()
		for i := 0; i < 10; i++ {
			result, err := engine.Advance(ctx, state, "답변")
			if err != nil {
				t.Fatalf("Advance: %v", err)
			}
			if _, done := result.(FinalResult); done {
				break
			}
		}
		return state.QuestionsAsked
	}

	first := run()
	for i := 0; i < 3; i++ {
		again := run()
		if len(again) != len(first) {
			t.Fatalf("run lengths differ: %v vs %v", first, again)
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("question order differs: %v vs %v", first, again)
			}
		}
	}
}
