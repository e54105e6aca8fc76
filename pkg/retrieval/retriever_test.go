package retrieval

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"policy-matching-be/internal/entity"
	"policy-matching-be/internal/pkg/logger"
	"policy-matching-be/internal/repository/contract"
	"policy-matching-be/internal/repository/specification"
	"policy-matching-be/internal/repository/unitofwork"
	"policy-matching-be/pkg/embedding"
	"policy-matching-be/pkg/matching"
)

func intPtr(v float64) *float64 { return &v }

func TestBuildQueryText(t *testing.T) {
	tests := []struct {
		name    string
		profile matching.Profile
		want    string
	}{
		{
			name:    "empty profile gets the generic query",
			profile: matching.Profile{},
			want:    "정부 지원사업",
		},
		{
			name:    "full profile in fixed order",
			profile: matching.Profile{"support_type": "창업지원", "employment_status": "재직중", "region": "서울"},
			want:    "창업지원 재직중 서울 지역",
		},
		{
			name:    "region only",
			profile: matching.Profile{"region": "부산"},
			want:    "부산 지역",
		},
		{
			name:    "non-query attributes are ignored",
			profile: matching.Profile{"age": float64(30), "income_level": "일반"},
			want:    "정부 지원사업",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildQueryText(tt.profile); got != tt.want {
				t.Errorf("BuildQueryText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPassesHardFilters(t *testing.T) {
	candidate := matching.Candidate{
		Conditions: map[string]matching.Condition{
			"age":          {Min: intPtr(20), Max: intPtr(39)},
			"region":       {Values: []string{"서울", "경기"}},
			"income_level": {Values: []string{"기초생활수급자"}},
		},
	}

	tests := []struct {
		name    string
		profile matching.Profile
		want    bool
	}{
		{
			name:    "empty profile filters nothing",
			profile: matching.Profile{},
			want:    true,
		},
		{
			name:    "matching hard attributes pass",
			profile: matching.Profile{"age": float64(30), "region": "서울"},
			want:    true,
		},
		{
			name:    "age contradiction excludes",
			profile: matching.Profile{"age": float64(50)},
			want:    false,
		},
		{
			name:    "region contradiction excludes",
			profile: matching.Profile{"region": "부산"},
			want:    false,
		},
		{
			name:    "soft attribute mismatch does not exclude",
			profile: matching.Profile{"income_level": "일반"},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := passesHardFilters(candidate, tt.profile); got != tt.want {
				t.Errorf("passesHardFilters() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizePopularity(t *testing.T) {
	candidates := []matching.Candidate{
		{Popularity: 100},
		{Popularity: 50},
		{Popularity: 0},
	}
	normalizePopularity(candidates)
	if candidates[0].Popularity != 1.0 || candidates[1].Popularity != 0.5 || candidates[2].Popularity != 0.0 {
		t.Errorf("normalized = %v %v %v", candidates[0].Popularity, candidates[1].Popularity, candidates[2].Popularity)
	}

	zeros := []matching.Candidate{{Popularity: 0}, {Popularity: 0}}
	normalizePopularity(zeros)
	if zeros[0].Popularity != neutralPopularity {
		t.Errorf("zero batch popularity = %v, want %v", zeros[0].Popularity, neutralPopularity)
	}
}

// --- Retrieve wiring with fakes ---

type fakeEmbedder struct {
	values []float32
	err    error
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: f.values},
	}, nil
}

type fakeEmbeddingRepo struct {
	contract.PolicyEmbeddingRepository
	scored []*contract.ScoredPolicy
	err    error
}

func (f *fakeEmbeddingRepo) SearchSimilarPolicies(_ context.Context, _ []float32, _ int) ([]*contract.ScoredPolicy, error) {
	return f.scored, f.err
}

type fakePolicyRepo struct {
	contract.PolicyRepository
	policies []*entity.Policy
	err      error
}

func (f *fakePolicyRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.Policy, error) {
	return f.policies, f.err
}

type fakeUoW struct {
	unitofwork.UnitOfWork
	embeddingRepo *fakeEmbeddingRepo
	policyRepo    *fakePolicyRepo
}

func (f *fakeUoW) PolicyEmbeddingRepository() contract.PolicyEmbeddingRepository {
	return f.embeddingRepo
}

func (f *fakeUoW) PolicyRepository() contract.PolicyRepository {
	return f.policyRepo
}

type fakeFactory struct {
	uow *fakeUoW
}

func (f *fakeFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func testPolicy(title string, applyCount int, conditions map[string]matching.Condition) *entity.Policy {
	return &entity.Policy{
		Id:         uuid.New(),
		Title:      title,
		Conditions: conditions,
		ApplyCount: applyCount,
		CreatedAt:  time.Now(),
	}
}

func TestRetrieveSimilaritySearchPath(t *testing.T) {
	factory := &fakeFactory{uow: &fakeUoW{
		embeddingRepo: &fakeEmbeddingRepo{
			scored: []*contract.ScoredPolicy{
				{Policy: testPolicy("청년창업 지원", 80, map[string]matching.Condition{"region": {Values: []string{"서울"}}}), Similarity: 0.9},
				{Policy: testPolicy("부산 창업 지원", 40, map[string]matching.Condition{"region": {Values: []string{"부산"}}}), Similarity: 0.7},
			},
		},
	}}
	retriever := NewRetriever(factory, &fakeEmbedder{values: []float32{0.1, 0.2}}, logger.NewNopLogger())

	candidates, err := retriever.Retrieve(context.Background(), matching.Profile{"region": "서울"})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("len = %d, want 1 (region mismatch filtered out)", len(candidates))
	}
	if candidates[0].Similarity != 0.9 {
		t.Errorf("Similarity = %v, want 0.9", candidates[0].Similarity)
	}
	if candidates[0].Popularity != 1.0 {
		t.Errorf("Popularity = %v, want 1.0 (batch max)", candidates[0].Popularity)
	}
}

func TestRetrieveFallsBackWhenEmbeddingFails(t *testing.T) {
	factory := &fakeFactory{uow: &fakeUoW{
		policyRepo: &fakePolicyRepo{
			policies: []*entity.Policy{
				testPolicy("전국 지원사업", 10, nil),
			},
		},
	}}
	retriever := NewRetriever(factory, &fakeEmbedder{err: errors.New("embedder down")}, logger.NewNopLogger())

	candidates, err := retriever.Retrieve(context.Background(), matching.Profile{})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("len = %d, want 1", len(candidates))
	}
	if candidates[0].Similarity != neutralSimilarity {
		t.Errorf("Similarity = %v, want neutral %v", candidates[0].Similarity, neutralSimilarity)
	}
}

func TestRetrieveSurfacesDatabaseError(t *testing.T) {
	factory := &fakeFactory{uow: &fakeUoW{
		embeddingRepo: &fakeEmbeddingRepo{err: errors.New("connection refused")},
	}}
	retriever := NewRetriever(factory, &fakeEmbedder{values: []float32{0.1}}, logger.NewNopLogger())

	if _, err := retriever.Retrieve(context.Background(), matching.Profile{}); err == nil {
		t.Fatal("expected error from database failure")
	}
}
