package matching

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

var rankTestNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func fixedRanker() *FinalRanker {
	return NewFinalRankerAt(func() time.Time { return rankTestNow })
}

func TestRankScoreComposition(t *testing.T) {
	ranker := fixedRanker()
	profile := Profile{"region": "서울"}
	candidates := []ScoredCandidate{
		{
			Candidate: Candidate{
				ID:         uuid.MustParse("00000000-0000-0000-0000-000000000001"),
				Title:      "청년창업 지원사업",
				Conditions: map[string]Condition{"region": {Values: []string{"서울"}}},
				Similarity: 0.8,
				Popularity: 0.5,
				CreatedAt:  rankTestNow.AddDate(0, 0, -73), // recency 0.8
			},
		},
	}

	items := ranker.Rank(candidates, profile)
	if len(items) != 1 {
		t.Fatalf("len = %d, want 1", len(items))
	}
	// 0.4*1.0 + 0.3*0.8 + 0.2*0.5 + 0.1*0.8 = 0.82
	if !almostEqual(items[0].FinalScore, 0.82) {
		t.Errorf("FinalScore = %v, want 0.82", items[0].FinalScore)
	}
	if !almostEqual(items[0].RecencyScore, 0.8) {
		t.Errorf("RecencyScore = %v, want 0.8", items[0].RecencyScore)
	}
}

func TestRankRecomputesConditionsAgainstFinalProfile(t *testing.T) {
	ranker := fixedRanker()
	candidate := ScoredCandidate{
		Candidate: Candidate{
			ID:         uuid.New(),
			Conditions: map[string]Condition{"age": {Min: floatPtr(20), Max: floatPtr(39)}},
		},
		// Stale retrieval-time score from before age was known.
		FilterScore: neutralFilterScore,
	}

	items := ranker.Rank([]ScoredCandidate{candidate}, Profile{"age": float64(50)})
	if !almostEqual(items[0].ConditionMatchScore, 0) {
		t.Errorf("ConditionMatchScore = %v, want 0 against final profile", items[0].ConditionMatchScore)
	}
}

func TestRecencyScore(t *testing.T) {
	ranker := fixedRanker()
	tests := []struct {
		name      string
		createdAt time.Time
		want      float64
	}{
		{"brand new", rankTestNow, 1.0},
		{"half a year old", rankTestNow.AddDate(0, 0, -182), 1 - 182.0/365},
		{"older than the horizon floors at 0.1", rankTestNow.AddDate(-3, 0, 0), 0.1},
		{"unknown date is neutral", time.Time{}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ranker.recencyScore(tt.createdAt); !almostEqual(got, tt.want) {
				t.Errorf("recencyScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRankTruncatesToTen(t *testing.T) {
	ranker := fixedRanker()
	candidates := make([]ScoredCandidate, 15)
	for i := range candidates {
		candidates[i].ID = uuid.New()
		candidates[i].Similarity = float64(i) / 15
	}

	items := ranker.Rank(candidates, Profile{})
	if len(items) != maxRankedItems {
		t.Errorf("len = %d, want %d", len(items), maxRankedItems)
	}
}

func TestRankIsDeterministicOnTies(t *testing.T) {
	ranker := fixedRanker()
	a := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	b := uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	candidates := []ScoredCandidate{
		{Candidate: Candidate{ID: b, Similarity: 0.5}},
		{Candidate: Candidate{ID: a, Similarity: 0.5}},
	}

	for i := 0; i < 5; i++ {
		items := ranker.Rank(candidates, Profile{})
		if items[0].PolicyID != a {
			t.Fatalf("run %d: tie not broken by id ascending", i)
		}
	}
}

func TestJustify(t *testing.T) {
	tests := []struct {
		name string
		item RankedItem
		want string
	}{
		{
			name: "strong condition match",
			item: RankedItem{ConditionMatchScore: 0.9, SimilarityScore: 0.5, FinalScore: 0.7},
			want: "조건이 잘 맞음",
		},
		{
			name: "everything stands out",
			item: RankedItem{ConditionMatchScore: 0.9, SimilarityScore: 0.85, FinalScore: 0.95},
			want: "조건이 잘 맞음, 관심 분야와 유사, 종합 점수 높음",
		},
		{
			name: "nothing stands out",
			item: RankedItem{ConditionMatchScore: 0.5, SimilarityScore: 0.5, FinalScore: 0.5},
			want: "매칭 조건 충족",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := justify(tt.item); got != tt.want {
				t.Errorf("justify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuality(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		grade  string
	}{
		{"grade A", []float64{0.95, 0.92, 0.91}, "A"},
		{"grade B", []float64{0.85, 0.82}, "B"},
		{"grade C", []float64{0.75}, "C"},
		{"grade D", []float64{0.5, 0.4}, "D"},
		{"boundary 0.9 is A", []float64{0.9}, "A"},
		{"empty is F", nil, "F"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]RankedItem, len(tt.scores))
			for i, s := range tt.scores {
				items[i].FinalScore = s
			}
			q := Quality(items)
			if q.Grade != tt.grade {
				t.Errorf("Grade = %q, want %q", q.Grade, tt.grade)
			}
			if len(tt.scores) == 0 && q.Score != 0 {
				t.Errorf("empty Score = %v, want 0", q.Score)
			}
		})
	}
}

func TestTopReasons(t *testing.T) {
	items := []RankedItem{
		{Reason: "조건이 잘 맞음"},
		{Reason: "관심 분야와 유사"},
		{Reason: "매칭 조건 충족"},
		{Reason: "매칭 조건 충족"},
	}
	reasons := TopReasons(items)
	if len(reasons) != 3 {
		t.Fatalf("len = %d, want 3", len(reasons))
	}
	if reasons[0] != "조건이 잘 맞음" {
		t.Errorf("reasons[0] = %q", reasons[0])
	}

	if got := TopReasons(items[:1]); len(got) != 1 {
		t.Errorf("short list len = %d, want 1", len(got))
	}
	if got := TopReasons(nil); len(got) != 0 {
		t.Errorf("nil list len = %d, want 0", len(got))
	}
}
