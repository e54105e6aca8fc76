package matching

import (
	"math"
	"testing"

	"github.com/google/uuid"
)

func floatPtr(v float64) *float64 { return &v }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestConditionMatches(t *testing.T) {
	tests := []struct {
		name      string
		condition Condition
		value     interface{}
		want      bool
	}{
		{
			name:      "value in allowed set",
			condition: Condition{Values: []string{"서울", "경기"}},
			value:     "서울",
			want:      true,
		},
		{
			name:      "value outside allowed set",
			condition: Condition{Values: []string{"서울", "경기"}},
			value:     "부산",
			want:      false,
		},
		{
			name:      "number inside range",
			condition: Condition{Min: floatPtr(20), Max: floatPtr(39)},
			value:     float64(34),
			want:      true,
		},
		{
			name:      "number below range",
			condition: Condition{Min: floatPtr(20), Max: floatPtr(39)},
			value:     float64(19),
			want:      false,
		},
		{
			name:      "open-ended minimum",
			condition: Condition{Min: floatPtr(65)},
			value:     float64(80),
			want:      true,
		},
		{
			name:      "int value against range",
			condition: Condition{Min: floatPtr(20), Max: floatPtr(39)},
			value:     25,
			want:      true,
		},
		{
			name:      "non-numeric value against range",
			condition: Condition{Min: floatPtr(20)},
			value:     "이십대",
			want:      false,
		},
		{
			name:      "empty condition matches anything",
			condition: Condition{},
			value:     "whatever",
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.condition.Matches(tt.value); got != tt.want {
				t.Errorf("Matches(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestFilterScore(t *testing.T) {
	candidate := Candidate{
		Conditions: map[string]Condition{
			"region": {Values: []string{"서울"}},
			"age":    {Min: floatPtr(20), Max: floatPtr(39)},
		},
	}

	tests := []struct {
		name    string
		profile Profile
		want    float64
	}{
		{
			name:    "no known attributes is neutral",
			profile: Profile{},
			want:    neutralFilterScore,
		},
		{
			name:    "unrelated attribute is still neutral",
			profile: Profile{"income_level": "일반"},
			want:    neutralFilterScore,
		},
		{
			name:    "one of two applicable conditions matched",
			profile: Profile{"region": "서울", "age": float64(45)},
			want:    0.5,
		},
		{
			name:    "all applicable conditions matched",
			profile: Profile{"region": "서울", "age": float64(30)},
			want:    1.0,
		},
		{
			name:    "only the known attribute counts",
			profile: Profile{"region": "부산"},
			want:    0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FilterScore(candidate, tt.profile); !almostEqual(got, tt.want) {
				t.Errorf("FilterScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreCandidatesHybridWeights(t *testing.T) {
	profile := Profile{"region": "서울"}
	candidates := []Candidate{
		{
			ID:         uuid.MustParse("00000000-0000-0000-0000-000000000001"),
			Conditions: map[string]Condition{"region": {Values: []string{"서울"}}},
			Similarity: 0.5,
		},
	}

	scored := ScoreCandidates(candidates, profile)
	// 0.6*1.0 + 0.4*0.5 = 0.8
	if !almostEqual(scored[0].HybridScore, 0.8) {
		t.Errorf("HybridScore = %v, want 0.8", scored[0].HybridScore)
	}
	if !almostEqual(scored[0].FilterScore, 1.0) {
		t.Errorf("FilterScore = %v, want 1.0", scored[0].FilterScore)
	}
}

func TestScoreCandidatesOrdering(t *testing.T) {
	profile := Profile{}
	candidates := []Candidate{
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), Similarity: 0.4},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000003"), Similarity: 0.9},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), Similarity: 0.4},
	}

	scored := ScoreCandidates(candidates, profile)
	if scored[0].ID != candidates[1].ID {
		t.Fatalf("expected highest-similarity candidate first, got %s", scored[0].ID)
	}
	// Equal hybrid scores order by id ascending.
	if scored[1].ID.String() != "00000000-0000-0000-0000-000000000001" {
		t.Errorf("tie-break by id broken, got %s", scored[1].ID)
	}
}

func TestProfileMergeSkipsNil(t *testing.T) {
	p := Profile{"region": "서울"}
	p.Merge(map[string]interface{}{
		"region": nil,
		"age":    float64(34),
	})
	if p["region"] != "서울" {
		t.Errorf("nil delta overwrote known attribute: %v", p["region"])
	}
	if p["age"] != float64(34) {
		t.Errorf("non-nil delta not merged: %v", p["age"])
	}
}
