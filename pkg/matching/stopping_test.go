package matching

import (
	"math"
	"testing"
)

func scoredSet(scores ...float64) []ScoredCandidate {
	out := make([]ScoredCandidate, len(scores))
	for i, s := range scores {
		out[i].HybridScore = s
	}
	return out
}

func TestEvaluateStopping(t *testing.T) {
	tests := []struct {
		name       string
		candidates []ScoredCandidate
		asked      []string
		wantReason StopReason
		wantStop   bool
	}{
		{
			name:       "confident top three stops immediately",
			candidates: scoredSet(0.98, 0.96, 0.95, 0.40, 0.30),
			asked:      []string{"region"},
			wantReason: StopHighConfidence,
			wantStop:   true,
		},
		{
			name:       "average just below threshold keeps going",
			candidates: scoredSet(0.96, 0.95, 0.90, 0.40, 0.30),
			asked:      []string{"region"},
			wantStop:   false,
		},
		{
			name:       "fewer than three candidates average over what exists",
			candidates: scoredSet(0.97, 0.95),
			asked:      nil,
			wantReason: StopHighConfidence,
			wantStop:   true,
		},
		{
			name:       "question cap reached",
			candidates: scoredSet(0.5, 0.5, 0.5, 0.5, 0.5),
			asked:      []string{"age", "region", "business_status", "income_level", "employment_status", "support_type"},
			wantReason: StopMaxQuestionsReached,
			wantStop:   true,
		},
		{
			name:       "two weak candidates left",
			candidates: scoredSet(0.6, 0.4),
			asked:      []string{"region"},
			wantReason: StopFewCandidates,
			wantStop:   true,
		},
		{
			name:       "empty candidate set",
			candidates: nil,
			asked:      []string{"region"},
			wantReason: StopFewCandidates,
			wantStop:   true,
		},
		{
			name:       "three or more viable candidates continue",
			candidates: scoredSet(0.6, 0.5, 0.4),
			asked:      []string{"region"},
			wantStop:   false,
		},
		{
			name:       "confidence outranks the turn cap",
			candidates: scoredSet(0.99, 0.97, 0.96),
			asked:      []string{"a", "b", "c", "d", "e", "f"},
			wantReason: StopHighConfidence,
			wantStop:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, stop := EvaluateStopping(tt.candidates, tt.asked)
			if stop != tt.wantStop {
				t.Fatalf("stop = %v, want %v", stop, tt.wantStop)
			}
			if stop && reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", reason, tt.wantReason)
			}
		})
	}
}

func TestExpectedInformationGain(t *testing.T) {
	tests := []struct {
		count int
		want  float64
	}{
		{0, 0},
		{1, 0},
		{2, 0.3},               // log2(2)*0.3
		{8, 0.9},               // log2(8)*0.3
		{100, math.Log2(100) * 0.3},
	}

	for _, tt := range tests {
		if got := ExpectedInformationGain(tt.count); !almostEqual(got, tt.want) {
			t.Errorf("ExpectedInformationGain(%d) = %v, want %v", tt.count, got, tt.want)
		}
	}
}

func TestInformationGainNeverTriggersBeforeFewCandidates(t *testing.T) {
	// log2(n)*0.3 < 0.05 requires n=1, which few_candidates already covers,
	// so with three or more candidates the gain check cannot fire.
	if ExpectedInformationGain(3) < minInformationGain {
		t.Fatal("gain for 3 candidates should clear the threshold")
	}
	reason, stop := EvaluateStopping(scoredSet(0.5, 0.5, 0.5), nil)
	if stop {
		t.Fatalf("unexpected stop: %q", reason)
	}
}
