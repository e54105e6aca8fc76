package matching

import "testing"

func candidateWith(conditions map[string]Condition) ScoredCandidate {
	return ScoredCandidate{Candidate: Candidate{Conditions: conditions}}
}

func TestCoverage(t *testing.T) {
	tests := []struct {
		name       string
		conditions []Condition
		want       float64
	}{
		{
			name: "all distinct",
			conditions: []Condition{
				{Values: []string{"서울"}},
				{Values: []string{"부산"}},
				{Values: []string{"대구"}},
			},
			want: 1.0,
		},
		{
			name: "all identical",
			conditions: []Condition{
				{Values: []string{"서울"}},
				{Values: []string{"서울"}},
			},
			want: 0.5,
		},
		{
			name: "value order does not split a set condition",
			conditions: []Condition{
				{Values: []string{"서울", "경기"}},
				{Values: []string{"경기", "서울"}},
			},
			want: 0.5,
		},
		{
			name:       "empty",
			conditions: nil,
			want:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coverage(tt.conditions); !almostEqual(got, tt.want) {
				t.Errorf("coverage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectPrefersHighCoverageLowSensitivity(t *testing.T) {
	selector := NewQuestionSelector(DefaultCatalog())
	candidates := []ScoredCandidate{
		candidateWith(map[string]Condition{
			"region":       {Values: []string{"서울"}},
			"income_level": {Values: []string{"기초생활수급자"}},
		}),
		candidateWith(map[string]Condition{
			"region":       {Values: []string{"부산"}},
			"income_level": {Values: []string{"차상위계층"}},
		}),
	}

	pick := selector.Select(candidates, Profile{}, nil)
	if pick == nil {
		t.Fatal("expected a question")
	}
	// Both attributes split the set perfectly; region's sensitivity 0.3
	// beats income_level's 0.9.
	if pick.Field != "region" {
		t.Errorf("Field = %q, want region", pick.Field)
	}
	if !almostEqual(pick.InformationGain, 0.7) {
		t.Errorf("InformationGain = %v, want 0.7", pick.InformationGain)
	}
}

func TestSelectTieBreaksLexicographically(t *testing.T) {
	catalog := NewCatalog([]Attribute{
		{Name: "beta", Sensitivity: 0.4},
		{Name: "alpha", Sensitivity: 0.4},
	})
	selector := NewQuestionSelector(catalog)
	candidates := []ScoredCandidate{
		candidateWith(map[string]Condition{
			"beta":  {Values: []string{"x"}},
			"alpha": {Values: []string{"x"}},
		}),
		candidateWith(map[string]Condition{
			"beta":  {Values: []string{"y"}},
			"alpha": {Values: []string{"y"}},
		}),
	}

	pick := selector.Select(candidates, Profile{}, nil)
	if pick == nil || pick.Field != "alpha" {
		t.Fatalf("expected alpha on tie, got %+v", pick)
	}
}

func TestSelectExcludesAskedAndKnown(t *testing.T) {
	selector := NewQuestionSelector(DefaultCatalog())
	candidates := []ScoredCandidate{
		candidateWith(map[string]Condition{
			"region":       {Values: []string{"서울"}},
			"age":          {Min: floatPtr(20), Max: floatPtr(39)},
			"support_type": {Values: []string{"창업지원"}},
		}),
		candidateWith(map[string]Condition{
			"region":       {Values: []string{"부산"}},
			"age":          {Min: floatPtr(40)},
			"support_type": {Values: []string{"취업지원"}},
		}),
	}

	pick := selector.Select(candidates, Profile{"region": "서울"}, []string{"support_type"})
	if pick == nil {
		t.Fatal("expected a question")
	}
	if pick.Field == "region" {
		t.Error("selected an already-known attribute")
	}
	if pick.Field == "support_type" {
		t.Error("selected an already-asked attribute")
	}
	if pick.Field != "age" {
		t.Errorf("Field = %q, want age", pick.Field)
	}
}

func TestSelectExhausted(t *testing.T) {
	selector := NewQuestionSelector(DefaultCatalog())
	candidates := []ScoredCandidate{
		candidateWith(map[string]Condition{"region": {Values: []string{"서울"}}}),
	}

	if pick := selector.Select(candidates, Profile{"region": "서울"}, nil); pick != nil {
		t.Errorf("expected nil when everything is known, got %+v", pick)
	}
	if pick := selector.Select(nil, Profile{}, nil); pick != nil {
		t.Errorf("expected nil for empty candidates, got %+v", pick)
	}
}

func TestSelectUncataloguedAttributeGetsNeutralSensitivity(t *testing.T) {
	selector := NewQuestionSelector(DefaultCatalog())
	candidates := []ScoredCandidate{
		candidateWith(map[string]Condition{"household_size": {Values: []string{"1"}}}),
		candidateWith(map[string]Condition{"household_size": {Values: []string{"4"}}}),
	}

	pick := selector.Select(candidates, Profile{}, nil)
	if pick == nil || pick.Field != "household_size" {
		t.Fatalf("expected household_size, got %+v", pick)
	}
	// coverage 1.0 * (1 - 0.5 default)
	if !almostEqual(pick.InformationGain, 0.5) {
		t.Errorf("InformationGain = %v, want 0.5", pick.InformationGain)
	}
}
