package matching

import "sort"

// BuildConditionMatrix maps every attribute appearing in any candidate's
// predicate set to the conditions it takes across the current candidates.
// Derived per turn and discarded after question selection.
func BuildConditionMatrix(candidates []ScoredCandidate) map[string][]Condition {
	matrix := make(map[string][]Condition)
	for _, candidate := range candidates {
		for attribute, condition := range candidate.Conditions {
			matrix[attribute] = append(matrix[attribute], condition)
		}
	}
	return matrix
}

// coverage is the diversity of an attribute across candidates: the ratio of
// distinct condition values to total occurrences. High coverage means an
// answer splits the candidate set well.
func coverage(conditions []Condition) float64 {
	if len(conditions) == 0 {
		return 0
	}
	distinct := make(map[string]struct{}, len(conditions))
	for _, c := range conditions {
		distinct[c.Signature()] = struct{}{}
	}
	return float64(len(distinct)) / float64(len(conditions))
}

// SelectedQuestion is the question selector's pick for the next turn.
type SelectedQuestion struct {
	Field           string
	InformationGain float64
}

// QuestionSelector chooses the single highest-value attribute to ask about
// next, trading filtering power against sensitivity.
type QuestionSelector struct {
	catalog *Catalog
}

func NewQuestionSelector(catalog *Catalog) *QuestionSelector {
	return &QuestionSelector{catalog: catalog}
}

// Select returns the attribute with the highest value score, or nil when
// every candidate-relevant attribute is already asked or known. Ties break
// by ascending attribute name so selection is deterministic.
func (s *QuestionSelector) Select(candidates []ScoredCandidate, profile Profile, questionsAsked []string) *SelectedQuestion {
	matrix := BuildConditionMatrix(candidates)

	asked := make(map[string]struct{}, len(questionsAsked))
	for _, q := range questionsAsked {
		asked[q] = struct{}{}
	}

	attributes := make([]string, 0, len(matrix))
	for attribute := range matrix {
		if _, wasAsked := asked[attribute]; wasAsked {
			continue
		}
		if profile.Has(attribute) {
			continue
		}
		attributes = append(attributes, attribute)
	}
	if len(attributes) == 0 {
		return nil
	}

	// Iterate in name order with a strict > comparison: equal scores keep
	// the lexicographically smaller attribute.
	sort.Strings(attributes)

	var best *SelectedQuestion
	for _, attribute := range attributes {
		value := coverage(matrix[attribute]) * (1 - s.catalog.Sensitivity(attribute))
		if best == nil || value > best.InformationGain {
			best = &SelectedQuestion{Field: attribute, InformationGain: value}
		}
	}
	return best
}
