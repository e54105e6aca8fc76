package matching

import "sort"

// Retrieval-stage hybrid weights: rule-based filtering dominates, semantic
// similarity refines. Distinct from the final ranking weights in ranking.go.
const (
	retrievalFilterWeight     = 0.6
	retrievalSimilarityWeight = 0.4

	// neutralFilterScore applies when a candidate has no condition the
	// profile can be checked against yet.
	neutralFilterScore = 0.5
)

// FilterScore is the fraction of the candidate's conditions that the current
// profile satisfies, restricted to conditions on attributes the profile
// already knows. Conditions on unknown attributes count neither for nor
// against the candidate.
func FilterScore(candidate Candidate, profile Profile) float64 {
	matched, applicable := 0, 0
	for attribute, condition := range candidate.Conditions {
		value, known := profile[attribute]
		if !known {
			continue
		}
		applicable++
		if condition.Matches(value) {
			matched++
		}
	}
	if applicable == 0 {
		return neutralFilterScore
	}
	return float64(matched) / float64(applicable)
}

// ScoreCandidates computes retrieval-stage hybrid scores and returns the
// candidates sorted by hybrid score descending. Ties order by policy id so
// the ordering is reproducible.
func ScoreCandidates(candidates []Candidate, profile Profile) []ScoredCandidate {
	scored := make([]ScoredCandidate, len(candidates))
	for i, c := range candidates {
		filterScore := FilterScore(c, profile)
		hybrid := retrievalFilterWeight*filterScore + retrievalSimilarityWeight*clamp01(c.Similarity)
		scored[i] = ScoredCandidate{
			Candidate:   c,
			FilterScore: filterScore,
			HybridScore: clamp01(hybrid),
		}
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].HybridScore != scored[j].HybridScore {
			return scored[i].HybridScore > scored[j].HybridScore
		}
		return scored[i].ID.String() < scored[j].ID.String()
	})
	return scored
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
