package matching

import (
	"sort"
	"strings"
	"time"
)

// Final-ranking weights. Rule-based eligibility carries the most weight,
// then semantic fit, then the corpus signals.
const (
	weightConditionMatch = 0.4
	weightSimilarity     = 0.3
	weightPopularity     = 0.2
	weightRecency        = 0.1

	maxRankedItems = 10
	maxReasons     = 3

	recencyFloor   = 0.1
	recencyHorizon = 365 // days until an item decays to the floor
)

// FinalRanker produces the terminal ordered result list with per-item
// justifications and an aggregate quality grade.
type FinalRanker struct {
	now func() time.Time
}

func NewFinalRanker() *FinalRanker {
	return &FinalRanker{now: time.Now}
}

// NewFinalRankerAt pins the clock, for reproducible recency scoring.
func NewFinalRankerAt(now func() time.Time) *FinalRanker {
	return &FinalRanker{now: now}
}

// Rank recomputes condition matching against the final profile state (the
// profile may have grown since retrieval), combines the four score terms,
// and returns the top candidates sorted by final score descending. Ties
// order by policy id ascending for determinism.
func (r *FinalRanker) Rank(candidates []ScoredCandidate, profile Profile) []RankedItem {
	items := make([]RankedItem, len(candidates))
	for i, c := range candidates {
		conditionScore := FilterScore(c.Candidate, profile)
		similarity := clamp01(c.Similarity)
		popularity := clamp01(c.Popularity)
		recency := r.recencyScore(c.CreatedAt)

		final := weightConditionMatch*conditionScore +
			weightSimilarity*similarity +
			weightPopularity*popularity +
			weightRecency*recency

		items[i] = RankedItem{
			PolicyID:            c.ID,
			Title:               c.Title,
			FinalScore:          clamp01(final),
			ConditionMatchScore: conditionScore,
			SimilarityScore:     similarity,
			PopularityScore:     popularity,
			RecencyScore:        recency,
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].FinalScore != items[j].FinalScore {
			return items[i].FinalScore > items[j].FinalScore
		}
		return items[i].PolicyID.String() < items[j].PolicyID.String()
	})

	if len(items) > maxRankedItems {
		items = items[:maxRankedItems]
	}
	for i := range items {
		items[i].Reason = justify(items[i])
	}
	return items
}

// recencyScore decays linearly over a year but never fully discounts old
// programs. Items without a creation date get a neutral score.
func (r *FinalRanker) recencyScore(createdAt time.Time) float64 {
	if createdAt.IsZero() {
		return 0.5
	}
	days := r.now().Sub(createdAt).Hours() / 24
	score := 1 - days/recencyHorizon
	if score < recencyFloor {
		return recencyFloor
	}
	return clamp01(score)
}

// justify names the score components that stand out; when nothing does, the
// item merely meets the basic criteria.
func justify(item RankedItem) string {
	var reasons []string
	if item.ConditionMatchScore > 0.8 {
		reasons = append(reasons, "조건이 잘 맞음")
	}
	if item.SimilarityScore > 0.8 {
		reasons = append(reasons, "관심 분야와 유사")
	}
	if item.FinalScore > 0.9 {
		reasons = append(reasons, "종합 점수 높음")
	}
	if len(reasons) == 0 {
		return "매칭 조건 충족"
	}
	return strings.Join(reasons, ", ")
}

// Quality grades the result set by the average final score. An empty result
// is the one case that earns an F.
func Quality(items []RankedItem) MatchQuality {
	if len(items) == 0 {
		return MatchQuality{Score: 0, Grade: "F"}
	}
	var sum float64
	for _, item := range items {
		sum += item.FinalScore
	}
	avg := sum / float64(len(items))

	grade := "D"
	switch {
	case avg >= 0.9:
		grade = "A"
	case avg >= 0.8:
		grade = "B"
	case avg >= 0.7:
		grade = "C"
	}
	return MatchQuality{Score: avg, Grade: grade}
}

// TopReasons collects the justifications of the leading items.
func TopReasons(items []RankedItem) []string {
	limit := maxReasons
	if len(items) < limit {
		limit = len(items)
	}
	reasons := make([]string, 0, limit)
	for _, item := range items[:limit] {
		reasons = append(reasons, item.Reason)
	}
	return reasons
}
