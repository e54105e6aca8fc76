package matching

import "math"

// Stopping thresholds, carried over from the production tuning of the
// matching pipeline.
const (
	confidenceThreshold = 0.95
	maxQuestions        = 6
	fewCandidatesLimit  = 2
	minInformationGain  = 0.05

	// assumedReduction is the fraction of outcome entropy one more answer
	// is expected to remove.
	assumedReduction = 0.3
)

// EvaluateStopping runs the ordered stopping checks against a freshly scored
// candidate set. The order encodes priority: a confident match wins even
// with questions left, and the turn cap overrides everything below it.
// Returns the matched reason and true when the dialogue should stop.
//
// An empty candidate set stops as few_candidates; callers that need to tell
// "zero matches" apart from "one or two weak matches" must inspect the
// result list length.
func EvaluateStopping(candidates []ScoredCandidate, questionsAsked []string) (StopReason, bool) {
	if len(candidates) > 0 {
		top := candidates
		if len(top) > 3 {
			top = top[:3]
		}
		var sum float64
		for _, c := range top {
			sum += c.HybridScore
		}
		if sum/float64(len(top)) >= confidenceThreshold {
			return StopHighConfidence, true
		}
	}

	if len(questionsAsked) >= maxQuestions {
		return StopMaxQuestionsReached, true
	}

	if len(candidates) <= fewCandidatesLimit {
		return StopFewCandidates, true
	}

	if ExpectedInformationGain(len(candidates)) < minInformationGain {
		return StopLowInformationGain, true
	}

	return "", false
}

// ExpectedInformationGain estimates the entropy reduction the next question
// buys: Shannon entropy of a uniform choice over the candidates, discounted
// by the assumed per-question reduction.
func ExpectedInformationGain(candidateCount int) float64 {
	if candidateCount <= 1 {
		return 0
	}
	return math.Log2(float64(candidateCount)) * assumedReduction
}
