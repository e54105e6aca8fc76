package matching

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile is the evolving set of known user attributes (age, region, ...).
// Values are typed loosely (float64, string, bool) since they come from
// extraction over free text.
type Profile map[string]interface{}

// Merge applies extraction deltas. Nil values never overwrite known state,
// so attributes are only ever learned, not un-learned.
func (p Profile) Merge(deltas map[string]interface{}) {
	for key, value := range deltas {
		if value == nil {
			continue
		}
		p[key] = value
	}
}

func (p Profile) Has(attribute string) bool {
	_, ok := p[attribute]
	return ok
}

// Keys returns attribute names in sorted order.
func (p Profile) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy. Collaborators get copies so they can never
// mutate session state.
func (p Profile) Clone() Profile {
	clone := make(Profile, len(p))
	for k, v := range p {
		clone[k] = v
	}
	return clone
}

// Condition is one predicate a policy places on a single attribute:
// either an allowed value set or a numeric range.
type Condition struct {
	Values []string `json:"values,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// Matches reports whether a known profile value satisfies the condition.
func (c Condition) Matches(value interface{}) bool {
	if c.Min != nil || c.Max != nil {
		num, ok := toFloat(value)
		if !ok {
			return false
		}
		if c.Min != nil && num < *c.Min {
			return false
		}
		if c.Max != nil && num > *c.Max {
			return false
		}
		return true
	}
	if len(c.Values) == 0 {
		return true
	}
	str := fmt.Sprintf("%v", value)
	for _, allowed := range c.Values {
		if allowed == str {
			return true
		}
	}
	return false
}

// Signature is a stable identity for the condition, used to count distinct
// values when computing attribute coverage across candidates.
func (c Condition) Signature() string {
	if c.Min != nil || c.Max != nil {
		min, max := "-inf", "+inf"
		if c.Min != nil {
			min = fmt.Sprintf("%g", *c.Min)
		}
		if c.Max != nil {
			max = fmt.Sprintf("%g", *c.Max)
		}
		return "range:" + min + ".." + max
	}
	values := append([]string(nil), c.Values...)
	sort.Strings(values)
	return "set:" + strings.Join(values, "|")
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// Candidate is a per-turn, disposable view of one policy as returned by the
// retriever: its predicate set plus the externally computed signals.
type Candidate struct {
	ID         uuid.UUID
	Title      string
	Conditions map[string]Condition
	Similarity float64 // semantic similarity in [0,1], supplied by retrieval
	Popularity float64 // normalized corpus signal in [0,1]
	CreatedAt  time.Time
}

// ScoredCandidate carries retrieval-stage scores alongside the candidate.
type ScoredCandidate struct {
	Candidate
	FilterScore float64
	HybridScore float64
}

// SessionState is the externally persisted, per-conversation record. It is
// mutated exactly once per turn by Engine.Advance.
type SessionState struct {
	Profile        Profile  `json:"profile"`
	QuestionsAsked []string `json:"questions_asked"`
	TurnCount      int      `json:"turn_count"`
}

func NewSessionState() *SessionState {
	return &SessionState{
		Profile:        make(Profile),
		QuestionsAsked: []string{},
	}
}

// Asked reports whether the attribute was already asked this session.
func (s *SessionState) Asked(attribute string) bool {
	for _, asked := range s.QuestionsAsked {
		if asked == attribute {
			return true
		}
	}
	return false
}

// StopReason identifies which criterion terminated the dialogue.
type StopReason string

const (
	StopHighConfidence      StopReason = "high_confidence"
	StopMaxQuestionsReached StopReason = "max_questions_reached"
	StopFewCandidates       StopReason = "few_candidates"
	StopLowInformationGain  StopReason = "low_information_gain"
	StopNoMoreQuestions     StopReason = "no_more_questions"
)

// TurnResult is the outcome of one turn: either a Question to put to the
// user or a FinalResult. The closed interface forces callers to switch on
// the two concrete variants.
type TurnResult interface {
	turnResult()
}

// Question asks the user about a single attribute.
type Question struct {
	Field           string   `json:"field"`
	Text            string   `json:"question"`
	Options         []string `json:"options"`
	InformationGain float64  `json:"information_gain"`
	Step            int      `json:"current_step"`
	MaxSteps        int      `json:"max_steps"`
}

func (Question) turnResult() {}

// FinalResult carries the terminal ranking.
type FinalResult struct {
	Items      []RankedItem `json:"recommendations"`
	Reasons    []string     `json:"recommendation_reasons"`
	StopReason StopReason   `json:"stop_reason"`
	Quality    MatchQuality `json:"match_quality"`
}

func (FinalResult) turnResult() {}

// RankedItem is one policy in the final ranking with its score breakdown.
type RankedItem struct {
	PolicyID            uuid.UUID `json:"policy_id"`
	Title               string    `json:"title"`
	FinalScore          float64   `json:"final_score"`
	ConditionMatchScore float64   `json:"condition_match_score"`
	SimilarityScore     float64   `json:"similarity_score"`
	PopularityScore     float64   `json:"popularity_score"`
	RecencyScore        float64   `json:"recency_score"`
	Reason              string    `json:"reason"`
}

// MatchQuality grades the final result set as a whole.
type MatchQuality struct {
	Score float64 `json:"score"`
	Grade string  `json:"grade"`
}
