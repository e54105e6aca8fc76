package extraction

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"policy-matching-be/pkg/matching"
)

// keywordConfidence marks rule-based deltas as less certain than model
// output.
const keywordConfidence = 0.6

var (
	regions = []string{"서울", "경기", "인천", "부산", "대구", "광주", "대전", "울산", "세종"}

	ageExactRe  = regexp.MustCompile(`(\d+)(?:살|세)`)
	ageKoreanRe = regexp.MustCompile(`만\s*(\d+)`)
	ageDecadeRe = regexp.MustCompile(`(\d+)대`)

	supportKeywords = []struct {
		supportType string
		keywords    []string
	}{
		{"창업지원", []string{"창업", "스타트업"}},
		{"취업지원", []string{"취업", "일자리", "구직"}},
		{"주거지원", []string{"주택", "주거", "임대", "전세"}},
		{"교육지원", []string{"교육", "학습", "연수", "교육비"}},
		{"복지지원", []string{"복지", "수당", "급여"}},
	}

	negationWords = []string{"없", "안 ", "아니"}
)

// KeywordExtractor recognizes profile attributes with Korean keyword and
// pattern rules. It needs no external service, which is why it backs the
// LLM extractor.
type KeywordExtractor struct{}

var _ matching.ConditionExtractor = &KeywordExtractor{}

func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{}
}

func (e *KeywordExtractor) Extract(_ context.Context, message string, _ matching.Profile) (*matching.Extraction, error) {
	deltas := make(map[string]interface{})

	for _, region := range regions {
		if strings.Contains(message, region) {
			deltas["region"] = region
			break
		}
	}

	if age, ok := extractAge(message); ok {
		deltas["age"] = age
	}

	if strings.Contains(message, "사업자") || strings.Contains(message, "창업") || strings.Contains(message, "사업") {
		switch {
		case containsAny(message, negationWords):
			deltas["business_status"] = "아니오"
		case strings.Contains(message, "준비"):
			deltas["business_status"] = "준비중"
		default:
			deltas["business_status"] = "예"
		}
	}

	for _, entry := range supportKeywords {
		if containsAny(message, entry.keywords) {
			deltas["support_type"] = entry.supportType
			break
		}
	}

	switch {
	case strings.Contains(message, "재직") || strings.Contains(message, "직장인"):
		deltas["employment_status"] = "재직중"
	case strings.Contains(message, "구직") || strings.Contains(message, "백수"):
		deltas["employment_status"] = "구직중"
	case strings.Contains(message, "학생") || strings.Contains(message, "대학"):
		deltas["employment_status"] = "학생"
	}

	switch {
	case strings.Contains(message, "기초생활수급"):
		deltas["income_level"] = "기초생활수급자"
	case strings.Contains(message, "차상위"):
		deltas["income_level"] = "차상위계층"
	}

	return &matching.Extraction{
		Deltas:     deltas,
		Confidence: keywordConfidence,
	}, nil
}

// extractAge reads an explicit age first and falls back to the decade form
// ("30대"), which maps to the decade midpoint so numeric range conditions
// still apply.
func extractAge(message string) (float64, bool) {
	if m := ageExactRe.FindStringSubmatch(message); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return float64(n), true
		}
	}
	if m := ageKoreanRe.FindStringSubmatch(message); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return float64(n), true
		}
	}
	if m := ageDecadeRe.FindStringSubmatch(message); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 10 && n < 100 {
			return float64(n + 5), true
		}
	}
	return 0, false
}

func containsAny(message string, words []string) bool {
	for _, w := range words {
		if strings.Contains(message, w) {
			return true
		}
	}
	return false
}
