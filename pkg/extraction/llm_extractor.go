package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"policy-matching-be/pkg/llm"
	"policy-matching-be/pkg/matching"
)

const extractionPromptTemplate = `사용자 메시지에서 정책 매칭에 필요한 조건을 추출해주세요:

메시지: "%s"
현재 프로필: %s

다음 형태의 JSON으로만 응답해주세요:
{
    "age": 숫자 또는 null,
    "region": "지역명" 또는 null,
    "business_status": "예/아니오/준비중" 또는 null,
    "income_level": "기초생활수급자/차상위계층/일반" 또는 null,
    "employment_status": "재직중/구직중/학생/기타" 또는 null,
    "support_type": "창업지원/취업지원/주거지원/교육지원/복지지원/기타" 또는 null,
    "confidence": 0.0-1.0
}`

// LLMExtractor asks a language model to pull structured attributes out of
// the message. The model must answer with the JSON schema in the prompt;
// anything else is an extraction error.
type LLMExtractor struct {
	provider llm.LLMProvider
}

var _ matching.ConditionExtractor = &LLMExtractor{}

func NewLLMExtractor(provider llm.LLMProvider) *LLMExtractor {
	return &LLMExtractor{provider: provider}
}

type extractionPayload struct {
	Age              *float64 `json:"age"`
	Region           *string  `json:"region"`
	BusinessStatus   *string  `json:"business_status"`
	IncomeLevel      *string  `json:"income_level"`
	EmploymentStatus *string  `json:"employment_status"`
	SupportType      *string  `json:"support_type"`
	Confidence       float64  `json:"confidence"`
}

func (e *LLMExtractor) Extract(ctx context.Context, message string, profile matching.Profile) (*matching.Extraction, error) {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}

	prompt := fmt.Sprintf(extractionPromptTemplate, message, string(profileJSON))
	raw, err := e.provider.Generate(ctx, prompt, llm.WithTemperature(0.1), llm.WithMaxTokens(500))
	if err != nil {
		return nil, fmt.Errorf("llm extraction call: %w", err)
	}

	var payload extractionPayload
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &payload); err != nil {
		return nil, fmt.Errorf("parse extraction response: %w", err)
	}

	deltas := make(map[string]interface{})
	if payload.Age != nil {
		deltas["age"] = *payload.Age
	}
	if payload.Region != nil {
		deltas["region"] = *payload.Region
	}
	if payload.BusinessStatus != nil {
		deltas["business_status"] = *payload.BusinessStatus
	}
	if payload.IncomeLevel != nil {
		deltas["income_level"] = *payload.IncomeLevel
	}
	if payload.EmploymentStatus != nil {
		deltas["employment_status"] = *payload.EmploymentStatus
	}
	if payload.SupportType != nil {
		deltas["support_type"] = *payload.SupportType
	}

	confidence := payload.Confidence
	if confidence == 0 {
		confidence = 0.8
	}

	return &matching.Extraction{
		Deltas:     deltas,
		Confidence: confidence,
	}, nil
}

// stripCodeFence tolerates models that wrap the JSON in a markdown fence.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
