package main

import (
	"encoding/json"
	"log"

	"policy-matching-be/internal/model"
	"policy-matching-be/pkg/matching"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type seedPolicy struct {
	Title       string
	Description string
	Category    string
	Agency      string
	ApplyURL    string
	Conditions  map[string]matching.Condition
}

func f(v float64) *float64 { return &v }

// SeedPolicies populates the catalog with a representative set of Korean
// government support programs. Idempotent on title.
func SeedPolicies(db *gorm.DB) {
	policies := []seedPolicy{
		{
			Title:       "청년창업사관학교",
			Description: "유망 창업 아이템을 보유한 청년 창업자를 선발하여 사업화 자금과 창업 공간, 교육을 일괄 지원합니다.",
			Category:    "창업지원",
			Agency:      "중소벤처기업진흥공단",
			ApplyURL:    "https://start.kosmes.or.kr",
			Conditions: map[string]matching.Condition{
				"age":             {Min: f(19), Max: f(39)},
				"business_status": {Values: []string{"준비중", "예"}},
				"support_type":    {Values: []string{"창업지원"}},
			},
		},
		{
			Title:       "서울시 청년월세지원",
			Description: "서울에 거주하는 무주택 청년에게 월 20만원의 월세를 최대 12개월 지원합니다.",
			Category:    "주거지원",
			Agency:      "서울특별시",
			ApplyURL:    "https://housing.seoul.go.kr",
			Conditions: map[string]matching.Condition{
				"age":          {Min: f(19), Max: f(39)},
				"region":       {Values: []string{"서울"}},
				"support_type": {Values: []string{"주거지원"}},
			},
		},
		{
			Title:       "국민취업지원제도",
			Description: "취업을 원하는 구직자에게 취업지원서비스와 구직촉진수당을 제공하는 한국형 실업부조 제도입니다.",
			Category:    "취업지원",
			Agency:      "고용노동부",
			ApplyURL:    "https://www.kua.go.kr",
			Conditions: map[string]matching.Condition{
				"age":               {Min: f(15), Max: f(69)},
				"employment_status": {Values: []string{"구직중", "무직"}},
				"support_type":      {Values: []string{"취업지원"}},
			},
		},
		{
			Title:       "소상공인 정책자금",
			Description: "소상공인의 경영 안정과 성장에 필요한 운전자금 및 시설자금을 저금리로 융자합니다.",
			Category:    "창업지원",
			Agency:      "소상공인시장진흥공단",
			ApplyURL:    "https://ols.semas.or.kr",
			Conditions: map[string]matching.Condition{
				"business_status": {Values: []string{"예"}},
				"support_type":    {Values: []string{"창업지원"}},
			},
		},
		{
			Title:       "기초생활수급자 교육급여",
			Description: "기초생활수급 가구의 초중고 학생에게 교육활동지원비와 교과서 대금 등을 지원합니다.",
			Category:    "교육지원",
			Agency:      "교육부",
			ApplyURL:    "https://www.bokjiro.go.kr",
			Conditions: map[string]matching.Condition{
				"income_level":      {Values: []string{"기초생활수급"}},
				"employment_status": {Values: []string{"학생"}},
				"support_type":      {Values: []string{"교육지원"}},
			},
		},
		{
			Title:       "경기도 청년기본소득",
			Description: "경기도에 거주하는 만 24세 청년에게 분기별 25만원을 지역화폐로 지급합니다.",
			Category:    "복지지원",
			Agency:      "경기도",
			ApplyURL:    "https://apply.jobaba.net",
			Conditions: map[string]matching.Condition{
				"age":    {Min: f(24), Max: f(24)},
				"region": {Values: []string{"경기"}},
			},
		},
		{
			Title:       "차상위계층 자활근로사업",
			Description: "차상위계층에게 자활 능력 배양을 위한 근로 기회와 기술 훈련을 제공합니다.",
			Category:    "복지지원",
			Agency:      "보건복지부",
			ApplyURL:    "https://www.bokjiro.go.kr",
			Conditions: map[string]matching.Condition{
				"income_level": {Values: []string{"차상위계층", "기초생활수급"}},
				"support_type": {Values: []string{"복지지원"}},
			},
		},
		{
			Title:       "부산 청년 일자리 도약장려금",
			Description: "부산 소재 중소기업이 미취업 청년을 정규직으로 채용하면 인건비를 지원합니다.",
			Category:    "취업지원",
			Agency:      "부산광역시",
			ApplyURL:    "https://www.busan.go.kr",
			Conditions: map[string]matching.Condition{
				"age":               {Min: f(15), Max: f(34)},
				"region":            {Values: []string{"부산"}},
				"employment_status": {Values: []string{"구직중", "무직"}},
			},
		},
	}

	for _, p := range policies {
		conditions, err := json.Marshal(p.Conditions)
		if err != nil {
			log.Printf("Warn: failed to marshal conditions for %q: %v", p.Title, err)
			continue
		}

		record := model.Policy{
			Title:       p.Title,
			Description: p.Description,
			Category:    p.Category,
			Agency:      p.Agency,
			ApplyURL:    p.ApplyURL,
			Conditions:  datatypes.JSON(conditions),
		}

		result := db.Where(model.Policy{Title: p.Title}).FirstOrCreate(&record)
		if result.Error != nil {
			log.Printf("Warn: failed to seed policy %q: %v", p.Title, result.Error)
			continue
		}
		if result.RowsAffected > 0 {
			log.Printf("Seeded policy: %s", p.Title)
		}
	}
}
