package matching

// Attribute is a named dimension of the user profile with the metadata the
// question selector needs: how invasive it is to ask about, the options the
// UI should render, and the question phrasing.
type Attribute struct {
	Name        string
	Question    string
	Options     []string
	Sensitivity float64 // [0,1], higher = more privacy-sensitive
}

// Catalog holds the attribute bank. Attributes appearing in policy
// conditions but missing from the catalog fall back to a neutral
// sensitivity so they can still be asked about.
type Catalog struct {
	attrs map[string]Attribute
}

const defaultSensitivity = 0.5

func NewCatalog(attrs []Attribute) *Catalog {
	byName := make(map[string]Attribute, len(attrs))
	for _, a := range attrs {
		byName[a.Name] = a
	}
	return &Catalog{attrs: byName}
}

// DefaultCatalog returns the production attribute bank for the Korean
// government support-program domain.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Attribute{
		{
			Name:        "age",
			Question:    "연령대를 알려주시면 더 정확한 매칭이 가능합니다. 몇 세이신가요?",
			Sensitivity: 0.7,
		},
		{
			Name:        "region",
			Question:    "거주하고 계신 지역을 알려주세요.",
			Options:     []string{"서울", "경기", "인천", "부산", "대구", "광주", "대전", "울산", "세종", "기타"},
			Sensitivity: 0.3,
		},
		{
			Name:        "business_status",
			Question:    "현재 사업자등록을 하셨나요?",
			Options:     []string{"예", "아니오", "준비중"},
			Sensitivity: 0.2,
		},
		{
			Name:        "income_level",
			Question:    "소득 수준을 알려주시면 맞춤 지원을 찾아드릴 수 있어요.",
			Options:     []string{"기초생활수급자", "차상위계층", "일반"},
			Sensitivity: 0.9,
		},
		{
			Name:        "employment_status",
			Question:    "현재 취업 상태는 어떻게 되시나요?",
			Options:     []string{"재직중", "구직중", "학생", "기타"},
			Sensitivity: 0.3,
		},
		{
			Name:        "support_type",
			Question:    "어떤 종류의 지원을 원하시나요?",
			Options:     []string{"창업지원", "취업지원", "주거지원", "교육지원", "복지지원", "기타"},
			Sensitivity: 0.2,
		},
	})
}

// Sensitivity returns the weight for an attribute, defaulting to 0.5 for
// attributes outside the bank.
func (c *Catalog) Sensitivity(name string) float64 {
	if a, ok := c.attrs[name]; ok {
		return a.Sensitivity
	}
	return defaultSensitivity
}

// Lookup returns the full attribute metadata when known.
func (c *Catalog) Lookup(name string) (Attribute, bool) {
	a, ok := c.attrs[name]
	return a, ok
}

// QuestionFor returns the phrasing and options for an attribute, with a
// generic fallback for uncatalogued attributes.
func (c *Catalog) QuestionFor(name string) (string, []string) {
	if a, ok := c.attrs[name]; ok {
		return a.Question, a.Options
	}
	return name + "에 대해 알려주세요.", nil
}
