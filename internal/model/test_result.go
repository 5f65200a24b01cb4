package model

import "strings"

// Test types
const (
	TestTypeBasic    = "basic"
	TestTypeAdvanced = "advanced"
)

// Result categories
const (
	ResultPositive     = "positive"
	ResultInconclusive = "inconclusive"
	ResultNegative     = "negative"
)

// Risk levels as persisted. The text generator reports them capitalized.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// QAPair is one answered question of a questionnaire.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Questionnaire is the ordered transcript stored with a test result.
type Questionnaire = JSONColumn[[]QAPair]

// TestResult represents a completed screening
type TestResult struct {
	Base
	UserID          int64         `json:"userId" db:"user_id"`
	TestType        string        `json:"testType" db:"test_type"`
	CancerType      string        `json:"cancerType" db:"cancer_type"`
	Result          string        `json:"result" db:"result"`
	RiskLevel       string        `json:"riskLevel" db:"risk_level"`
	Confidence      *int          `json:"confidence" db:"confidence"`
	Recommendations *string       `json:"recommendations" db:"recommendations"`
	Questionnaire   Questionnaire `json:"questionnaire" db:"questionnaire"`
	ImageURL        *string       `json:"imageUrl,omitempty" db:"image_url"`
}

// CreateTestResultRequest represents test result creation parameters.
// Result is accepted for compatibility but recomputed from Confidence.
type CreateTestResultRequest struct {
	TestType        string   `json:"testType" binding:"required,oneof=basic advanced"`
	CancerType      string   `json:"cancerType" binding:"required,max=50"`
	RiskLevel       string   `json:"riskLevel" binding:"required"`
	Confidence      *int     `json:"confidence" binding:"required,min=0,max=100"`
	Recommendations *string  `json:"recommendations"`
	Questionnaire   []QAPair `json:"questionnaire"`
	ImageURL        *string  `json:"imageUrl" binding:"omitempty,max=2048"`
	Result          string   `json:"result"`
}

// ClassifyResult buckets a 0-100 confidence score.
func ClassifyResult(confidence int) string {
	switch {
	case confidence > 60:
		return ResultPositive
	case confidence > 30:
		return ResultInconclusive
	default:
		return ResultNegative
	}
}

// NormalizeRiskLevel lowercases a risk level and reports whether it is known.
func NormalizeRiskLevel(level string) (string, bool) {
	l := strings.ToLower(strings.TrimSpace(level))
	switch l {
	case RiskLow, RiskMedium, RiskHigh:
		return l, true
	}
	return "", false
}
