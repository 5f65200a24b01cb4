package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyResult(t *testing.T) {
	tests := []struct {
		confidence int
		want       string
	}{
		{100, ResultPositive},
		{61, ResultPositive},
		{60, ResultInconclusive},
		{31, ResultInconclusive},
		{30, ResultNegative},
		{0, ResultNegative},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyResult(tt.confidence), "confidence %d", tt.confidence)
	}
}

func TestNormalizeRiskLevel(t *testing.T) {
	l, ok := NormalizeRiskLevel(" High ")
	assert.True(t, ok)
	assert.Equal(t, RiskHigh, l)

	_, ok = NormalizeRiskLevel("extreme")
	assert.False(t, ok)
}

func TestHospitalWithStars(t *testing.T) {
	rating := 45
	h := Hospital{Name: "City", Rating: &rating}.WithStars()
	assert.InDelta(t, 4.5, h.RatingStars, 0.0001)
	assert.NotNil(t, h.Specialties)
}

func TestQuestionnaireColumn(t *testing.T) {
	q := Questionnaire{V: []QAPair{{Question: "Which part of your body is affected?", Answer: "Skin"}}}

	v, err := q.Value()
	require.NoError(t, err)

	var back Questionnaire
	require.NoError(t, back.Scan(v))
	assert.Equal(t, q.V, back.V)

	require.NoError(t, back.Scan(nil))
	assert.Nil(t, back.V)

	assert.Error(t, back.Scan(42))
}

func TestUserNeverSerializesPassword(t *testing.T) {
	u := User{Username: "ann", PasswordHash: "$2a$10$secret"}
	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	assert.NotContains(t, string(b), "password")
}
