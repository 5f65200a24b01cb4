package textgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssessment(t *testing.T) {
	raw := "Here is my assessment.\n" +
		"RISK_LEVEL: Medium\n" +
		"CONFIDENCE: 64%\n" +
		"EXPLANATION: The reported changes warrant attention.\n" +
		"They are not conclusive on their own.\n" +
		"RECOMMENDATIONS:\n" +
		"- See a dermatologist\n" +
		"- Photograph the lesion weekly\n" +
		"\n" +
		"- Use sunscreen\n" +
		"Stay well."

	a, err := ParseAssessment(raw)
	require.NoError(t, err)
	assert.Equal(t, "Medium", a.RiskLevel)
	assert.Equal(t, 64, a.Confidence)
	assert.Equal(t, "The reported changes warrant attention.\nThey are not conclusive on their own.", a.Explanation)
	assert.Equal(t, []string{"See a dermatologist", "Photograph the lesion weekly", "Use sunscreen"}, a.Recommendations)
}

func TestParseAssessment_MarkdownAndCase(t *testing.T) {
	raw := "**RISK_LEVEL:** high\n**CONFIDENCE:** [140]\n**EXPLANATION:** Urgent.\n"

	a, err := ParseAssessment(raw)
	require.NoError(t, err)
	assert.Equal(t, "High", a.RiskLevel)
	assert.Equal(t, 100, a.Confidence, "confidence is clamped")
	assert.Empty(t, a.Recommendations)
	assert.NotNil(t, a.Recommendations)
}

func TestParseAssessment_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing risk level", "CONFIDENCE: 50\nEXPLANATION: x"},
		{"missing explanation", "RISK_LEVEL: Low\nCONFIDENCE: 50"},
		{"non numeric confidence", "RISK_LEVEL: Low\nCONFIDENCE: unknown\nEXPLANATION: x"},
		{"unknown risk level", "RISK_LEVEL: Extreme\nCONFIDENCE: 50\nEXPLANATION: x"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAssessment(tt.raw)
			require.Error(t, err)

			var m *MalformedResponseError
			require.ErrorAs(t, err, &m)
			assert.Equal(t, tt.raw, m.Raw)
		})
	}
}

func TestParseQuestion(t *testing.T) {
	raw := "QUESTION: How long have you had the sore throat?\n" +
		"OPTION A: Under a week\n" +
		"OPTION B: 1-3 weeks\n" +
		"OPTION C: 1-3 months\n" +
		"OPTION D: Longer\n"

	q, err := ParseQuestion(raw)
	require.NoError(t, err)
	assert.Equal(t, "How long have you had the sore throat?", q.Question)
	assert.Equal(t, []string{"Under a week", "1-3 weeks", "1-3 months", "Longer"}, q.Options)
}

func TestParseQuestion_MissingOption(t *testing.T) {
	_, err := ParseQuestion("QUESTION: Anything else?\nOPTION A: a\nOPTION B: b\nOPTION C: c")
	require.Error(t, err)

	var m *MalformedResponseError
	require.ErrorAs(t, err, &m)
	assert.Equal(t, []string{"OPTION D"}, m.Missing)
	assert.True(t, IsMalformed(err))
}

func TestGrammar_FirstOccurrenceWins(t *testing.T) {
	p, err := questionGrammar.Parse("QUESTION: first\nQUESTION: second\nOPTION A: a\nOPTION B: b\nOPTION C: c\nOPTION D: d")
	require.NoError(t, err)
	assert.Equal(t, "first", p.Value("QUESTION"))
}
