package textgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwalitptl/cancerguard-api/internal/model"
)

const (
	highRiskReply = `RISK_LEVEL: High
CONFIDENCE: 85
EXPLANATION: The combination of severe and persistent symptoms indicates a higher risk level that requires immediate medical attention. These symptoms are commonly associated with potential malignancies and should not be ignored.
RECOMMENDATIONS:
- Schedule an urgent appointment with a specialist
- Get comprehensive medical tests done
- Document all symptoms and their progression
- Avoid activities that might worsen the symptoms`

	lowRiskReply = `RISK_LEVEL: Low
CONFIDENCE: 75
EXPLANATION: Based on the symptoms described, the risk appears to be relatively low. The symptoms you've reported are common and often associated with benign conditions rather than cancer. However, it's essential to monitor any changes and seek medical advice if symptoms persist or worsen.
RECOMMENDATIONS:
- Schedule a routine check-up with your primary care physician
- Monitor your symptoms and keep a journal of any changes
- Maintain a healthy lifestyle with regular exercise and balanced diet
- Avoid known risk factors such as smoking or excessive alcohol consumption`

	concernChatReply = "I understand your concern about cancer symptoms. It's essential to note that many symptoms can be caused by less serious conditions. However, persistent symptoms should always be evaluated by a healthcare professional. Early detection of cancer significantly improves treatment outcomes. I recommend consulting with a doctor who can perform appropriate tests and provide a proper medical assessment. Remember that this information is not a substitute for professional medical advice."

	genericChatReply = "I understand your question. While I don't have enough information to provide a specific answer, I recommend consulting with a healthcare professional for personalized advice. Early detection and regular check-ups are key to maintaining your health."
)

var commonQuestions = []model.Question{
	{Question: "How long have you had these symptoms?", Options: []string{"Less than 2 weeks", "2 weeks to 1 month", "1 to 6 months", "More than 6 months"}},
	{Question: "Have the symptoms changed or worsened recently?", Options: []string{"No change", "Slightly worse", "Noticeably worse", "Severe and getting worse quickly"}},
	{Question: "Does anyone in your close family have a history of cancer?", Options: []string{"No", "Yes, a distant relative", "Yes, one close relative", "Yes, several close relatives"}},
	{Question: "Do you smoke or use tobacco products?", Options: []string{"Never", "Quit more than 5 years ago", "Quit recently", "Yes, currently"}},
	{Question: "Have you had any unexplained weight loss in the last few months?", Options: []string{"No", "A little, under 2 kg", "Moderate, 2 to 5 kg", "Significant, over 5 kg"}},
}

var bodyPartQuestions = map[string][]model.Question{
	model.BodyPartSkin: {
		{Question: "Has the mole or lesion changed in size, shape or color?", Options: []string{"No changes", "Slight change in color", "Growing in size", "Changed in size, shape and color"}},
		{Question: "Are the borders of the spot regular?", Options: []string{"Smooth and even", "Mostly even", "Slightly irregular", "Ragged or blurred"}},
		{Question: "Does the spot itch, bleed or crust?", Options: []string{"Never", "Occasionally itches", "Sometimes bleeds", "Bleeds or crusts regularly"}},
		{Question: "How much sun exposure have you had over your life?", Options: []string{"Very little", "Moderate", "Frequent, with occasional sunburn", "Heavy, with severe sunburns"}},
	},
	model.BodyPartThroat: {
		{Question: "Do you have difficulty or pain when swallowing?", Options: []string{"No", "Occasionally", "Often", "Persistent and getting worse"}},
		{Question: "Have you noticed changes in your voice, such as hoarseness?", Options: []string{"No", "Mild, comes and goes", "Lasting more than 2 weeks", "Persistent for over a month"}},
		{Question: "Have you felt a lump in your neck?", Options: []string{"No", "Not sure", "Yes, small and soft", "Yes, hard and not moving"}},
		{Question: "How often do you drink alcohol?", Options: []string{"Never", "Occasionally", "Several times a week", "Daily"}},
	},
	model.BodyPartBreast: {
		{Question: "Have you noticed a lump in the breast or underarm?", Options: []string{"No", "Not sure", "Yes, soft and movable", "Yes, hard and fixed"}},
		{Question: "Have you noticed changes to the nipple?", Options: []string{"No", "Slight changes", "Inversion or discharge", "Bloody discharge"}},
		{Question: "Has the skin of the breast changed?", Options: []string{"No", "Mild redness", "Dimpling or puckering", "Severe redness or an orange-peel texture"}},
		{Question: "Have you had a mammogram in the last two years?", Options: []string{"Yes, normal result", "Yes, follow-up requested", "No, never", "Not applicable"}},
	},
	model.BodyPartGeneral: {
		{Question: "Where is your main concern located?", Options: []string{"Head or neck", "Chest or abdomen", "Limbs or skin", "Several areas"}},
		{Question: "Do you feel unusually tired most days?", Options: []string{"No", "Sometimes", "Most days", "Severe and persistent fatigue"}},
		{Question: "Have you had night sweats or fevers without a clear cause?", Options: []string{"No", "Once or twice", "Several times", "Persistent for weeks"}},
		{Question: "Have you had any unusual bleeding or bruising?", Options: []string{"No", "Minor bruising", "Unusual bleeding once", "Repeated unusual bleeding"}},
	},
}

// FallbackGenerator returns deterministic canned replies in the same line
// format the model is asked for, so replies still go through the parser.
type FallbackGenerator struct{}

func (FallbackGenerator) Generate(ctx context.Context, r Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text := strings.ToLower(r.Text())

	switch r.Op {
	case OpAnalyze, OpAssessment:
		if strings.Contains(text, "severe") || strings.Contains(text, "persistent") {
			return highRiskReply, nil
		}
		return lowRiskReply, nil
	case OpQuestion:
		q := FallbackQuestion(r.BodyPart, r.Step)
		return fmt.Sprintf("QUESTION: %s\nOPTION A: %s\nOPTION B: %s\nOPTION C: %s\nOPTION D: %s",
			q.Question, q.Options[0], q.Options[1], q.Options[2], q.Options[3]), nil
	default:
		// Only the latest turn counts; the system prompt mentions symptoms itself.
		last := ""
		if n := len(r.Contents); n > 0 {
			last = strings.ToLower(Request{Contents: r.Contents[n-1:]}.Text())
		}
		if strings.Contains(last, "symptom") {
			return concernChatReply, nil
		}
		return genericChatReply, nil
	}
}

// FallbackQuestion picks the canned question for a step. Step counts the
// questions already asked, so the first follow-up is step 1.
func FallbackQuestion(bodyPart string, step int) model.Question {
	specific, ok := bodyPartQuestions[strings.ToLower(bodyPart)]
	if !ok {
		specific = bodyPartQuestions[model.BodyPartGeneral]
	}
	bank := append(append([]model.Question{}, specific...), commonQuestions...)
	if step < 1 {
		step = 1
	}
	return bank[(step-1)%len(bank)]
}
