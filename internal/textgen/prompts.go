package textgen

import (
	"fmt"
	"strings"
)

const chatSystemPrompt = `You are a helpful medical AI assistant for CancerGuardian, a cancer detection platform that focuses on Skin Cancer, Throat Cancer, and Breast Cancer. Provide accurate, helpful, and compassionate responses to user queries.

Follow these guidelines:
1. Provide accurate medical information based on current scientific understanding
2. Be empathetic and supportive while maintaining professionalism
3. Always encourage seeking professional medical advice for specific concerns
4. Focus on cancer education, prevention, and early detection
5. Keep responses concise (maximum 150 words) but informative
6. NEVER provide a specific diagnosis based on symptoms
7. Include a disclaimer when appropriate that your information is not a substitute for professional medical advice`

// StatusProbePrompt is sent by the availability check.
const StatusProbePrompt = "What is cancer? Please provide a one-sentence response."

func analyzePrompt(symptoms []string, cancerType string) string {
	return fmt.Sprintf(`
As a medical AI assistant, analyze these symptoms for %s cancer risk assessment:
%s

Provide response in this exact format:
RISK_LEVEL: [High/Medium/Low]
CONFIDENCE: [0-100]
EXPLANATION: [2-3 sentences explaining the assessment]
RECOMMENDATIONS: [3-4 bullet points of actionable advice]`, cancerType, strings.Join(symptoms, "\n"))
}

// transcript renders Q/A pairs; questions without an answer read "Not answered".
func transcript(questions, answers []string) string {
	pairs := make([]string, 0, len(questions))
	for i, q := range questions {
		a := "Not answered"
		if i < len(answers) && answers[i] != "" {
			a = answers[i]
		}
		pairs = append(pairs, fmt.Sprintf("Q: %s\nA: %s", q, a))
	}
	return strings.Join(pairs, "\n\n")
}

func followUpPrompt(bodyPart string, questions, answers []string) string {
	return fmt.Sprintf(`
You are a medical AI assistant helping with cancer screening. Generate the next follow-up question for a patient who is concerned about potential %[1]s cancer.

Previous questions and answers:
%[2]s

Generate a single, clear multiple-choice question that would help assess the patient's cancer risk. The question should be medical and relevant to %[1]s cancer symptoms or risk factors.

Format your response as follows:
QUESTION: [Your question here]
OPTION A: [First option]
OPTION B: [Second option]
OPTION C: [Third option]
OPTION D: [Fourth option]
`, bodyPart, transcript(questions, answers))
}

func assessmentPrompt(bodyPart string, questions, answers []string) string {
	return fmt.Sprintf(`
You are a medical AI assistant analyzing responses from a cancer screening questionnaire. The patient is concerned about potential %s cancer.

Questionnaire responses:
%s

Based on these responses, provide a risk assessment with the following:
1. Overall risk level (Low, Medium, or High)
2. Confidence percentage (a number between 1-100)
3. A brief explanation of the assessment (3-5 sentences)
4. 3-4 specific recommendations for the patient

Format your response exactly as follows:
RISK_LEVEL: [Low/Medium/High]
CONFIDENCE: [number between 1-100]
EXPLANATION: [Your explanation]
RECOMMENDATIONS:
- [First recommendation]
- [Second recommendation]
- [Third recommendation]
- [Optional fourth recommendation]
`, bodyPart, transcript(questions, answers))
}
