package model

// Body part tags selecting the screening pathway
const (
	BodyPartSkin    = "skin"
	BodyPartThroat  = "throat"
	BodyPartBreast  = "breast"
	BodyPartGeneral = "general"
)

// Question is one multiple-choice question with exactly four options.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Assessment is a parsed risk assessment. RiskLevel is Low, Medium or High.
type Assessment struct {
	RiskLevel       string   `json:"riskLevel"`
	Confidence      int      `json:"confidence"`
	Explanation     string   `json:"explanation"`
	Recommendations []string `json:"recommendations"`
}

// ChatTurn is one entry of the chatbot conversation history.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type GenerateQuestionRequest struct {
	BodyPart          string   `json:"bodyPart"`
	PreviousQuestions []string `json:"previousQuestions"`
	PreviousAnswers   []string `json:"previousAnswers"`
}

type GenerateAssessmentRequest struct {
	BodyPart  string   `json:"bodyPart"`
	Questions []string `json:"questions"`
	Answers   []string `json:"answers"`
}

type AnalyzeSymptomsRequest struct {
	Symptoms   []string `json:"symptoms" binding:"required,min=1"`
	CancerType string   `json:"cancerType" binding:"required"`
}

type ChatbotRequest struct {
	Query   string     `json:"query"`
	History []ChatTurn `json:"history"`
}

type ChatbotResponse struct {
	Response string `json:"response"`
}

// Prediction is the image classifier reply.
type Prediction struct {
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
	ImageURL   string  `json:"image_url"`
}
