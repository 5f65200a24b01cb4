// Package screening drives the client side assessment flows against the
// REST API. Flows are single-user state machines; a call that fails leaves
// the flow exactly where it was.
package screening

import (
	"context"
	"errors"
	"strings"

	"github.com/jwalitptl/cancerguard-api/internal/model"
)

var (
	ErrBusy          = errors.New("a request is already in progress")
	ErrInvalidAnswer = errors.New("answer must be one of the question options")
	ErrNoPrevious    = errors.New("already at the first step")
	ErrWrongState    = errors.New("operation not allowed in the current step")
)

// API is the part of the REST API the flows use.
type API interface {
	GenerateQuestion(ctx context.Context, req model.GenerateQuestionRequest) (*model.Question, error)
	GenerateAssessment(ctx context.Context, req model.GenerateAssessmentRequest) (*model.Assessment, error)
	CreateTestResult(ctx context.Context, req model.CreateTestResultRequest) (*model.TestResult, error)
}

// DetectBodyPart maps the first answer to a body part tag. The first
// keyword found in skin, throat, breast order wins.
func DetectBodyPart(answer string) string {
	a := strings.ToLower(answer)
	for _, part := range []string{model.BodyPartSkin, model.BodyPartThroat, model.BodyPartBreast} {
		if strings.Contains(a, part) {
			return part
		}
	}
	return model.BodyPartGeneral
}

func validOption(options []string, answer string) bool {
	for _, o := range options {
		if o == answer {
			return true
		}
	}
	return false
}

// resultRequest builds the persisted form of an assessment.
func resultRequest(testType, cancerType string, a *model.Assessment, qa []model.QAPair, imageURL *string) model.CreateTestResultRequest {
	confidence := a.Confidence
	recs := strings.Join(a.Recommendations, "; ")
	return model.CreateTestResultRequest{
		TestType:        testType,
		CancerType:      cancerType,
		Result:          model.ClassifyResult(confidence),
		RiskLevel:       strings.ToLower(a.RiskLevel),
		Confidence:      &confidence,
		Recommendations: &recs,
		Questionnaire:   qa,
		ImageURL:        imageURL,
	}
}
