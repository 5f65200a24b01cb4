package assessment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/textgen"
	apperrors "github.com/jwalitptl/cancerguard-api/pkg/errors"
)

type failingGenerator struct{ err error }

func (g failingGenerator) AnalyzeSymptoms(context.Context, []string, string) (*model.Assessment, error) {
	return nil, g.err
}

func (g failingGenerator) GenerateRiskAssessment(context.Context, string, []string, []string) (*model.Assessment, error) {
	return nil, g.err
}

func (g failingGenerator) GenerateFollowUpQuestion(context.Context, string, []string, []string) (*model.Question, error) {
	return nil, g.err
}

func (g failingGenerator) GenerateChatbotResponse(context.Context, string, []model.ChatTurn) (string, error) {
	return "", g.err
}

func fallbackService() *Service {
	return NewService(textgen.New(textgen.Config{}, nil))
}

func TestValidation(t *testing.T) {
	svc := fallbackService()
	ctx := context.Background()

	_, err := svc.GenerateQuestion(ctx, &model.GenerateQuestionRequest{})
	requireMessage(t, err, 400, "Body part is required")

	_, err = svc.GenerateAssessment(ctx, &model.GenerateAssessmentRequest{BodyPart: "skin"})
	requireMessage(t, err, 400, "Body part, questions, and answers are required")

	_, err = svc.Chat(ctx, &model.ChatbotRequest{Query: "  "})
	requireMessage(t, err, 400, "Query is required")
}

func TestFallbackMode(t *testing.T) {
	svc := fallbackService()
	ctx := context.Background()

	q, err := svc.GenerateQuestion(ctx, &model.GenerateQuestionRequest{BodyPart: "skin"})
	require.NoError(t, err)
	assert.Len(t, q.Options, 4)

	a, err := svc.AnalyzeSymptoms(ctx, &model.AnalyzeSymptomsRequest{Symptoms: []string{"severe headache"}, CancerType: "general"})
	require.NoError(t, err)
	assert.Equal(t, "High", a.RiskLevel)

	a, err = svc.AnalyzeSymptoms(ctx, &model.AnalyzeSymptomsRequest{Symptoms: []string{"mild itch"}, CancerType: "skin"})
	require.NoError(t, err)
	assert.Equal(t, "Low", a.RiskLevel)

	reply, err := svc.Chat(ctx, &model.ChatbotRequest{Query: "What is melanoma?"})
	require.NoError(t, err)
	assert.NotEmpty(t, reply.Response)
}

func TestUpstreamFailuresCollapse(t *testing.T) {
	ctx := context.Background()
	for _, cause := range []error{
		&textgen.UpstreamError{StatusCode: 503, Message: "overloaded"},
		&textgen.MalformedResponseError{Grammar: "assessment", Reason: "missing fields", Raw: "nonsense"},
	} {
		svc := NewService(failingGenerator{err: cause})

		_, err := svc.GenerateQuestion(ctx, &model.GenerateQuestionRequest{BodyPart: "skin"})
		requireMessage(t, err, 500, "Failed to generate question")

		_, err = svc.GenerateAssessment(ctx, &model.GenerateAssessmentRequest{BodyPart: "skin", Questions: []string{}, Answers: []string{}})
		requireMessage(t, err, 500, "Failed to generate assessment")

		_, err = svc.Chat(ctx, &model.ChatbotRequest{Query: "hi"})
		requireMessage(t, err, 500, "Failed to generate chatbot response")
		assert.ErrorIs(t, err, cause)
	}
}

func requireMessage(t *testing.T, err error, status int, message string) {
	t.Helper()
	appErr, ok := apperrors.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.StatusCode())
	assert.Equal(t, message, appErr.Message)
}
