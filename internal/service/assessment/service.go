// Package assessment exposes the text generator to the route layer.
// Upstream and parse failures collapse into one 500 per operation.
package assessment

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/cancerguard-api/internal/model"
	apperrors "github.com/jwalitptl/cancerguard-api/pkg/errors"
	"github.com/jwalitptl/cancerguard-api/pkg/logger"
)

// Generator is the text generation surface used here.
type Generator interface {
	AnalyzeSymptoms(ctx context.Context, symptoms []string, cancerType string) (*model.Assessment, error)
	GenerateRiskAssessment(ctx context.Context, bodyPart string, questions, answers []string) (*model.Assessment, error)
	GenerateFollowUpQuestion(ctx context.Context, bodyPart string, previousQuestions, previousAnswers []string) (*model.Question, error)
	GenerateChatbotResponse(ctx context.Context, query string, history []model.ChatTurn) (string, error)
}

type Service struct {
	gen Generator
	log zerolog.Logger
}

func NewService(gen Generator) *Service {
	return &Service{gen: gen, log: logger.Component("assessment")}
}

func (s *Service) GenerateQuestion(ctx context.Context, req *model.GenerateQuestionRequest) (*model.Question, error) {
	if strings.TrimSpace(req.BodyPart) == "" {
		return nil, apperrors.NewBadRequest("Body part is required", nil)
	}
	q, err := s.gen.GenerateFollowUpQuestion(ctx, req.BodyPart, orEmpty(req.PreviousQuestions), orEmpty(req.PreviousAnswers))
	if err != nil {
		return nil, s.failed("Failed to generate question", err)
	}
	return q, nil
}

func (s *Service) GenerateAssessment(ctx context.Context, req *model.GenerateAssessmentRequest) (*model.Assessment, error) {
	if strings.TrimSpace(req.BodyPart) == "" || req.Questions == nil || req.Answers == nil {
		return nil, apperrors.NewBadRequest("Body part, questions, and answers are required", nil)
	}
	a, err := s.gen.GenerateRiskAssessment(ctx, req.BodyPart, req.Questions, req.Answers)
	if err != nil {
		return nil, s.failed("Failed to generate assessment", err)
	}
	return a, nil
}

func (s *Service) AnalyzeSymptoms(ctx context.Context, req *model.AnalyzeSymptomsRequest) (*model.Assessment, error) {
	a, err := s.gen.AnalyzeSymptoms(ctx, req.Symptoms, req.CancerType)
	if err != nil {
		return nil, s.failed("Failed to analyze symptoms", err)
	}
	return a, nil
}

func (s *Service) Chat(ctx context.Context, req *model.ChatbotRequest) (*model.ChatbotResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, apperrors.NewBadRequest("Query is required", nil)
	}
	reply, err := s.gen.GenerateChatbotResponse(ctx, req.Query, req.History)
	if err != nil {
		return nil, s.failed("Failed to generate chatbot response", err)
	}
	return &model.ChatbotResponse{Response: reply}, nil
}

func (s *Service) failed(message string, err error) error {
	s.log.Error().Err(err).Msg(message)
	return apperrors.NewInternal(message, err)
}

func orEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
