package testresult

import (
	"context"
	"errors"

	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/repository"
	"github.com/jwalitptl/cancerguard-api/internal/storage"
	apperrors "github.com/jwalitptl/cancerguard-api/pkg/errors"
	"github.com/jwalitptl/cancerguard-api/pkg/metrics"
)

type Service struct {
	store   storage.Storage
	metrics *metrics.Metrics
}

func NewService(store storage.Storage, m *metrics.Metrics) *Service {
	if m == nil {
		m = metrics.Noop()
	}
	return &Service{store: store, metrics: m}
}

func (s *Service) List(ctx context.Context, userID int64) ([]*model.TestResult, error) {
	results, err := s.store.GetUserTestResults(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternal("Failed to retrieve test results", err)
	}
	return results, nil
}

// Get returns the result only to its owner.
func (s *Service) Get(ctx context.Context, userID, id int64) (*model.TestResult, error) {
	result, err := s.store.GetTestResultByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Test result", err)
		}
		return nil, apperrors.NewInternal("Failed to retrieve test result", err)
	}
	if result.UserID != userID {
		return nil, apperrors.Forbidden("Unauthorized access to test result")
	}
	return result, nil
}

// Create stores a result for userID. The result category is always
// derived from the confidence; whatever the client sent is ignored.
func (s *Service) Create(ctx context.Context, userID int64, req *model.CreateTestResultRequest) (*model.TestResult, error) {
	if req.Confidence == nil || *req.Confidence < 0 || *req.Confidence > 100 {
		return nil, apperrors.NewBadRequest("Validation error: confidence must be between 0 and 100", nil)
	}
	level, ok := model.NormalizeRiskLevel(req.RiskLevel)
	if !ok {
		return nil, apperrors.NewBadRequest("Validation error: riskLevel must be one of [low medium high]", nil)
	}

	confidence := *req.Confidence
	result := &model.TestResult{
		UserID:          userID,
		TestType:        req.TestType,
		CancerType:      req.CancerType,
		Result:          model.ClassifyResult(confidence),
		RiskLevel:       level,
		Confidence:      &confidence,
		Recommendations: req.Recommendations,
		Questionnaire:   model.Questionnaire{V: req.Questionnaire},
		ImageURL:        req.ImageURL,
	}
	if result.Questionnaire.V == nil {
		result.Questionnaire.V = []model.QAPair{}
	}

	if err := s.store.CreateTestResult(ctx, result); err != nil {
		return nil, apperrors.NewInternal("Failed to create test result", err)
	}
	s.metrics.TestResultsCreated.WithLabelValues(result.TestType, result.Result).Inc()
	return result, nil
}
