package recovery

import (
	"context"
	"errors"

	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/repository"
	"github.com/jwalitptl/cancerguard-api/internal/storage"
	apperrors "github.com/jwalitptl/cancerguard-api/pkg/errors"
)

const msgForbidden = "Unauthorized access to recovery plan"

type Service struct {
	store storage.Storage
}

func NewService(store storage.Storage) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, userID int64) ([]*model.RecoveryPlan, error) {
	plans, err := s.store.GetUserRecoveryPlans(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternal("Failed to retrieve recovery plans", err)
	}
	return plans, nil
}

func (s *Service) CreatePlan(ctx context.Context, userID int64, req *model.CreateRecoveryPlanRequest) (*model.RecoveryPlan, error) {
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, apperrors.NewBadRequest("Validation error: endDate must not be before startDate", nil)
	}

	if req.TestResultID != nil {
		result, err := s.store.GetTestResultByID(ctx, *req.TestResultID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NewNotFound("Test result", err)
			}
			return nil, apperrors.NewInternal("Failed to create recovery plan", err)
		}
		if result.UserID != userID {
			return nil, apperrors.Forbidden("Unauthorized access to test result")
		}
	}

	plan := &model.RecoveryPlan{
		UserID:       userID,
		TestResultID: req.TestResultID,
		Title:        req.Title,
		Description:  req.Description,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Activities:   []model.RecoveryActivity{},
	}
	if err := s.store.CreateRecoveryPlan(ctx, plan); err != nil {
		return nil, apperrors.NewInternal("Failed to create recovery plan", err)
	}
	return plan, nil
}

func (s *Service) AddActivity(ctx context.Context, userID, planID int64, req *model.CreateRecoveryActivityRequest) (*model.RecoveryActivity, error) {
	if _, err := s.ownedPlan(ctx, userID, planID); err != nil {
		return nil, err
	}
	activity := &model.RecoveryActivity{
		RecoveryPlanID: planID,
		Title:          req.Title,
		Description:    req.Description,
		Frequency:      req.Frequency,
		Duration:       req.Duration,
	}
	if err := s.store.CreateRecoveryActivity(ctx, activity); err != nil {
		return nil, apperrors.NewInternal("Failed to create recovery activity", err)
	}
	return activity, nil
}

// SetCompleted checks ownership through the parent plan.
func (s *Service) SetCompleted(ctx context.Context, userID, activityID int64, completed bool) (*model.RecoveryActivity, error) {
	activity, err := s.store.GetRecoveryActivityByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Recovery activity", err)
		}
		return nil, apperrors.NewInternal("Failed to update recovery activity", err)
	}
	if _, err := s.ownedPlan(ctx, userID, activity.RecoveryPlanID); err != nil {
		return nil, err
	}

	updated, err := s.store.SetRecoveryActivityCompleted(ctx, activityID, completed)
	if err != nil {
		return nil, apperrors.NewInternal("Failed to update recovery activity", err)
	}
	return updated, nil
}

func (s *Service) ownedPlan(ctx context.Context, userID, planID int64) (*model.RecoveryPlan, error) {
	plan, err := s.store.GetRecoveryPlanByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Recovery plan", err)
		}
		return nil, apperrors.NewInternal("Failed to retrieve recovery plan", err)
	}
	if plan.UserID != userID {
		return nil, apperrors.Forbidden(msgForbidden)
	}
	return plan, nil
}
