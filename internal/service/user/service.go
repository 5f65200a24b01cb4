package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/repository"
	"github.com/jwalitptl/cancerguard-api/internal/storage"
	apperrors "github.com/jwalitptl/cancerguard-api/pkg/errors"
	"github.com/jwalitptl/cancerguard-api/pkg/security"
)

type Service struct {
	store  storage.Storage
	hasher security.PasswordHasher
}

func NewService(store storage.Storage, hasher security.PasswordHasher) *Service {
	return &Service{store: store, hasher: hasher}
}

// UpdateProfile changes the profile of targetID. Users may only edit
// their own profile.
func (s *Service) UpdateProfile(ctx context.Context, callerID, targetID int64, req *model.UpdateUserRequest) (*model.User, error) {
	if callerID != targetID {
		return nil, apperrors.Forbidden("Unauthorized access to user profile")
	}

	user, err := s.store.UpdateUser(ctx, targetID, &model.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       req.Age,
		Gender:    req.Gender,
		Email:     req.Email,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("User", err)
		}
		return nil, apperrors.NewInternal("Failed to update user", err)
	}
	return user, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, req *model.ChangePasswordRequest) error {
	if req.NewPassword != req.ConfirmNewPassword {
		return apperrors.NewBadRequest("Validation error: confirmNewPassword must match newPassword", nil)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("User", err)
		}
		return apperrors.NewInternal("Failed to update password", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.CurrentPassword); err != nil {
		return apperrors.NewBadRequest("Current password is incorrect", nil)
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooShort) {
			return apperrors.NewBadRequest("Validation error: newPassword must contain at least 6 characters", err)
		}
		return apperrors.NewInternal("Failed to update password", err)
	}

	if _, err := s.store.UpdateUser(ctx, userID, &model.UserUpdate{PasswordHash: &hash}); err != nil {
		return apperrors.NewInternal("Failed to update password", fmt.Errorf("failed to store password: %w", err))
	}
	log.Info().Int64("user_id", userID).Msg("Password changed")
	return nil
}
