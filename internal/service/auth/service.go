package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/repository"
	"github.com/jwalitptl/cancerguard-api/internal/storage"
	apperrors "github.com/jwalitptl/cancerguard-api/pkg/errors"
	"github.com/jwalitptl/cancerguard-api/pkg/security"
)

const (
	msgUsernameTaken      = "Username already exists"
	msgInvalidCredentials = "Invalid username or password"
)

type Service struct {
	store  storage.Storage
	hasher security.PasswordHasher
}

func NewService(store storage.Storage, hasher security.PasswordHasher) *Service {
	return &Service{store: store, hasher: hasher}
}

// Register creates the account. The caller opens the session.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, apperrors.NewBadRequest("Validation error: username is required", nil)
	}

	_, err := s.store.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, apperrors.Conflict(msgUsernameTaken, nil)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperrors.NewInternal("Registration failed", fmt.Errorf("failed to look up username: %w", err))
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooShort) {
			return nil, apperrors.NewBadRequest("Validation error: password must contain at least 6 characters", err)
		}
		return nil, apperrors.NewInternal("Registration failed", err)
	}

	user, err := s.store.CreateUser(ctx, &model.NewUser{
		Username:     username,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Age:          req.Age,
		Gender:       req.Gender,
		Email:        req.Email,
	})
	if err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict(msgUsernameTaken, err)
		}
		return nil, apperrors.NewInternal("Registration failed", fmt.Errorf("failed to create user: %w", err))
	}

	log.Info().Int64("user_id", user.ID).Msg("User registered")
	return user, nil
}

// Login checks the credentials. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized(msgInvalidCredentials)
		}
		return nil, apperrors.NewInternal("Authentication failed", fmt.Errorf("failed to look up user: %w", err))
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, security.ErrMismatch) {
			log.Error().Err(err).Int64("user_id", user.ID).Msg("Stored password hash is unusable")
		}
		return nil, apperrors.Unauthorized(msgInvalidCredentials)
	}
	return user, nil
}

// CurrentUser loads the session user. A session pointing at a deleted
// account counts as no session.
func (s *Service) CurrentUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("")
		}
		return nil, apperrors.NewInternal("Failed to retrieve user", err)
	}
	return user, nil
}
