package repository

import (
	"context"
	"errors"

	"github.com/jwalitptl/cancerguard-api/internal/model"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.NewUser) (*model.User, error)
		Get(ctx context.Context, id int64) (*model.User, error)
		GetByUsername(ctx context.Context, username string) (*model.User, error)
		Update(ctx context.Context, id int64, update *model.UserUpdate) (*model.User, error)
	}

	TestResultRepository interface {
		Create(ctx context.Context, result *model.TestResult) error
		Get(ctx context.Context, id int64) (*model.TestResult, error)
		ListByUser(ctx context.Context, userID int64) ([]*model.TestResult, error)
	}

	HospitalRepository interface {
		List(ctx context.Context) ([]*model.Hospital, error)
		Get(ctx context.Context, id int64) (*model.Hospital, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id int64) (*model.Appointment, error)
		ListByUser(ctx context.Context, userID int64) ([]*model.Appointment, error)
		UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) (*model.Appointment, error)
	}

	RecoveryRepository interface {
		CreatePlan(ctx context.Context, plan *model.RecoveryPlan) error
		GetPlan(ctx context.Context, id int64) (*model.RecoveryPlan, error)
		ListPlansByUser(ctx context.Context, userID int64) ([]*model.RecoveryPlan, error)
		CreateActivity(ctx context.Context, activity *model.RecoveryActivity) error
		GetActivity(ctx context.Context, id int64) (*model.RecoveryActivity, error)
		SetActivityCompleted(ctx context.Context, id int64, completed bool) (*model.RecoveryActivity, error)
	}

	// Pinger reports database reachability.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)
