// Package storage is the single data access surface used by the services.
// Everything above it depends on Storage, never on the database client.
package storage

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/repository"
	"github.com/jwalitptl/cancerguard-api/internal/repository/postgres"
)

// Storage is the façade over the persisted entities. Lookups that match
// nothing return repository.ErrNotFound.
type Storage interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.NewUser) (*model.User, error)
	UpdateUser(ctx context.Context, id int64, update *model.UserUpdate) (*model.User, error)

	GetUserTestResults(ctx context.Context, userID int64) ([]*model.TestResult, error)
	GetTestResultByID(ctx context.Context, id int64) (*model.TestResult, error)
	CreateTestResult(ctx context.Context, result *model.TestResult) error

	GetHospitals(ctx context.Context) ([]*model.Hospital, error)
	GetHospitalByID(ctx context.Context, id int64) (*model.Hospital, error)

	GetUserAppointments(ctx context.Context, userID int64) ([]*model.Appointment, error)
	GetAppointmentByID(ctx context.Context, id int64) (*model.Appointment, error)
	CreateAppointment(ctx context.Context, appointment *model.Appointment) error
	UpdateAppointmentStatus(ctx context.Context, id int64, status model.AppointmentStatus) (*model.Appointment, error)

	GetUserRecoveryPlans(ctx context.Context, userID int64) ([]*model.RecoveryPlan, error)
	GetRecoveryPlanByID(ctx context.Context, id int64) (*model.RecoveryPlan, error)
	CreateRecoveryPlan(ctx context.Context, plan *model.RecoveryPlan) error
	CreateRecoveryActivity(ctx context.Context, activity *model.RecoveryActivity) error
	GetRecoveryActivityByID(ctx context.Context, id int64) (*model.RecoveryActivity, error)
	SetRecoveryActivityCompleted(ctx context.Context, id int64, completed bool) (*model.RecoveryActivity, error)

	Ping(ctx context.Context) error
}

// Repositories groups the repositories the façade delegates to.
type Repositories struct {
	Users        repository.UserRepository
	TestResults  repository.TestResultRepository
	Hospitals    repository.HospitalRepository
	Appointments repository.AppointmentRepository
	Recovery     repository.RecoveryRepository
	Pinger       repository.Pinger
}

type facade struct {
	repos Repositories
}

// New builds the façade over an explicit set of repositories.
func New(repos Repositories) Storage {
	return &facade{repos: repos}
}

// NewPostgres wires the postgres repositories over db.
func NewPostgres(db *sqlx.DB) Storage {
	base := postgres.NewBaseRepository(db)
	return New(Repositories{
		Users:        postgres.NewUserRepository(base),
		TestResults:  postgres.NewTestResultRepository(base),
		Hospitals:    postgres.NewHospitalRepository(base),
		Appointments: postgres.NewAppointmentRepository(base),
		Recovery:     postgres.NewRecoveryRepository(base),
		Pinger:       &base,
	})
}

func (f *facade) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return f.repos.Users.Get(ctx, id)
}

func (f *facade) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return f.repos.Users.GetByUsername(ctx, username)
}

func (f *facade) CreateUser(ctx context.Context, user *model.NewUser) (*model.User, error) {
	return f.repos.Users.Create(ctx, user)
}

func (f *facade) UpdateUser(ctx context.Context, id int64, update *model.UserUpdate) (*model.User, error) {
	return f.repos.Users.Update(ctx, id, update)
}

func (f *facade) GetUserTestResults(ctx context.Context, userID int64) ([]*model.TestResult, error) {
	return f.repos.TestResults.ListByUser(ctx, userID)
}

func (f *facade) GetTestResultByID(ctx context.Context, id int64) (*model.TestResult, error) {
	return f.repos.TestResults.Get(ctx, id)
}

func (f *facade) CreateTestResult(ctx context.Context, result *model.TestResult) error {
	return f.repos.TestResults.Create(ctx, result)
}

func (f *facade) GetHospitals(ctx context.Context) ([]*model.Hospital, error) {
	return f.repos.Hospitals.List(ctx)
}

func (f *facade) GetHospitalByID(ctx context.Context, id int64) (*model.Hospital, error) {
	return f.repos.Hospitals.Get(ctx, id)
}

func (f *facade) GetUserAppointments(ctx context.Context, userID int64) ([]*model.Appointment, error) {
	return f.repos.Appointments.ListByUser(ctx, userID)
}

func (f *facade) GetAppointmentByID(ctx context.Context, id int64) (*model.Appointment, error) {
	return f.repos.Appointments.Get(ctx, id)
}

func (f *facade) CreateAppointment(ctx context.Context, appointment *model.Appointment) error {
	return f.repos.Appointments.Create(ctx, appointment)
}

func (f *facade) UpdateAppointmentStatus(ctx context.Context, id int64, status model.AppointmentStatus) (*model.Appointment, error) {
	return f.repos.Appointments.UpdateStatus(ctx, id, status)
}

func (f *facade) GetUserRecoveryPlans(ctx context.Context, userID int64) ([]*model.RecoveryPlan, error) {
	return f.repos.Recovery.ListPlansByUser(ctx, userID)
}

func (f *facade) GetRecoveryPlanByID(ctx context.Context, id int64) (*model.RecoveryPlan, error) {
	return f.repos.Recovery.GetPlan(ctx, id)
}

func (f *facade) CreateRecoveryPlan(ctx context.Context, plan *model.RecoveryPlan) error {
	return f.repos.Recovery.CreatePlan(ctx, plan)
}

func (f *facade) CreateRecoveryActivity(ctx context.Context, activity *model.RecoveryActivity) error {
	return f.repos.Recovery.CreateActivity(ctx, activity)
}

func (f *facade) GetRecoveryActivityByID(ctx context.Context, id int64) (*model.RecoveryActivity, error) {
	return f.repos.Recovery.GetActivity(ctx, id)
}

func (f *facade) SetRecoveryActivityCompleted(ctx context.Context, id int64, completed bool) (*model.RecoveryActivity, error) {
	return f.repos.Recovery.SetActivityCompleted(ctx, id, completed)
}

func (f *facade) Ping(ctx context.Context) error {
	if f.repos.Pinger == nil {
		return nil
	}
	return f.repos.Pinger.Ping(ctx)
}
