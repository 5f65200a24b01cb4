package appointment

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/repository"
	"github.com/jwalitptl/cancerguard-api/internal/storage"
	apperrors "github.com/jwalitptl/cancerguard-api/pkg/errors"
)

// HospitalLookup resolves the hospital embedded in each appointment.
type HospitalLookup interface {
	Get(ctx context.Context, id int64) (*model.Hospital, error)
}

type Service struct {
	store     storage.Storage
	hospitals HospitalLookup
}

func NewService(store storage.Storage, hospitals HospitalLookup) *Service {
	return &Service{store: store, hospitals: hospitals}
}

// List returns the user's appointments newest first with hospitals attached.
func (s *Service) List(ctx context.Context, userID int64) ([]*model.Appointment, error) {
	appointments, err := s.store.GetUserAppointments(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternal("Failed to retrieve appointments", err)
	}
	for _, a := range appointments {
		s.attachHospital(ctx, a)
	}
	return appointments, nil
}

func (s *Service) Create(ctx context.Context, userID int64, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	hospital, err := s.hospitals.Get(ctx, req.HospitalID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewBadRequest("Hospital not found", err)
		}
		return nil, err
	}

	apt := &model.Appointment{
		UserID:     userID,
		HospitalID: req.HospitalID,
		Date:       req.Date,
		Status:     model.AppointmentStatusPending,
		Reason:     req.Reason,
		Doctor:     req.Doctor,
		Specialty:  req.Specialty,
	}
	if err := s.store.CreateAppointment(ctx, apt); err != nil {
		return nil, apperrors.NewInternal("Failed to create appointment", err)
	}
	apt.Hospital = hospital
	return apt, nil
}

func (s *Service) UpdateStatus(ctx context.Context, userID, id int64, status model.AppointmentStatus) (*model.Appointment, error) {
	apt, err := s.store.GetAppointmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Appointment", err)
		}
		return nil, apperrors.NewInternal("Failed to retrieve appointment", err)
	}
	if apt.UserID != userID {
		return nil, apperrors.Forbidden("Unauthorized access to appointment")
	}

	updated, err := s.store.UpdateAppointmentStatus(ctx, id, status)
	if err != nil {
		return nil, apperrors.NewInternal("Failed to update appointment", err)
	}
	s.attachHospital(ctx, updated)
	return updated, nil
}

// attachHospital is best effort; an appointment is still shown when its
// hospital cannot be loaded.
func (s *Service) attachHospital(ctx context.Context, a *model.Appointment) {
	if a.Hospital != nil {
		return
	}
	h, err := s.hospitals.Get(ctx, a.HospitalID)
	if err != nil {
		log.Warn().Err(err).Int64("appointment_id", a.ID).Int64("hospital_id", a.HospitalID).Msg("Failed to load appointment hospital")
		return
	}
	a.Hospital = h
}
