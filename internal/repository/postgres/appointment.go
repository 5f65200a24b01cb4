package postgres

import (
	"context"

	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/repository"
)

const appointmentColumns = `id, user_id, hospital_id, date, status, reason, doctor, specialty, created_at`

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(base BaseRepository) repository.AppointmentRepository {
	return &appointmentRepository{base}
}

func (r *appointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	query := `
		INSERT INTO appointments (user_id, hospital_id, date, status, reason, doctor, specialty)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	row := r.db.QueryRowxContext(ctx, query,
		a.UserID,
		a.HospitalID,
		a.Date,
		a.Status,
		a.Reason,
		a.Doctor,
		a.Specialty,
	)
	if err := row.Scan(&a.ID, &a.CreatedAt); err != nil {
		return translate(err, "create appointment")
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	var a model.Appointment
	if err := r.db.GetContext(ctx, &a, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id); err != nil {
		return nil, translate(err, "get appointment")
	}
	return &a, nil
}

func (r *appointmentRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Appointment, error) {
	appointments := []*model.Appointment{}
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE user_id = $1 ORDER BY date DESC, id DESC`
	if err := r.db.SelectContext(ctx, &appointments, query, userID); err != nil {
		return nil, translate(err, "list appointments")
	}
	return appointments, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) (*model.Appointment, error) {
	var a model.Appointment
	query := `UPDATE appointments SET status = $1 WHERE id = $2 RETURNING ` + appointmentColumns
	if err := r.db.GetContext(ctx, &a, query, status, id); err != nil {
		return nil, translate(err, "update appointment status")
	}
	return &a, nil
}
