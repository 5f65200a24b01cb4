package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

type Appointment struct {
	Base
	UserID     int64             `db:"user_id" json:"userId"`
	HospitalID int64             `db:"hospital_id" json:"hospitalId"`
	Date       time.Time         `db:"date" json:"date"`
	Status     AppointmentStatus `db:"status" json:"status"`
	Reason     *string           `db:"reason" json:"reason,omitempty"`
	Doctor     *string           `db:"doctor" json:"doctor,omitempty"`
	Specialty  *string           `db:"specialty" json:"specialty,omitempty"`
	Hospital   *Hospital         `db:"-" json:"hospital,omitempty"`
}

type CreateAppointmentRequest struct {
	HospitalID int64     `json:"hospitalId" binding:"required,min=1"`
	Date       time.Time `json:"date" binding:"required"`
	Reason     *string   `json:"reason" binding:"omitempty,max=1000"`
	Doctor     *string   `json:"doctor" binding:"omitempty,max=200"`
	Specialty  *string   `json:"specialty" binding:"omitempty,max=200"`
}

type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required,oneof=pending confirmed cancelled completed"`
}
