package model

import "time"

type RecoveryPlan struct {
	Base
	UserID       int64              `db:"user_id" json:"userId"`
	TestResultID *int64             `db:"test_result_id" json:"testResultId,omitempty"`
	Title        string             `db:"title" json:"title"`
	Description  *string            `db:"description" json:"description,omitempty"`
	StartDate    *time.Time         `db:"start_date" json:"startDate,omitempty"`
	EndDate      *time.Time         `db:"end_date" json:"endDate,omitempty"`
	Activities   []RecoveryActivity `db:"-" json:"activities"`
}

type RecoveryActivity struct {
	Base
	RecoveryPlanID int64   `db:"recovery_plan_id" json:"recoveryPlanId"`
	Title          string  `db:"title" json:"title"`
	Description    *string `db:"description" json:"description,omitempty"`
	Frequency      *string `db:"frequency" json:"frequency,omitempty"`
	Duration       *string `db:"duration" json:"duration,omitempty"`
	Completed      bool    `db:"completed" json:"completed"`
}

type CreateRecoveryPlanRequest struct {
	TestResultID *int64     `json:"testResultId" binding:"omitempty,min=1"`
	Title        string     `json:"title" binding:"required,max=200"`
	Description  *string    `json:"description" binding:"omitempty,max=2000"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
}

type CreateRecoveryActivityRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Frequency   *string `json:"frequency" binding:"omitempty,max=100"`
	Duration    *string `json:"duration" binding:"omitempty,max=100"`
}

type UpdateRecoveryActivityRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}
