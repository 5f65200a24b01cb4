package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/cancerguard-api/internal/config"
	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/repository"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil, "noop"))
	assert.ErrorIs(t, translate(sql.ErrNoRows, "get user"), repository.ErrNotFound)
	assert.ErrorIs(t, translate(&pq.Error{Code: uniqueViolation}, "create user"), repository.ErrDuplicate)

	err := translate(fmt.Errorf("connection reset"), "list hospitals")
	assert.EqualError(t, err, "failed to list hospitals: connection reset")
}

// openTestDB connects to TEST_DATABASE_URL or skips.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := NewDB(ctx, config.DatabaseConfig{URL: url, MaxOpenConns: 2})
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, db))
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRepositories_Postgres(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	base := NewBaseRepository(db)

	users := NewUserRepository(base)
	results := NewTestResultRepository(base)
	hospitals := NewHospitalRepository(base)
	appointments := NewAppointmentRepository(base)
	recovery := NewRecoveryRepository(base)

	username := fmt.Sprintf("user-%d", time.Now().UnixNano())
	user, err := users.Create(ctx, &model.NewUser{Username: username, PasswordHash: "hash"})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	_, err = users.Create(ctx, &model.NewUser{Username: username, PasswordHash: "hash"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = users.Get(ctx, -1)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	age := 40
	updated, err := users.Update(ctx, user.ID, &model.UserUpdate{Age: &age})
	require.NoError(t, err)
	require.NotNil(t, updated.Age)
	assert.Equal(t, 40, *updated.Age)
	assert.Equal(t, "hash", updated.PasswordHash)

	confidence := 85
	tr := &model.TestResult{
		UserID:     user.ID,
		TestType:   model.TestTypeBasic,
		CancerType: model.BodyPartSkin,
		Result:     model.ClassifyResult(confidence),
		RiskLevel:  model.RiskHigh,
		Confidence: &confidence,
		Questionnaire: model.Questionnaire{V: []model.QAPair{
			{Question: "Which part of your body is affected?", Answer: "Skin (mole, lesion, or unusual growth)"},
		}},
	}
	require.NoError(t, results.Create(ctx, tr))
	assert.NotZero(t, tr.ID)

	got, err := results.Get(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, tr.Questionnaire.V, got.Questionnaire.V)

	list, err := results.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	var hospitalID int64
	require.NoError(t, db.GetContext(ctx, &hospitalID,
		`INSERT INTO hospitals (name, address, specialties, rating) VALUES ('General', '1 Main St', $1, 42) RETURNING id`,
		pq.StringArray{"oncology", "dermatology"}))

	h, err := hospitals.Get(ctx, hospitalID)
	require.NoError(t, err)
	assert.Equal(t, pq.StringArray{"oncology", "dermatology"}, h.Specialties)

	appt := &model.Appointment{UserID: user.ID, HospitalID: hospitalID, Date: time.Now().Add(24 * time.Hour), Status: model.AppointmentStatusPending}
	require.NoError(t, appointments.Create(ctx, appt))
	confirmed, err := appointments.UpdateStatus(ctx, appt.ID, model.AppointmentStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, confirmed.Status)

	plan := &model.RecoveryPlan{UserID: user.ID, TestResultID: &tr.ID, Title: "Follow-up care"}
	require.NoError(t, recovery.CreatePlan(ctx, plan))
	act := &model.RecoveryActivity{RecoveryPlanID: plan.ID, Title: "Daily walk"}
	require.NoError(t, recovery.CreateActivity(ctx, act))

	done, err := recovery.SetActivityCompleted(ctx, act.ID, true)
	require.NoError(t, err)
	assert.True(t, done.Completed)

	plans, err := recovery.ListPlansByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	require.Len(t, plans[0].Activities, 1)
	assert.True(t, plans[0].Activities[0].Completed)
}
