package recovery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/storage/storagetest"
	apperrors "github.com/jwalitptl/cancerguard-api/pkg/errors"
)

func setup(t *testing.T) (*Service, *storagetest.Memory, int64, int64) {
	t.Helper()
	store := storagetest.NewMemory()
	ctx := context.Background()
	ann, err := store.CreateUser(ctx, &model.NewUser{Username: "ann", PasswordHash: "x"})
	require.NoError(t, err)
	bob, err := store.CreateUser(ctx, &model.NewUser{Username: "bob", PasswordHash: "x"})
	require.NoError(t, err)
	return NewService(store), store, ann.ID, bob.ID
}

func TestPlanLifecycle(t *testing.T) {
	svc, _, ann, _ := setup(t)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, ann, &model.CreateRecoveryPlanRequest{Title: "Post-treatment"})
	require.NoError(t, err)

	act, err := svc.AddActivity(ctx, ann, plan.ID, &model.CreateRecoveryActivityRequest{Title: "Daily walk"})
	require.NoError(t, err)
	assert.False(t, act.Completed)

	done, err := svc.SetCompleted(ctx, ann, act.ID, true)
	require.NoError(t, err)
	assert.True(t, done.Completed)

	plans, err := svc.List(ctx, ann)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	require.Len(t, plans[0].Activities, 1)
	assert.True(t, plans[0].Activities[0].Completed)
}

func TestCreatePlan_DateOrder(t *testing.T) {
	svc, store, ann, _ := setup(t)
	start := time.Now()
	end := start.Add(-24 * time.Hour)
	writes := store.Writes()

	_, err := svc.CreatePlan(context.Background(), ann, &model.CreateRecoveryPlanRequest{Title: "x", StartDate: &start, EndDate: &end})
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
	assert.Equal(t, writes, store.Writes())
}

func TestCreatePlan_ForeignTestResult(t *testing.T) {
	svc, store, ann, bob := setup(t)
	ctx := context.Background()

	confidence := 20
	result := &model.TestResult{UserID: bob, TestType: model.TestTypeBasic, CancerType: "skin", Result: model.ResultNegative, RiskLevel: model.RiskLow, Confidence: &confidence}
	require.NoError(t, store.CreateTestResult(ctx, result))

	_, err := svc.CreatePlan(ctx, ann, &model.CreateRecoveryPlanRequest{Title: "x", TestResultID: &result.ID})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestActivities_ForeignPlan(t *testing.T) {
	svc, _, ann, bob := setup(t)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, ann, &model.CreateRecoveryPlanRequest{Title: "Post-treatment"})
	require.NoError(t, err)
	act, err := svc.AddActivity(ctx, ann, plan.ID, &model.CreateRecoveryActivityRequest{Title: "Daily walk"})
	require.NoError(t, err)

	_, err = svc.AddActivity(ctx, bob, plan.ID, &model.CreateRecoveryActivityRequest{Title: "Sneaky"})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	_, err = svc.SetCompleted(ctx, bob, act.ID, true)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	_, err = svc.SetCompleted(ctx, ann, act.ID+100, true)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
