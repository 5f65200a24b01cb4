package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/repository"
)

const (
	planColumns     = `id, user_id, test_result_id, title, description, start_date, end_date, created_at`
	activityColumns = `id, recovery_plan_id, title, description, frequency, duration, completed, created_at`
)

type recoveryRepository struct {
	BaseRepository
}

func NewRecoveryRepository(base BaseRepository) repository.RecoveryRepository {
	return &recoveryRepository{base}
}

func (r *recoveryRepository) CreatePlan(ctx context.Context, p *model.RecoveryPlan) error {
	query := `
		INSERT INTO recovery_plans (user_id, test_result_id, title, description, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	row := r.db.QueryRowxContext(ctx, query,
		p.UserID,
		p.TestResultID,
		p.Title,
		p.Description,
		p.StartDate,
		p.EndDate,
	)
	if err := row.Scan(&p.ID, &p.CreatedAt); err != nil {
		return translate(err, "create recovery plan")
	}
	if p.Activities == nil {
		p.Activities = []model.RecoveryActivity{}
	}
	return nil
}

func (r *recoveryRepository) GetPlan(ctx context.Context, id int64) (*model.RecoveryPlan, error) {
	var p model.RecoveryPlan
	if err := r.db.GetContext(ctx, &p, `SELECT `+planColumns+` FROM recovery_plans WHERE id = $1`, id); err != nil {
		return nil, translate(err, "get recovery plan")
	}

	plans := []*model.RecoveryPlan{&p}
	if err := r.attachActivities(ctx, plans); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *recoveryRepository) ListPlansByUser(ctx context.Context, userID int64) ([]*model.RecoveryPlan, error) {
	plans := []*model.RecoveryPlan{}
	query := `SELECT ` + planColumns + ` FROM recovery_plans WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	if err := r.db.SelectContext(ctx, &plans, query, userID); err != nil {
		return nil, translate(err, "list recovery plans")
	}
	if err := r.attachActivities(ctx, plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// attachActivities loads the activities of all plans with a single query.
func (r *recoveryRepository) attachActivities(ctx context.Context, plans []*model.RecoveryPlan) error {
	if len(plans) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(plans))
	byID := make(map[int64]*model.RecoveryPlan, len(plans))
	for _, p := range plans {
		p.Activities = []model.RecoveryActivity{}
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}

	query, args, err := sqlx.In(`SELECT `+activityColumns+` FROM recovery_activities
		WHERE recovery_plan_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return translate(err, "build activity query")
	}

	var activities []model.RecoveryActivity
	if err := r.db.SelectContext(ctx, &activities, r.db.Rebind(query), args...); err != nil {
		return translate(err, "list recovery activities")
	}
	for _, a := range activities {
		if p, ok := byID[a.RecoveryPlanID]; ok {
			p.Activities = append(p.Activities, a)
		}
	}
	return nil
}

func (r *recoveryRepository) CreateActivity(ctx context.Context, a *model.RecoveryActivity) error {
	query := `
		INSERT INTO recovery_activities (recovery_plan_id, title, description, frequency, duration, completed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	row := r.db.QueryRowxContext(ctx, query,
		a.RecoveryPlanID,
		a.Title,
		a.Description,
		a.Frequency,
		a.Duration,
		a.Completed,
	)
	if err := row.Scan(&a.ID, &a.CreatedAt); err != nil {
		return translate(err, "create recovery activity")
	}
	return nil
}

func (r *recoveryRepository) GetActivity(ctx context.Context, id int64) (*model.RecoveryActivity, error) {
	var a model.RecoveryActivity
	if err := r.db.GetContext(ctx, &a, `SELECT `+activityColumns+` FROM recovery_activities WHERE id = $1`, id); err != nil {
		return nil, translate(err, "get recovery activity")
	}
	return &a, nil
}

func (r *recoveryRepository) SetActivityCompleted(ctx context.Context, id int64, completed bool) (*model.RecoveryActivity, error) {
	var a model.RecoveryActivity
	query := `UPDATE recovery_activities SET completed = $1 WHERE id = $2 RETURNING ` + activityColumns
	if err := r.db.GetContext(ctx, &a, query, completed, id); err != nil {
		return nil, translate(err, "update recovery activity")
	}
	return &a, nil
}
