package postgres

import (
	"context"

	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/repository"
)

const testResultColumns = `id, user_id, test_type, cancer_type, result, risk_level,
	confidence, recommendations, questionnaire, image_url, created_at`

type testResultRepository struct {
	BaseRepository
}

func NewTestResultRepository(base BaseRepository) repository.TestResultRepository {
	return &testResultRepository{base}
}

func (r *testResultRepository) Create(ctx context.Context, result *model.TestResult) error {
	query := `
		INSERT INTO test_results (
			user_id, test_type, cancer_type, result, risk_level,
			confidence, recommendations, questionnaire, image_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	row := r.db.QueryRowxContext(ctx, query,
		result.UserID,
		result.TestType,
		result.CancerType,
		result.Result,
		result.RiskLevel,
		result.Confidence,
		result.Recommendations,
		result.Questionnaire,
		result.ImageURL,
	)
	if err := row.Scan(&result.ID, &result.CreatedAt); err != nil {
		return translate(err, "create test result")
	}
	return nil
}

func (r *testResultRepository) Get(ctx context.Context, id int64) (*model.TestResult, error) {
	var result model.TestResult
	query := `SELECT ` + testResultColumns + ` FROM test_results WHERE id = $1`
	if err := r.db.GetContext(ctx, &result, query, id); err != nil {
		return nil, translate(err, "get test result")
	}
	return &result, nil
}

func (r *testResultRepository) ListByUser(ctx context.Context, userID int64) ([]*model.TestResult, error) {
	results := []*model.TestResult{}
	query := `SELECT ` + testResultColumns + ` FROM test_results WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	if err := r.db.SelectContext(ctx, &results, query, userID); err != nil {
		return nil, translate(err, "list test results")
	}
	return results, nil
}
