package postgres

import (
	"context"

	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/repository"
)

const hospitalColumns = `id, name, address, latitude, longitude, specialties, rating, review_count, phone, website`

type hospitalRepository struct {
	BaseRepository
}

func NewHospitalRepository(base BaseRepository) repository.HospitalRepository {
	return &hospitalRepository{base}
}

func (r *hospitalRepository) List(ctx context.Context) ([]*model.Hospital, error) {
	hospitals := []*model.Hospital{}
	if err := r.db.SelectContext(ctx, &hospitals, `SELECT `+hospitalColumns+` FROM hospitals ORDER BY id`); err != nil {
		return nil, translate(err, "list hospitals")
	}
	return hospitals, nil
}

func (r *hospitalRepository) Get(ctx context.Context, id int64) (*model.Hospital, error) {
	var h model.Hospital
	if err := r.db.GetContext(ctx, &h, `SELECT `+hospitalColumns+` FROM hospitals WHERE id = $1`, id); err != nil {
		return nil, translate(err, "get hospital")
	}
	return &h, nil
}
