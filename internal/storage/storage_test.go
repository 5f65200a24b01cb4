package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/repository"
)

type stubHospitals struct {
	list []*model.Hospital
}

func (s *stubHospitals) List(ctx context.Context) ([]*model.Hospital, error) {
	return s.list, nil
}

func (s *stubHospitals) Get(ctx context.Context, id int64) (*model.Hospital, error) {
	for _, h := range s.list {
		if h.ID == id {
			return h, nil
		}
	}
	return nil, repository.ErrNotFound
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

func TestFacadeDelegatesToRepositories(t *testing.T) {
	hospitals := &stubHospitals{list: []*model.Hospital{{ID: 7, Name: "St. Mary"}}}
	s := New(Repositories{Hospitals: hospitals, Pinger: stubPinger{}})

	list, err := s.GetHospitals(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	h, err := s.GetHospitalByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "St. Mary", h.Name)

	_, err = s.GetHospitalByID(context.Background(), 8)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFacadePing(t *testing.T) {
	assert.NoError(t, New(Repositories{}).Ping(context.Background()))

	down := errors.New("connection refused")
	assert.ErrorIs(t, New(Repositories{Pinger: stubPinger{err: down}}).Ping(context.Background()), down)
}
