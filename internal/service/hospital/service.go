package hospital

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/internal/repository"
	"github.com/jwalitptl/cancerguard-api/internal/storage"
	apperrors "github.com/jwalitptl/cancerguard-api/pkg/errors"
)

const (
	DefaultCacheTTL = 5 * time.Minute
	listKey         = "hospitals"
)

// Service serves the hospital directory. The directory is read only from
// the API, so lookups are cached for a few minutes.
type Service struct {
	store storage.Storage
	cache *cache.Cache
}

func NewService(store storage.Storage, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{store: store, cache: cache.New(ttl, 2*ttl)}
}

func (s *Service) List(ctx context.Context) ([]model.Hospital, error) {
	if v, ok := s.cache.Get(listKey); ok {
		return v.([]model.Hospital), nil
	}
	rows, err := s.store.GetHospitals(ctx)
	if err != nil {
		return nil, apperrors.NewInternal("Failed to retrieve hospitals", err)
	}
	out := make([]model.Hospital, 0, len(rows))
	for _, h := range rows {
		out = append(out, h.WithStars())
	}
	s.cache.SetDefault(listKey, out)
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Hospital, error) {
	key := "hospital:" + strconv.FormatInt(id, 10)
	if v, ok := s.cache.Get(key); ok {
		h := v.(model.Hospital)
		return &h, nil
	}
	row, err := s.store.GetHospitalByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Hospital", err)
		}
		return nil, apperrors.NewInternal("Failed to retrieve hospital", err)
	}
	h := row.WithStars()
	s.cache.SetDefault(key, h)
	return &h, nil
}
