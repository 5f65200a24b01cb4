package hospital

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

func TestList_CachesAndAddsStars(t *testing.T) {
	store := storagetest.NewMemory()
	rating := 42
	store.AddHospital(model.Hospital{Name: "City Oncology", Address: "1 Main St", Rating: &rating})
	svc := NewService(store, time.Minute)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.InDelta(t, 4.2, list[0].RatingStars, 0.0001)
	assert.NotNil(t, list[0].Specialties)

	store.AddHospital(model.Hospital{Name: "Later"})
	cached, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, cached, 1, "served from cache")
}

func TestGet(t *testing.T) {
	store := storagetest.NewMemory()
	id := store.AddHospital(model.Hospital{Name: "City Oncology"})
	svc := NewService(store, 0)

	h, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "City Oncology", h.Name)

	_, err = svc.Get(context.Background(), id+1)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode())
	assert.Equal(t, "Hospital not found", appErr.Message)
}
