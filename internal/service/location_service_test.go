package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adboard/internal/domain"
)

func TestLocationService(t *testing.T) {
	f := newFixture(t)
	svc := NewLocationService(f.locations)
	ctx := context.Background()
	ivan := f.user(t, "ivan", "Ivan")

	_, err := svc.Create(ctx, LocationInput{Name: ptr("Tula")})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.Create(ctx, LocationInput{UserID: ptr(ivan.ID), Name: ptr("  ")})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.Create(ctx, LocationInput{UserID: ptr[int64](404), Name: ptr("Tula")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	loc, err := svc.Create(ctx, LocationInput{UserID: ptr(ivan.ID), Name: ptr("Tula"), Lat: ptr(54.2)})
	require.NoError(t, err)
	assert.Positive(t, loc.ID)

	updated, err := svc.Update(ctx, loc.ID, LocationInput{Lng: ptr(37.6)})
	require.NoError(t, err)
	assert.Equal(t, "Tula", updated.Name)
	require.NotNil(t, updated.Lat)
	require.NotNil(t, updated.Lng)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, loc.ID))
	_, err = svc.Get(ctx, loc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
