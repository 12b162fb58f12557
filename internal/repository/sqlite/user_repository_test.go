package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adboard/internal/domain"
)

func TestUserRepositoryCreateGetList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	age := 31
	u := &domain.User{
		Username:     "ivan",
		PasswordHash: "hash",
		FirstName:    "Ivan",
		LastName:     "Petrov",
		Role:         domain.UserRoleModerator,
		Age:          &age,
	}
	id, err := s.users.Create(ctx, u)
	require.NoError(t, err)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := s.users.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ivan", got.FirstName)
	assert.Equal(t, "Petrov", got.LastName)
	assert.Equal(t, domain.UserRoleModerator, got.Role)
	require.NotNil(t, got.Age)
	assert.Equal(t, 31, *got.Age)
	assert.Equal(t, 0, got.TotalAds)

	byName, err := s.users.GetByUsername(ctx, "ivan")
	require.NoError(t, err)
	assert.Equal(t, id, byName.ID)

	s.ad(t, "Bike", "", 1, got, s.category(t, "Bikes"))
	s.user(t, "olga", "Olga")

	users, err := s.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "ivan", users[0].Username)
	assert.Equal(t, 1, users[0].TotalAds)
	assert.Nil(t, users[1].Age)
}

func TestUserRepositoryDuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	s.user(t, "ivan", "Ivan")

	_, err := s.users.Create(context.Background(), &domain.User{Username: "ivan", PasswordHash: "x", Role: domain.UserRoleMember})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserRepositoryUpdateDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := s.user(t, "ivan", "Ivan", "Tula")

	u.FirstName = "Vanya"
	u.Role = domain.UserRoleAdmin
	require.NoError(t, s.users.Update(ctx, u))

	got, err := s.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vanya", got.FirstName)
	assert.Equal(t, domain.UserRoleAdmin, got.Role)

	require.NoError(t, s.users.Delete(ctx, u.ID))
	_, err = s.users.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.users.Delete(ctx, u.ID), domain.ErrNotFound)

	locations, err := s.locations.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, locations)

	_, err = s.users.GetByUsername(ctx, "ivan")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepositoryUpdateWithLocations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := s.user(t, "ivan", "Ivan", "Tula")

	u.FirstName = "Vanya"
	require.NoError(t, s.users.UpdateWithLocations(ctx, u, []string{"Kazan", "Omsk"}))

	got, err := s.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vanya", got.FirstName)
	assert.Equal(t, []string{"Kazan", "Omsk"}, locationNames(t, s, u.ID))

	missing := &domain.User{ID: 999, Username: "ghost", Role: domain.UserRoleMember}
	assert.ErrorIs(t, s.users.UpdateWithLocations(ctx, missing, []string{"Kazan"}), domain.ErrNotFound)
}

func TestUserRepositoryUpdateWithLocationsRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := s.user(t, "ivan", "Ivan", "Tula")

	_, err := s.db.ExecContext(ctx, `
CREATE TRIGGER reject_nowhere BEFORE INSERT ON locations
WHEN NEW.name = 'Nowhere'
BEGIN
	SELECT RAISE(ABORT, 'rejected location');
END;`)
	require.NoError(t, err)

	u.FirstName = "Vanya"
	err = s.users.UpdateWithLocations(ctx, u, []string{"Kazan", "Nowhere"})
	require.Error(t, err)

	got, err := s.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ivan", got.FirstName)
	assert.Equal(t, []string{"Tula"}, locationNames(t, s, u.ID))
}

func locationNames(t *testing.T, s *testStore, userID int64) []string {
	t.Helper()
	locations, err := s.locations.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	names := make([]string, 0, len(locations))
	for _, loc := range locations {
		names = append(names, loc.Name)
	}
	return names
}
