package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"adboard/internal/domain"
)

type testStore struct {
	db         *sql.DB
	users      *UserRepository
	locations  *LocationRepository
	categories *CategoryRepository
	ads        *AdRepository
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	db, err := Open(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := &testStore{
		db:         db,
		users:      NewUserRepository(db).(*UserRepository),
		locations:  NewLocationRepository(db).(*LocationRepository),
		categories: NewCategoryRepository(db).(*CategoryRepository),
		ads:        NewAdRepository(db).(*AdRepository),
	}
	ctx := context.Background()
	require.NoError(t, s.users.Init(ctx))
	require.NoError(t, s.locations.Init(ctx))
	require.NoError(t, s.categories.Init(ctx))
	require.NoError(t, s.ads.Init(ctx))
	return s
}

func (s *testStore) user(t *testing.T, username, firstName string, locations ...string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, PasswordHash: "x", FirstName: firstName, Role: domain.UserRoleMember}
	_, err := s.users.Create(context.Background(), u)
	require.NoError(t, err)
	if len(locations) > 0 {
		require.NoError(t, s.locations.ReplaceForUser(context.Background(), u.ID, locations))
	}
	return u
}

func (s *testStore) category(t *testing.T, name string) *domain.Category {
	t.Helper()
	c := &domain.Category{Name: name}
	_, err := s.categories.Create(context.Background(), c)
	require.NoError(t, err)
	return c
}

func (s *testStore) ad(t *testing.T, name, description string, price int64, author *domain.User, category *domain.Category) *domain.Ad {
	t.Helper()
	a := &domain.Ad{
		Name:        name,
		Description: description,
		Price:       price,
		AuthorID:    author.ID,
		CategoryID:  category.ID,
		IsPublished: true,
	}
	_, err := s.ads.Create(context.Background(), a)
	require.NoError(t, err)
	return a
}

func ptr[T any](v T) *T {
	return &v
}
