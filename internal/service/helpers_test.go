package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"adboard/internal/domain"
	"adboard/internal/repository"
	"adboard/internal/repository/sqlite"
)

type fakeImages struct {
	mu        sync.Mutex
	objects   map[string]string
	putErr    error
	deleteErr error
}

func newFakeImages() *fakeImages {
	return &fakeImages{objects: map[string]string{}}
}

func (f *fakeImages) Put(_ context.Context, key string, body io.Reader, _ string) error {
	if f.putErr != nil {
		return f.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = string(data)
	return nil
}

func (f *fakeImages) Delete(_ context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeImages) DeletePrefix(_ context.Context, prefix string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			delete(f.objects, key)
		}
	}
	return nil
}

func (f *fakeImages) URL(_ context.Context, key string) (string, error) {
	return "https://img.test/" + key, nil
}

func (f *fakeImages) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.objects))
	for k := range f.objects {
		out = append(out, k)
	}
	return out
}

type fixture struct {
	db         *sql.DB
	users      repository.UserRepository
	locations  repository.LocationRepository
	categories repository.CategoryRepository
	ads        repository.AdRepository
	images     *fakeImages
	logs       *test.Hook
	logger     *logrus.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := sqlite.Open(sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger, hook := test.NewNullLogger()
	f := &fixture{
		db:         db,
		users:      sqlite.NewUserRepository(db),
		locations:  sqlite.NewLocationRepository(db),
		categories: sqlite.NewCategoryRepository(db),
		ads:        sqlite.NewAdRepository(db),
		images:     newFakeImages(),
		logs:       hook,
		logger:     logger,
	}
	ctx := context.Background()
	require.NoError(t, f.users.Init(ctx))
	require.NoError(t, f.locations.Init(ctx))
	require.NoError(t, f.categories.Init(ctx))
	require.NoError(t, f.ads.Init(ctx))
	return f
}

func (f *fixture) adService(pageSize int) AdService {
	return NewAdService(f.ads, f.users, f.categories, f.images, AdServiceConfig{
		PageSize:       pageSize,
		ImageKeyPrefix: "ads",
		Logger:         f.logger,
	})
}

func (f *fixture) user(t *testing.T, username, firstName string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, PasswordHash: "x", FirstName: firstName, Role: domain.UserRoleMember}
	_, err := f.users.Create(context.Background(), u)
	require.NoError(t, err)
	return u
}

func (f *fixture) category(t *testing.T, name string) *domain.Category {
	t.Helper()
	c := &domain.Category{Name: name}
	_, err := f.categories.Create(context.Background(), c)
	require.NoError(t, err)
	return c
}

var errBoom = errors.New("boom")

func ptr[T any](v T) *T {
	return &v
}
