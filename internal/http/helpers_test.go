package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"adboard/internal/domain"
	"adboard/internal/repository"
	"adboard/internal/repository/sqlite"
	"adboard/internal/service"
	"adboard/internal/storage"
)

const testPageSize = 3

type testServer struct {
	router     *gin.Engine
	users      repository.UserRepository
	locations  repository.LocationRepository
	categories repository.CategoryRepository
	ads        repository.AdRepository
	images     *storage.LocalService
	logs       *test.Hook
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	images, err := storage.NewLocalService(t.TempDir(), "/media")
	require.NoError(t, err)

	logger, hook := test.NewNullLogger()
	s := &testServer{
		router:     gin.New(),
		users:      sqlite.NewUserRepository(db),
		locations:  sqlite.NewLocationRepository(db),
		categories: sqlite.NewCategoryRepository(db),
		ads:        sqlite.NewAdRepository(db),
		images:     images,
		logs:       hook,
	}
	ctx := context.Background()
	require.NoError(t, s.users.Init(ctx))
	require.NoError(t, s.locations.Init(ctx))
	require.NoError(t, s.categories.Init(ctx))
	require.NoError(t, s.ads.Init(ctx))

	handler := NewHandler(
		service.NewAdService(s.ads, s.users, s.categories, images, service.AdServiceConfig{
			PageSize:       testPageSize,
			ImageKeyPrefix: "ads",
			Logger:         logger,
		}),
		service.NewUserService(s.users, s.locations, logger),
		service.NewLocationService(s.locations),
		service.NewCategoryService(s.categories),
		logger,
	)
	handler.ServeMedia("/media", images.Root())
	handler.RegisterRoutes(s.router)
	return s
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) user(t *testing.T, username, firstName string, locations ...string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, PasswordHash: "x", FirstName: firstName, Role: domain.UserRoleMember}
	_, err := s.users.Create(context.Background(), u)
	require.NoError(t, err)
	if len(locations) > 0 {
		require.NoError(t, s.locations.ReplaceForUser(context.Background(), u.ID, locations))
	}
	return u
}

func (s *testServer) category(t *testing.T, name string) *domain.Category {
	t.Helper()
	c := &domain.Category{Name: name}
	_, err := s.categories.Create(context.Background(), c)
	require.NoError(t, err)
	return c
}

func (s *testServer) ad(t *testing.T, name, description string, price int64, author *domain.User, category *domain.Category) *domain.Ad {
	t.Helper()
	a := &domain.Ad{
		Name:        name,
		AuthorID:    author.ID,
		Price:       price,
		Description: description,
		IsPublished: true,
		CategoryID:  category.ID,
	}
	_, err := s.ads.Create(context.Background(), a)
	require.NoError(t, err)
	return a
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
