package repository

import (
	"context"

	"adboard/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	Update(ctx context.Context, user *domain.User) error
	// UpdateWithLocations updates the user and replaces its location set atomically.
	UpdateWithLocations(ctx context.Context, user *domain.User, names []string) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// LocationRepository manages the places attached to users.
type LocationRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, location *domain.Location) (int64, error)
	Update(ctx context.Context, location *domain.Location) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Location, error)
	List(ctx context.Context) ([]domain.Location, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Location, error)
	ReplaceForUser(ctx context.Context, userID int64, names []string) error
}
