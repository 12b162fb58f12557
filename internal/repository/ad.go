package repository

import (
	"context"

	"adboard/internal/domain"
)

// CategoryRepository exposes persistence operations for ad categories.
type CategoryRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, category *domain.Category) (int64, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

// AdRepository exposes persistence operations for ads. Reads return ads
// with the author first name and category name filled in.
type AdRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, ad *domain.Ad) (int64, error)
	Update(ctx context.Context, ad *domain.Ad) error
	UpdateImage(ctx context.Context, id int64, image *string) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Ad, error)
	Count(ctx context.Context, filter domain.AdFilter) (int, error)
	List(ctx context.Context, filter domain.AdFilter, limit, offset int) ([]domain.Ad, error)
}
