package service

import (
	"context"
	"strings"

	"adboard/internal/domain"
	"adboard/internal/repository"
)

// LocationInput carries location fields; nil fields are left unchanged on update
// and UserID and Name are required on create.
type LocationInput struct {
	UserID *int64
	Name   *string
	Lat    *float64
	Lng    *float64
}

// LocationService exposes the location resource.
type LocationService interface {
	List(ctx context.Context) ([]domain.Location, error)
	Get(ctx context.Context, id int64) (*domain.Location, error)
	Create(ctx context.Context, input LocationInput) (*domain.Location, error)
	Update(ctx context.Context, id int64, input LocationInput) (*domain.Location, error)
	Delete(ctx context.Context, id int64) error
}

type locationService struct {
	locations repository.LocationRepository
}

func NewLocationService(locations repository.LocationRepository) LocationService {
	return &locationService{locations: locations}
}

func (s *locationService) List(ctx context.Context) ([]domain.Location, error) {
	return s.locations.List(ctx)
}

func (s *locationService) Get(ctx context.Context, id int64) (*domain.Location, error) {
	return s.locations.Get(ctx, id)
}

func (s *locationService) Create(ctx context.Context, input LocationInput) (*domain.Location, error) {
	if input.UserID == nil {
		return nil, domain.Invalid("user_id", "user_id is required")
	}
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, domain.Invalid("name", "name is required")
	}

	location := &domain.Location{
		UserID: *input.UserID,
		Name:   strings.TrimSpace(*input.Name),
		Lat:    input.Lat,
		Lng:    input.Lng,
	}
	if _, err := s.locations.Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

func (s *locationService) Update(ctx context.Context, id int64, input LocationInput) (*domain.Location, error) {
	location, err := s.locations.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.UserID != nil {
		location.UserID = *input.UserID
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.Invalid("name", "name must not be blank")
		}
		location.Name = name
	}
	if input.Lat != nil {
		location.Lat = input.Lat
	}
	if input.Lng != nil {
		location.Lng = input.Lng
	}

	if err := s.locations.Update(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

func (s *locationService) Delete(ctx context.Context, id int64) error {
	return s.locations.Delete(ctx, id)
}
