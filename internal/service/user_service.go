package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"adboard/internal/domain"
	"adboard/internal/repository"
)

const minPasswordLength = 8

// CreateUserInput is the sign-up payload; Locations are names attached to the new user.
type CreateUserInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Role      domain.UserRole
	Age       *int
	Locations []string
}

// UpdateUserInput overwrites only the non-nil fields. A non-nil Locations
// replaces the whole location set.
type UpdateUserInput struct {
	Password  *string
	FirstName *string
	LastName  *string
	Role      *domain.UserRole
	Age       *int
	Locations *[]string
}

// UserService describes user lifecycle operations.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	users     repository.UserRepository
	locations repository.LocationRepository
	logger    logrus.FieldLogger
}

func NewUserService(users repository.UserRepository, locations repository.LocationRepository, logger logrus.FieldLogger) UserService {
	if logger == nil {
		logger = logrus.New()
	}
	return &userService{
		users:     users,
		locations: locations,
		logger:    logger,
	}
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = *sanitizeUser(&users[i])
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	locations, err := s.locations.ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Locations = locations
	return sanitizeUser(user), nil
}

func (s *userService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, domain.Invalid("username", "username is required")
	}
	role := input.Role
	if role == "" {
		role = domain.UserRoleMember
	}
	if err := validateProfile(&role, input.Age); err != nil {
		return nil, err
	}
	if err := s.ensureUsernameFree(ctx, username); err != nil {
		return nil, err
	}
	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Role:         role,
		Age:          input.Age,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if len(input.Locations) > 0 {
		if err := s.locations.ReplaceForUser(ctx, user.ID, input.Locations); err != nil {
			if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
				s.logger.WithField("user_id", user.ID).Warnf("roll back user after location failure: %v", delErr)
			}
			return nil, err
		}
	}

	return s.Get(ctx, user.ID)
}

func (s *userService) Update(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateProfile(input.Role, input.Age); err != nil {
		return nil, err
	}

	if input.Password != nil {
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Age != nil {
		user.Age = input.Age
	}

	if input.Locations != nil {
		err = s.users.UpdateWithLocations(ctx, user, *input.Locations)
	} else {
		err = s.users.Update(ctx, user)
	}
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}

// ensureUsernameFree reports a taken username before the password is hashed.
// The unique index still guards concurrent sign-ups.
func (s *userService) ensureUsernameFree(ctx context.Context, username string) error {
	_, err := s.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return domain.Conflict("user", fmt.Sprintf("username %q is already taken", username))
	case errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		return err
	}
}

func validateProfile(role *domain.UserRole, age *int) error {
	if role != nil && !role.Valid() {
		return domain.Invalid("role", fmt.Sprintf("unknown role %q", *role))
	}
	if age != nil && *age < 0 {
		return domain.Invalid("age", "age must not be negative")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	password = strings.TrimSpace(password)
	if password == "" {
		return "", domain.Invalid("password", "password is required")
	}
	if len(password) < minPasswordLength {
		return "", domain.Invalid("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.PasswordHash = ""
	return &clean
}
