package domain

import "time"

type UserRole string

const (
	UserRoleMember    UserRole = "member"
	UserRoleModerator UserRole = "moderator"
	UserRoleAdmin     UserRole = "admin"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleMember, UserRoleModerator, UserRoleAdmin:
		return true
	}
	return false
}

// User is an account that authors ads and owns locations.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         UserRole
	Age          *int
	TotalAds     int
	Locations    []Location
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
