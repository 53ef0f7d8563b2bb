package domain

import (
	"errors"
	"time"
)

// Role is the single authorization attribute carried by a user.
type Role string

const (
	RolePersonal Role = "personal"
	RoleOwner    Role = "owner"
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePersonal, RoleOwner, RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// invalidCredentialsMessage is shared by every login failure so callers cannot
// tell an unknown email from a wrong password or a deactivated account.
const invalidCredentialsMessage = "Invalid email or password"

var (
	ErrInvalidCredentials = errors.New(invalidCredentialsMessage)
	ErrUserNotFound       = errors.New("user not found")
)

// User is the persisted identity record. Everything beyond the credentials is
// optional because older records were written before those fields existed.
type User struct {
	ID             string
	Email          string
	PasswordHash   string
	EmailVerified  *bool
	FirstName      *string
	LastName       *string
	AvatarURL      *string
	Phone          *string
	Locale         *string
	OrganizationID *string
	Role           *Role
	IsActive       *bool
	LastLoginAt    *time.Time
	CreatedAt      *time.Time
}

// Deactivated reports whether the account was explicitly switched off.
// A missing flag counts as active.
func (u *User) Deactivated() bool {
	return u.IsActive != nil && !*u.IsActive
}

// HasRole reports whether the user carries one of the given roles.
func (u *User) HasRole(roles ...Role) bool {
	if u.Role == nil {
		return false
	}
	for _, r := range roles {
		if *u.Role == r {
			return true
		}
	}
	return false
}

// View returns the sanitized projection of u.
func (u *User) View() *UserView {
	return &UserView{
		ID:             u.ID,
		Email:          u.Email,
		EmailVerified:  u.EmailVerified,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		AvatarURL:      u.AvatarURL,
		Phone:          u.Phone,
		Locale:         u.Locale,
		OrganizationID: u.OrganizationID,
		Role:           u.Role,
		IsActive:       u.IsActive,
		LastLoginAt:    u.LastLoginAt,
		CreatedAt:      u.CreatedAt,
	}
}

// UserView is the user as exposed outside the auth core. It never carries the
// password hash.
type UserView struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	EmailVerified  *bool      `json:"emailVerified,omitempty"`
	FirstName      *string    `json:"firstName,omitempty"`
	LastName       *string    `json:"lastName,omitempty"`
	AvatarURL      *string    `json:"avatarUrl,omitempty"`
	Phone          *string    `json:"phone,omitempty"`
	Locale         *string    `json:"locale,omitempty"`
	OrganizationID *string    `json:"organizationId,omitempty"`
	Role           *Role      `json:"role,omitempty"`
	IsActive       *bool      `json:"isActive,omitempty"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
}

// HasRole mirrors User.HasRole for the projection.
func (v *UserView) HasRole(roles ...Role) bool {
	if v == nil || v.Role == nil {
		return false
	}
	for _, r := range roles {
		if *v.Role == r {
			return true
		}
	}
	return false
}

// Organization groups users. The auth core only provisions its indexes.
type Organization struct {
	ID        string
	Name      string
	Slug      *string
	OwnerID   string
	IsActive  bool
	CreatedAt time.Time
}
