package domain

import (
	"errors"
	"time"
)

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusUnset     UserStatus = "UNSET"
	UserStatusOnboarded UserStatus = "ONBOARDED"
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// UserRole separates field reporters from administrators.
type UserRole string

const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrPhoneTaken is returned when inserting a phone number that already exists.
	ErrPhoneTaken = errors.New("phone number already registered")
)

// User is a phone-identified account. A nil Name means sign-up is incomplete.
type User struct {
	ID           string
	PhoneNumber  string
	Name         *string
	Email        *string
	Gender       *string
	Age          *int
	Occupation   *string
	Role         UserRole
	Status       UserStatus
	CreatedAt    time.Time
	LastActiveAt *time.Time
}

// SignupPending reports whether the user still has to complete sign-up.
func (u *User) SignupPending() bool {
	return u.Name == nil
}

// IsSuspended reports whether an administrator suspended the account.
func (u *User) IsSuspended() bool {
	return u.Status == UserStatusSuspended
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// Profile holds the fields attached when sign-up completes.
type Profile struct {
	Name       string
	Email      *string
	Gender     *string
	Age        *int
	Occupation *string
}
