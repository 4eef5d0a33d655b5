package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type UserStatus string

const (
	StatusPending   UserStatus = "PENDING"
	StatusApproved  UserStatus = "APPROVED"
	StatusSuspended UserStatus = "SUSPENDED"
)

type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Name  string    `gorm:"type:varchar(100)" json:"name,omitempty"`
	// Nil for OAuth-only accounts. Never exposed in JSON.
	PasswordHash *string        `gorm:"type:varchar(255)" json:"-"`
	Role         Role           `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	Status       UserStatus     `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// IsDeleted reports whether the account has been soft-deleted.
func (u *User) IsDeleted() bool {
	return u.DeletedAt.Valid
}

// CanCreateEvents reports whether the account may create bookings:
// admins always, regular users only once approved.
func (u *User) CanCreateEvents() bool {
	return u.Role == RoleAdmin || u.Status == StatusApproved
}
