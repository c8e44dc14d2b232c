package models

import (
	"time"

	"github.com/google/uuid"
)

// User role values
const (
	RoleUser       = "user"
	RoleManager    = "manager"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

type User struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_users_uuid" json:"uuid"`

	Name string `gorm:"size:255;not null" json:"name"`

	// Email is stored lowercase-normalized.
	Email        string `gorm:"size:255;not null;uniqueIndex:uk_users_email" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"` // Never serialize password hash

	Role     string `gorm:"size:16;not null;default:user" json:"role"`
	IsActive *bool  `gorm:"default:false;index:idx_users_is_active" json:"is_active"`

	// Password reset fields persisted for the out-of-scope reset workflow.
	ResetPasswordToken     *string    `gorm:"size:255" json:"-"`
	ResetPasswordExpiresAt *time.Time `json:"-"`

	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_users_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserFilter represents filter criteria for user queries
type UserFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Email         *string
	Role          *string
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
