// Package model contain gorm model for recording data to database
package model

import (
	"time"
)

// Role constants for User.Role
var (
	// RoleApplicant is a job seeker, auto-approved at registration
	RoleApplicant = "APPLICANT"
	// RoleHR is an employer-side user, must be approved by a super admin before acting
	RoleHR = "HR"
	// RoleSuperAdmin is the platform operator with cross-tenant authority
	RoleSuperAdmin = "SUPER_ADMIN"
)

// User is gorm model for platform account of any role
type User struct {
	ID         uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	FullName   string    `gorm:"type:text" json:"full_name"`
	Email      string    `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Password   string    `gorm:"type:text;not null" json:"-"`
	Phone      string    `gorm:"type:text" json:"phone"`
	Role       string    `gorm:"type:text;not null" json:"role"`
	IsApproved bool      `gorm:"not null;default:false" json:"is_approved"`
	CreatedAt  time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
}

// IsAnonymous reports whether this value represents an unauthenticated caller.
func (u User) IsAnonymous() bool {
	return u.ID == 0
}

// PasswordResetToken is a single-use token for the forgot-password flow
type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Token     string    `gorm:"type:text;not null;uniqueIndex" json:"token"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	ExpiresAt time.Time `gorm:"type:timestamp;not null" json:"expires_at"`
}

// Expired reports whether the token is past its expiry time.
func (t *PasswordResetToken) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}

// Subscriber holds an email subscribed to job notifications
type Subscriber struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email string `gorm:"type:text;not null;uniqueIndex" json:"email"`
}
