package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a dashboard account. The public dashboard needs no
// account; users exist only so the admin panel can authenticate, so in
// practice there is one admin row.
type User struct {
	ID    string `gorm:"primaryKey;type:uuid" json:"id"`
	Email string `gorm:"uniqueIndex;not null" json:"email"`

	PasswordHash *string `gorm:"type:text" json:"-"`
	IsAdmin      bool    `gorm:"default:false" json:"is_admin"`

	LastLoginAt *time.Time `json:"last_login_at"`

	// GORM fields
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
