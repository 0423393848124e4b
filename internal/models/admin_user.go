package models

import "time"

type AdminUser struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Name              string     `gorm:"type:varchar(255);not null" json:"name"`
	Email             string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash      string     `gorm:"type:varchar(255);not null" json:"-"`
	Role              string     `gorm:"type:varchar(20);not null;default:admin" json:"role"`
	LastLogin         *time.Time `json:"last_login"`
	ResetToken        *string    `gorm:"type:text" json:"-"`
	ResetTokenExpires *time.Time `json:"-"`
	CreatedAt         time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"not null" json:"updated_at"`
}

// HasPendingReset reports whether a reset token is stored, expired or not.
func (a *AdminUser) HasPendingReset() bool {
	return a.ResetToken != nil && *a.ResetToken != ""
}
