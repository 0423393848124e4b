package models

import "time"

const (
	WaitlistStatusActive = "active"

	WaitlistSourceSelfSubmitted = "self-submitted"
	WaitlistSourceAdminAdded    = "admin-added"
)

// WaitlistEntry rows are immutable; admins may only delete them.
type WaitlistEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Phone     string    `gorm:"type:varchar(20);not null" json:"phone"`
	Pincode   string    `gorm:"type:varchar(6);not null" json:"pincode"`
	Status    string    `gorm:"type:varchar(20);not null;default:active" json:"status"`
	Source    string    `gorm:"type:varchar(20);not null;default:self-submitted" json:"source"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
