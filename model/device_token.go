package model

import "time"

// DeviceToken is one auto-login session bound to a single browser/device.
// A token is active while it's neither revoked nor past ExpiresAt. Both
// states are terminal; rows are only removed by the maintenance sweep.
type DeviceToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	IsRevoked bool      `gorm:"default:false" json:"is_revoked"`
}
