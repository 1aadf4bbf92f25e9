// Package model defines database models
package model

import "time"

type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	// PHC-encoded argon2id hash of the 4-6 digit PIN. Never the PIN itself
	PinHash   string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`

	DeviceTokens  []DeviceToken    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Schedules     []ScheduleEntry  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	SentRelations []FriendRelation `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
