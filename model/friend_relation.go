package model

import "time"

const (
	RelationPending  = "pending"
	RelationAccepted = "accepted"
)

// FriendRelation links the requester (UserID) to the target (FriendID).
// Once accepted it's treated as bidirectional, so at most one row may
// exist per unordered pair no matter who initiated.
type FriendRelation struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	FriendID  uint      `gorm:"index;not null" json:"friend_id"`
	Status    string    `gorm:"size:20;default:pending" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
