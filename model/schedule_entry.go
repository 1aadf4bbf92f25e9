package model

import "time"

const (
	SlotDay   = "day"
	SlotNight = "night"
	SlotBoth  = "both"
)

// ScheduleEntry holds one user's availability for one calendar day.
// Date is a plain ISO date string, no time component and no timezone.
// At most one row per (user, date) - kept that way by upsert, not by a
// unique constraint.
type ScheduleEntry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index:idx_schedule_user_date;not null" json:"user_id"`
	Date      string    `gorm:"index:idx_schedule_user_date;size:10;not null" json:"date"`
	TimeType  string    `gorm:"size:10;not null" json:"time_type"`
	CreatedAt time.Time `json:"created_at"`
}
