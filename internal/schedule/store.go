// Package schedule owns per-user per-day availability and the weekly
// merge that puts the current user and their friends on one grid.
package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmm8rgbc4y-sudo/jantomo/model"
	"gorm.io/gorm"
)

var (
	ErrInvalidDate = errors.New("date must be an ISO date (YYYY-MM-DD)")
	ErrInvalidSlot = errors.New("slot must be one of day, night or both")
)

// Change reports what an upsert did, so the boundary can tell the user
// how many items actually changed.
type Change int

const (
	ChangeNone Change = iota
	ChangeCreated
	ChangeUpdated
	ChangeDeleted
)

// Item is one submitted cell of the weekly input grid. A blank Slot
// means "clear this day".
type Item struct {
	Date string `json:"date"`
	Slot string `json:"slot"`
}

// Key addresses one cell of a fetched schedule range.
type Key struct {
	UserID uint
	Date   string
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Upsert applies one item for the user: blank slot deletes the entry for
// that date if present, otherwise the entry is created or overwritten.
// At most one entry per (user, date) survives either way.
func (s *Store) Upsert(userID uint, date, slot string) (Change, error) {
	var change Change

	err := s.db.Transaction(func(tx *gorm.DB) error {
		c, err := upsertTx(tx, userID, date, slot)
		if err != nil {
			return err
		}

		change = c
		return nil
	})
	if err != nil {
		return ChangeNone, err
	}

	return change, nil
}

func upsertTx(tx *gorm.DB, userID uint, date, slot string) (Change, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return ChangeNone, ErrInvalidDate
	}

	slot = strings.TrimSpace(slot)

	var existing model.ScheduleEntry

	err := tx.Where("user_id = ? AND date = ?", userID, date).First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return ChangeNone, fmt.Errorf("failed to look up schedule entry, %w", err)
	}
	missing := errors.Is(err, gorm.ErrRecordNotFound)

	// Blank slot clears the day
	if slot == "" {
		if missing {
			return ChangeNone, nil
		}

		if err := tx.Delete(&existing).Error; err != nil {
			return ChangeNone, fmt.Errorf("failed to delete schedule entry, %w", err)
		}

		return ChangeDeleted, nil
	}

	if slot != model.SlotDay && slot != model.SlotNight && slot != model.SlotBoth {
		return ChangeNone, ErrInvalidSlot
	}

	if missing {
		entry := model.ScheduleEntry{
			UserID:   userID,
			Date:     date,
			TimeType: slot,
		}

		if err := tx.Create(&entry).Error; err != nil {
			return ChangeNone, fmt.Errorf("failed to create schedule entry, %w", err)
		}

		return ChangeCreated, nil
	}

	if existing.TimeType == slot {
		return ChangeNone, nil
	}

	existing.TimeType = slot

	if err := tx.Save(&existing).Error; err != nil {
		return ChangeNone, fmt.Errorf("failed to update schedule entry, %w", err)
	}

	return ChangeUpdated, nil
}

// SaveBatch applies a submitted list of items in one transaction and
// returns how many of them changed anything. Any failure rolls back the
// whole batch, a half-saved week is never committed.
func (s *Store) SaveBatch(userID uint, items []Item) (int, error) {
	var changes int

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			c, err := upsertTx(tx, userID, item.Date, item.Slot)
			if err != nil {
				return err
			}

			if c != ChangeNone {
				changes++
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return changes, nil
}

// GetRange fetches all entries for the given users restricted to the
// given dates in a single query and returns them keyed by (user, date).
func (s *Store) GetRange(userIDs []uint, dates []string) (map[Key]string, error) {
	out := make(map[Key]string)

	if len(userIDs) == 0 || len(dates) == 0 {
		return out, nil
	}

	var entries []model.ScheduleEntry

	err := s.db.Where("user_id IN ? AND date IN ?", userIDs, dates).Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule range, %w", err)
	}

	for _, e := range entries {
		out[Key{UserID: e.UserID, Date: e.Date}] = e.TimeType
	}

	return out, nil
}

// DeleteOlderThan bulk-deletes every entry dated strictly before the
// cutoff and returns the number of rows removed. ISO date strings order
// lexicographically, so a plain string compare is a date compare.
func (s *Store) DeleteOlderThan(cutoff string) (int64, error) {
	if _, err := time.Parse(DateLayout, cutoff); err != nil {
		return 0, ErrInvalidDate
	}

	r := s.db.Where("date < ?", cutoff).Delete(model.ScheduleEntry{})
	if r.Error != nil {
		return 0, fmt.Errorf("failed to delete old schedule entries, %w", r.Error)
	}

	return r.RowsAffected, nil
}
