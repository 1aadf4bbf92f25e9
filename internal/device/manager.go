// Package device owns the auto-login device token lifecycle. A token is
// Active until it either expires (checked lazily on authenticate) or gets
// revoked (logout, or a superseding login). Both states are terminal.
package device

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmm8rgbc4y-sudo/jantomo/model"
	"github.com/dmm8rgbc4y-sudo/jantomo/util"
	"gorm.io/gorm"
)

// TokenTTL is how long an issued token authenticates for.
const TokenTTL = 30 * 24 * time.Hour

const tokenBytes = 32

var (
	ErrTokenNotFound = errors.New("device token does not exist")
	ErrTokenRevoked  = errors.New("device token has been revoked")
	ErrTokenExpired  = errors.New("device token has expired")
)

type Manager struct {
	db *gorm.DB
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// Issue generates a fresh random token for the user and persists it with
// a 30 day expiry.
func (m *Manager) Issue(userID uint) (string, error) {
	return m.issue(m.db, userID)
}

func (m *Manager) issue(tx *gorm.DB, userID uint) (string, error) {
	token, err := util.GenerateToken(tokenBytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate device token, %w", err)
	}

	row := model.DeviceToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(TokenTTL),
		IsRevoked: false,
	}

	if err := tx.Create(&row).Error; err != nil {
		return "", fmt.Errorf("failed to store device token, %w", err)
	}

	return token, nil
}

// Authenticate resolves a token to its owning user. This is a pure read,
// expiry is checked against the stored timestamp without mutating the row.
// Callers decide what to do with the cookie based on the returned error.
func (m *Manager) Authenticate(token string) (uint, error) {
	var row model.DeviceToken

	err := m.db.Where("token = ?", token).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrTokenNotFound
		}

		return 0, fmt.Errorf("failed to look up device token, %w", err)
	}

	if row.IsRevoked {
		return 0, ErrTokenRevoked
	}

	if !row.ExpiresAt.After(time.Now().UTC()) {
		return 0, ErrTokenExpired
	}

	return row.UserID, nil
}

// RevokeAllActive marks every non-revoked token of the user as revoked.
func (m *Manager) RevokeAllActive(userID uint) error {
	return m.revokeAllActive(m.db, userID)
}

func (m *Manager) revokeAllActive(tx *gorm.DB, userID uint) error {
	err := tx.Model(model.DeviceToken{}).
		Where("user_id = ? AND is_revoked = ?", userID, false).
		Update("is_revoked", true).
		Error
	if err != nil {
		return fmt.Errorf("failed to revoke active device tokens, %w", err)
	}

	return nil
}

// RevokeOne revokes exactly the given token (logout path). A no-op when
// the token doesn't exist or is already inactive.
func (m *Manager) RevokeOne(token string) error {
	err := m.db.Model(model.DeviceToken{}).
		Where("token = ? AND is_revoked = ?", token, false).
		Update("is_revoked", true).
		Error
	if err != nil {
		return fmt.Errorf("failed to revoke device token, %w", err)
	}

	return nil
}

// Rotate revokes every active token of the user and issues a fresh one,
// both inside a single transaction. After a completed login exactly one
// token for the account authenticates; a crash mid-way rolls back to the
// previous state instead of leaving the user with zero active tokens.
func (m *Manager) Rotate(userID uint) (string, error) {
	var token string

	err := m.db.Transaction(func(tx *gorm.DB) error {
		if err := m.revokeAllActive(tx, userID); err != nil {
			return err
		}

		t, err := m.issue(tx, userID)
		if err != nil {
			return err
		}

		token = t
		return nil
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

// DeleteExpiredBefore physically deletes token rows whose expiry is older
// than the cutoff. Only the maintenance sweep calls this; normal operation
// never deletes token rows.
func (m *Manager) DeleteExpiredBefore(cutoff time.Time) (int64, error) {
	r := m.db.Where("expires_at < ?", cutoff).Delete(model.DeviceToken{})
	if r.Error != nil {
		return 0, fmt.Errorf("failed to delete expired device tokens, %w", r.Error)
	}

	return r.RowsAffected, nil
}
