package device

import (
	"testing"
	"time"

	"github.com/dmm8rgbc4y-sudo/jantomo/internal/testutil"
	"github.com/dmm8rgbc4y-sudo/jantomo/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newManager(t *testing.T) (*Manager, *gorm.DB) {
	db := testutil.NewDB(t)
	return NewManager(db), db
}

func TestIssueAuthenticateRoundTrip(t *testing.T) {
	m, _ := newManager(t)

	token, err := m.Issue(7)
	require.NoError(t, err)
	require.Len(t, token, 64) // 32 random bytes, hex encoded

	userID, err := m.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)
}

func TestAuthenticateUnknownToken(t *testing.T) {
	m, _ := newManager(t)

	_, err := m.Authenticate("deadbeef")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestRevokeOne(t *testing.T) {
	m, _ := newManager(t)

	token, err := m.Issue(7)
	require.NoError(t, err)

	require.NoError(t, m.RevokeOne(token))

	_, err = m.Authenticate(token)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// Revoking an already revoked token is a no-op
	assert.NoError(t, m.RevokeOne(token))
}

func TestExpiredTokenNeverAuthenticates(t *testing.T) {
	m, db := newManager(t)

	token, err := m.Issue(7)
	require.NoError(t, err)

	err = db.Model(model.DeviceToken{}).
		Where("token = ?", token).
		Update("expires_at", time.Now().UTC().Add(-time.Hour)).
		Error
	require.NoError(t, err)

	_, err = m.Authenticate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRevokeOnlyAffectsOwnDevice(t *testing.T) {
	m, _ := newManager(t)

	phone, err := m.Issue(7)
	require.NoError(t, err)
	laptop, err := m.Issue(7)
	require.NoError(t, err)

	require.NoError(t, m.RevokeOne(phone))

	_, err = m.Authenticate(laptop)
	assert.NoError(t, err)
}

func TestRotateLeavesExactlyOneActive(t *testing.T) {
	m, db := newManager(t)

	old1, err := m.Issue(7)
	require.NoError(t, err)
	old2, err := m.Issue(7)
	require.NoError(t, err)

	fresh, err := m.Rotate(7)
	require.NoError(t, err)

	_, err = m.Authenticate(old1)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	_, err = m.Authenticate(old2)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	userID, err := m.Authenticate(fresh)
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)

	var active int64
	err = db.Model(model.DeviceToken{}).
		Where("user_id = ? AND is_revoked = ?", 7, false).
		Count(&active).Error
	require.NoError(t, err)
	assert.EqualValues(t, 1, active)
}

func TestRevokeAllActiveThenIssue(t *testing.T) {
	m, db := newManager(t)

	_, err := m.Issue(7)
	require.NoError(t, err)
	_, err = m.Issue(7)
	require.NoError(t, err)

	require.NoError(t, m.RevokeAllActive(7))

	fresh, err := m.Issue(7)
	require.NoError(t, err)

	userID, err := m.Authenticate(fresh)
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)

	var active int64
	err = db.Model(model.DeviceToken{}).
		Where("user_id = ? AND is_revoked = ?", 7, false).
		Count(&active).Error
	require.NoError(t, err)
	assert.EqualValues(t, 1, active)
}

func TestRotateDoesNotTouchOtherUsers(t *testing.T) {
	m, _ := newManager(t)

	other, err := m.Issue(8)
	require.NoError(t, err)

	_, err = m.Rotate(7)
	require.NoError(t, err)

	_, err = m.Authenticate(other)
	assert.NoError(t, err)
}

func TestDeleteExpiredBefore(t *testing.T) {
	m, db := newManager(t)

	stale, err := m.Issue(7)
	require.NoError(t, err)
	fresh, err := m.Issue(7)
	require.NoError(t, err)

	err = db.Model(model.DeviceToken{}).
		Where("token = ?", stale).
		Update("expires_at", time.Now().UTC().AddDate(0, 0, -120)).
		Error
	require.NoError(t, err)

	cutoff := time.Now().UTC().AddDate(0, 0, -90)

	deleted, err := m.DeleteExpiredBefore(cutoff)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	// Second sweep finds nothing left to delete
	deleted, err = m.DeleteExpiredBefore(cutoff)
	require.NoError(t, err)
	assert.EqualValues(t, 0, deleted)

	_, err = m.Authenticate(fresh)
	assert.NoError(t, err)
}
