// Package credential owns user records and the register/verify flow.
// PIN format checks live in validators, hashing in pkg/security.
package credential

import (
	"errors"
	"fmt"

	"github.com/dmm8rgbc4y-sudo/jantomo/model"
	"github.com/dmm8rgbc4y-sudo/jantomo/pkg/security"
	"github.com/dmm8rgbc4y-sudo/jantomo/validators"
	"gorm.io/gorm"
)

var (
	ErrDuplicateUsername = errors.New("username is already registered")
	ErrUnknownUser       = errors.New("user does not exist")
	ErrWrongPIN          = errors.New("PIN does not match")
)

type Store struct {
	db    *gorm.DB
	argon *security.ArgonHash
}

func NewStore(db *gorm.DB, argon *security.ArgonHash) *Store {
	return &Store{db: db, argon: argon}
}

// Register validates the username and PIN, hashes the PIN and inserts a
// new user. Returns the new user's ID.
func (s *Store) Register(username, pin string) (uint, error) {
	if err := validators.UsernameValidator(username); err != nil {
		return 0, err
	}

	if err := validators.PINValidator(pin); err != nil {
		return 0, err
	}

	var found bool

	r := s.db.Model(model.User{}).
		Select("count(*) > 0").
		Where("username = ?", username).
		Find(&found)
	if r.Error != nil {
		return 0, fmt.Errorf("failed to check if username is taken, %w", r.Error)
	}

	if found {
		return 0, ErrDuplicateUsername
	}

	hash, err := s.argon.GenerateFromPIN(pin)
	if err != nil {
		return 0, fmt.Errorf("failed to hash PIN, %w", err)
	}

	user := model.User{
		Username: username,
		PinHash:  hash,
	}

	if err := s.db.Create(&user).Error; err != nil {
		// Lost a race against a concurrent registration of the same name
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrDuplicateUsername
		}

		return 0, fmt.Errorf("failed to create user, %w", err)
	}

	return user.ID, nil
}

// Verify checks a username/PIN pair and returns the matching user's ID.
// The hash comparison is constant-time. No side effects.
func (s *Store) Verify(username, pin string) (uint, error) {
	if err := validators.PINValidator(pin); err != nil {
		return 0, err
	}

	var user model.User

	err := s.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUnknownUser
		}

		return 0, fmt.Errorf("failed to look up user, %w", err)
	}

	ok, err := s.argon.VerifyPIN(pin, user.PinHash)
	if err != nil {
		return 0, fmt.Errorf("failed to verify PIN, %w", err)
	}

	if !ok {
		return 0, ErrWrongPIN
	}

	return user.ID, nil
}

// ByID fetches a single user. Used by the boundary for profile data.
func (s *Store) ByID(id uint) (*model.User, error) {
	var user model.User

	err := s.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownUser
		}

		return nil, fmt.Errorf("failed to look up user, %w", err)
	}

	return &user, nil
}
