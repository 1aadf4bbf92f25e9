package validators

import (
	"errors"
	"unicode/utf8"
)

var (
	ErrUsernameEmpty   = errors.New("no username provided")
	ErrUsernameTooLong = errors.New("username is too long")
)

func UsernameValidator(u string) error {
	if u == "" {
		return ErrUsernameEmpty
	}

	if utf8.RuneCountInString(u) > 64 {
		return ErrUsernameTooLong
	}

	return nil
}
