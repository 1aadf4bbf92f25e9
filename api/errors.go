package api

import (
	"errors"

	"github.com/dmm8rgbc4y-sudo/jantomo/internal/schedule"
	"github.com/dmm8rgbc4y-sudo/jantomo/validators"
)

// isValidationError reports whether err is a format problem the client
// can fix by correcting their input. Everything else that bubbles up
// from the stores is treated as a storage fault and becomes a 500.
func isValidationError(err error) bool {
	for _, e := range []error{
		validators.ErrUsernameEmpty,
		validators.ErrUsernameTooLong,
		validators.ErrPINEmpty,
		validators.ErrPINNotDigits,
		validators.ErrPINTooShort,
		validators.ErrPINTooLong,
		schedule.ErrInvalidDate,
		schedule.ErrInvalidSlot,
	} {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}
