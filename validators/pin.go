// Package validators contains validators found throughout the application
// that have been abstracted away from the main code
package validators

import "errors"

var (
	ErrPINEmpty     = errors.New("no PIN provided")
	ErrPINNotDigits = errors.New("PIN must contain digits only")
	ErrPINTooShort  = errors.New("PIN must be at least 4 digits long")
	ErrPINTooLong   = errors.New("PIN must be at most 6 digits long")
)

func PINValidator(p string) error {
	if p == "" {
		return ErrPINEmpty
	}

	for _, r := range p {
		if r < '0' || r > '9' {
			return ErrPINNotDigits
		}
	}

	if len(p) < 4 {
		return ErrPINTooShort
	}

	if len(p) > 6 {
		return ErrPINTooLong
	}

	return nil
}
