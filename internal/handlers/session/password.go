package session

import (
	"errors"
	"strings"
)

const (
	minPasswordLength = 8
	passwordSymbols   = `!@#$%^&*()_+\-=[]{};':"\|,.<>/?`
)

var (
	errPasswordTooShort  = errors.New("Password must be at least 8 characters long.")
	errPasswordBadSymbol = errors.New("Password contains disallowed characters.")
)

// passwordClass is a group of characters a password draws at least one of.
type passwordClass struct {
	contains func(r rune) bool
	missing  error
}

func inRange(lo, hi rune) func(rune) bool {
	return func(r rune) bool { return lo <= r && r <= hi }
}

// Every character must fall into one of these classes, and every class must
// be used.
var passwordClasses = []passwordClass{
	{inRange('0', '9'), errors.New("Password must contain at least one number.")},
	{inRange('a', 'z'), errors.New("Password must contain at least one lowercase letter.")},
	{inRange('A', 'Z'), errors.New("Password must contain at least one uppercase letter.")},
	{func(r rune) bool { return strings.ContainsRune(passwordSymbols, r) }, errors.New("Password must contain at least one special character.")},
}

func classOf(r rune) int {
	for i, class := range passwordClasses {
		if class.contains(r) {
			return i
		}
	}
	return -1
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return errPasswordTooShort
	}

	used := make([]bool, len(passwordClasses))
	for _, r := range password {
		i := classOf(r)
		if i < 0 {
			return errPasswordBadSymbol
		}
		used[i] = true
	}

	for i, ok := range used {
		if !ok {
			return passwordClasses[i].missing
		}
	}
	return nil
}
