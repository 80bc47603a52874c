package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name        string
		password    string
		expectedErr error
	}{
		{
			name:        "valid password",
			password:    "ValidP@ss1",
			expectedErr: nil,
		},
		{
			name:        "valid password with all allowed special chars",
			password:    "Val!@#$%^&*()_+-=[]{};':\"\\|,.<>/?1dP@ss",
			expectedErr: nil,
		},
		{
			name:        "too short",
			password:    "V@lid1",
			expectedErr: errors.New("Password must be at least 8 characters long."),
		},
		{
			name:        "missing number",
			password:    "ValidP@ssword",
			expectedErr: errors.New("Password must contain at least one number."),
		},
		{
			name:        "missing lowercase",
			password:    "VALIDP@SS1",
			expectedErr: errors.New("Password must contain at least one lowercase letter."),
		},
		{
			name:        "missing uppercase",
			password:    "validp@ss1",
			expectedErr: errors.New("Password must contain at least one uppercase letter."),
		},
		{
			name:        "missing special char",
			password:    "ValidPass1",
			expectedErr: errors.New("Password must contain at least one special character."),
		},
		{
			name:        "non-ascii letter",
			password:    "VälidP@ss1",
			expectedErr: errors.New("Password contains disallowed characters."),
		},
		{
			name:        "first missing class reported",
			password:    "@@@@@@@@",
			expectedErr: errors.New("Password must contain at least one number."),
		},
		{
			name:        "disallowed char",
			password:    "Valid P@ss1",
			expectedErr: errors.New("Password contains disallowed characters."),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePassword(tt.password)
			if tt.expectedErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.expectedErr.Error())
		})
	}
}
