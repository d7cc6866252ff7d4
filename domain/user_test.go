package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("pw12345678"))
	assert.NoError(t, ValidatePassword(strings.Repeat("p", MaxPasswordBytes)))

	cases := map[string]struct {
		password string
		message  string
	}{
		"empty":     {"", "Password is required"},
		"too short": {"1234567", "Password must be at least 8 characters long"},
		"too long":  {strings.Repeat("p", MaxPasswordBytes+1), "Password must be at most 72 bytes long"},
		"multibyte": {strings.Repeat("é", 37), "Password must be at most 72 bytes long"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			require.Error(t, err)
			assert.True(t, IsDomainError(err, ErrCodeInvalid))
			fields := FieldErrors(err)
			require.Len(t, fields, 1)
			assert.Equal(t, "password", fields[0].Field)
			assert.Equal(t, tc.message, fields[0].Message)
		})
	}
}
