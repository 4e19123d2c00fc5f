// internal/models/user_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndCheckPassword(t *testing.T) {
	u := &User{}
	assert.NoError(t, u.SetPassword("Str0ng!Passw0rd"))
	assert.NotEqual(t, "Str0ng!Passw0rd", u.PasswordHash)

	assert.NoError(t, u.CheckPassword("Str0ng!Passw0rd"))
	assert.Error(t, u.CheckPassword("wrong password"))
}

func TestCanAuthenticate(t *testing.T) {
	cases := []struct {
		status UserStatus
		want   bool
	}{
		{UserStatusActive, true},
		{UserStatusSuspended, false},
		{UserStatusBanned, false},
	}

	for _, tc := range cases {
		u := &User{Status: tc.status}
		assert.Equal(t, tc.want, u.CanAuthenticate(), "status %s", tc.status)
	}
}
