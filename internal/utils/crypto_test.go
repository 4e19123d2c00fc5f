// internal/utils/crypto_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomString(t *testing.T) {
	s, err := GenerateRandomString(24)
	assert.NoError(t, err)
	assert.Len(t, s, 24)

	for _, r := range s {
		assert.True(t, (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
			"unexpected character %q", r)
	}
}

func TestGenerateTicketCode(t *testing.T) {
	a, err := GenerateTicketCode()
	assert.NoError(t, err)
	assert.Len(t, a, 12)

	b, err := GenerateTicketCode()
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
}
