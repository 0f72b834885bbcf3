package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserPredicates(t *testing.T) {
	name := "Asha"
	u := &User{Role: UserRoleUser, Status: UserStatusUnset}
	assert.True(t, u.SignupPending())
	assert.False(t, u.IsAdmin())
	assert.False(t, u.IsSuspended())

	u.Name = &name
	u.Status = UserStatusSuspended
	u.Role = UserRoleAdmin
	assert.False(t, u.SignupPending())
	assert.True(t, u.IsAdmin())
	assert.True(t, u.IsSuspended())
}

func TestRefreshTokenUsable(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tok := &RefreshToken{ExpiresAt: now.Add(time.Minute)}
	assert.True(t, tok.Usable(now))

	tok.IsRevoked = true
	assert.False(t, tok.Usable(now))

	expired := &RefreshToken{ExpiresAt: now}
	assert.False(t, expired.Usable(now))
}
