package domain

import "time"

// RefreshToken is a persisted refresh credential. Only the hash of the
// secret is stored.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	IsRevoked bool
}

// Usable reports whether the credential may be exchanged at now.
func (t *RefreshToken) Usable(now time.Time) bool {
	return !t.IsRevoked && now.Before(t.ExpiresAt)
}
