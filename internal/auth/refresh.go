package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

// refreshSecretBytes gives 256 bits of entropy per secret.
const refreshSecretBytes = 32

// GenerateRefreshSecret returns a fresh hex-encoded random secret.
func GenerateRefreshSecret() (string, error) {
	buf := make([]byte, refreshSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// SecretHasher hashes refresh secrets one way and verifies them later.
type SecretHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, hash string) bool
}

// BcryptHasher hashes with bcrypt at a configurable cost.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher clamps cost into bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Verify(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// Argon2idHasher hashes with argon2id.
type Argon2idHasher struct {
	params *argon2id.Params
}

// NewArgon2idHasher uses the library defaults when params is nil.
func NewArgon2idHasher(params *argon2id.Params) *Argon2idHasher {
	if params == nil {
		params = argon2id.DefaultParams
	}
	return &Argon2idHasher{params: params}
}

func (h *Argon2idHasher) Hash(secret string) (string, error) {
	return argon2id.CreateHash(secret, h.params)
}

func (h *Argon2idHasher) Verify(secret, hash string) bool {
	ok, err := argon2id.ComparePasswordAndHash(secret, hash)
	return err == nil && ok
}

// NewSecretHasher picks a hasher by name ("bcrypt" or "argon2id").
func NewSecretHasher(name string, bcryptCost int) (SecretHasher, error) {
	switch strings.ToLower(name) {
	case "", "bcrypt":
		return NewBcryptHasher(bcryptCost), nil
	case "argon2id":
		return NewArgon2idHasher(nil), nil
	default:
		return nil, errors.New("unknown refresh hasher " + name)
	}
}
