package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/fieldreport-auth/internal/domain"
	"github.com/spec-kit/fieldreport-auth/internal/repository"
)

// MockRefreshTokenRepository is an in-memory RefreshTokenRepository.
type MockRefreshTokenRepository struct {
	mu     sync.Mutex
	tokens []domain.RefreshToken

	CreateFunc       func(ctx context.Context, token *domain.RefreshToken) error
	ListActiveFunc   func(ctx context.Context, now time.Time) ([]domain.RefreshToken, error)
	DeleteByUserFunc func(ctx context.Context, userID string) (int64, error)
}

// NewMockRefreshTokenRepository creates an empty repository.
func NewMockRefreshTokenRepository() *MockRefreshTokenRepository {
	return &MockRefreshTokenRepository{}
}

// All returns a snapshot of every stored credential.
func (m *MockRefreshTokenRepository) All() []domain.RefreshToken {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.RefreshToken(nil), m.tokens...)
}

// ForUser returns the stored credentials owned by userID.
func (m *MockRefreshTokenRepository) ForUser(userID string) []domain.RefreshToken {
	var out []domain.RefreshToken
	for _, t := range m.All() {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	token.ID = uuid.NewString()
	token.CreatedAt = time.Now()
	m.tokens = append(m.tokens, *token)
	return nil
}

func (m *MockRefreshTokenRepository) ListActive(ctx context.Context, now time.Time) ([]domain.RefreshToken, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var active []domain.RefreshToken
	for _, t := range m.tokens {
		if t.ExpiresAt.After(now) && !t.IsRevoked {
			active = append(active, t)
		}
	}
	return active, nil
}

func (m *MockRefreshTokenRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	if m.DeleteByUserFunc != nil {
		return m.DeleteByUserFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.tokens[:0]
	var deleted int64
	for _, t := range m.tokens {
		if t.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, t)
	}
	m.tokens = kept
	return deleted, nil
}

var _ repository.RefreshTokenRepository = (*MockRefreshTokenRepository)(nil)
