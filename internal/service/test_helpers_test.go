package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/fieldreport-auth/internal/auth"
	"github.com/spec-kit/fieldreport-auth/internal/config"
	"github.com/spec-kit/fieldreport-auth/internal/domain"
	"github.com/spec-kit/fieldreport-auth/internal/events"
	"github.com/spec-kit/fieldreport-auth/internal/mocks"
	apperrors "github.com/spec-kit/fieldreport-auth/pkg/util"
)

const (
	testPhone = "+910000000001"
	testCode  = "111111"
)

type harness struct {
	svc     *AuthService
	users   *mocks.MockUserRepository
	tokens  *mocks.MockRefreshTokenRepository
	modules *mocks.MockModuleCounter
	gateway *mocks.MockOTPGateway
	events  []events.Event
	clock   time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		users:   mocks.NewMockUserRepository(),
		tokens:  mocks.NewMockRefreshTokenRepository(),
		modules: &mocks.MockModuleCounter{},
		gateway: mocks.NewMockOTPGateway(testCode),
		clock:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	dispatcher := events.NewInMemoryDispatcher(nil)
	dispatcher.SubscribeAll(func(_ context.Context, e events.Event) error {
		h.events = append(h.events, e)
		return nil
	})
	h.svc = NewAuthService(config.AuthConfig{
		JWTSecret:              "test-secret",
		AccessTokenTTLMinutes:  1440,
		RefreshTokenTTLMinutes: 7 * 24 * 60,
	}, AuthDependencies{
		UserRepo:         h.users,
		RefreshTokenRepo: h.tokens,
		ModuleCounter:    h.modules,
		Gateway:          h.gateway,
		Hasher:           auth.NewBcryptHasher(bcrypt.MinCost),
		Dispatcher:       dispatcher,
		Clock:            func() time.Time { return h.clock },
	})
	return h
}

func (h *harness) seedNamed(t *testing.T, phone string, status domain.UserStatus, role domain.UserRole) *domain.User {
	t.Helper()
	name := "Asha"
	return h.users.Seed(domain.User{PhoneNumber: phone, Name: &name, Status: status, Role: role})
}

func (h *harness) signIn(t *testing.T, phone string) *domain.TokenPair {
	t.Helper()
	res, err := h.svc.SignIn(context.Background(), phone, testCode)
	require.NoError(t, err)
	require.NotNil(t, res.Tokens)
	return res.Tokens
}

func (h *harness) eventTypes() []events.EventType {
	out := make([]events.EventType, 0, len(h.events))
	for _, e := range h.events {
		out = append(out, e.Type)
	}
	return out
}

func requireDomainError(t *testing.T, err error, status int, message string) {
	t.Helper()
	require.Error(t, err)
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %T", err)
	require.Equal(t, status, de.HTTPStatus)
	if message != "" {
		require.Equal(t, message, de.Message)
	}
}
