package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/fieldreport-auth/internal/auth"
	"github.com/spec-kit/fieldreport-auth/internal/config"
	"github.com/spec-kit/fieldreport-auth/internal/domain"
	"github.com/spec-kit/fieldreport-auth/internal/events"
	"github.com/spec-kit/fieldreport-auth/internal/observability"
	"github.com/spec-kit/fieldreport-auth/internal/otp"
	"github.com/spec-kit/fieldreport-auth/internal/repository"
	apperrors "github.com/spec-kit/fieldreport-auth/pkg/util"
)

// Caller-facing messages.
const (
	MsgSuspended          = "Your account has been suspended by the administrator"
	MsgAdminNotAllowed    = "Login not allowed for admin accounts"
	MsgInvalidOTP         = "Invalid OTP"
	MsgUserNotFound       = "User not found"
	MsgUserDoesNotExist   = "User does not exist"
	MsgInvalidRefresh     = "Invalid refresh token"
	MsgFailedToSendOTP    = "Failed to send OTP"
	msgSigninFailed       = "Failed to signin user"
	msgSignupFailed       = "Failed to signup user"
	msgResendFailed       = "Failed to resend OTP"
	msgRefreshFailed      = "Failed to refresh token"
	msgLogoutFailed       = "Failed to logout user"
	defaultRefreshMinutes = 7 * 24 * 60
)

const (
	maxDuration = time.Duration(math.MaxInt64)
	minDuration = time.Duration(math.MinInt64)
)

// SignupInput carries the fields of a sign-up completion request.
// ExpiresIn is interpreted as minutes when it parses as a number.
type SignupInput struct {
	PhoneNumber string
	Profile     domain.Profile
	ExpiresIn   string
}

// AuthService drives the phone/OTP sign-in state machine. It holds no
// per-phone state between calls; every step is reconstructed from the
// user directory, so concurrent attempts for one phone are not serialized.
type AuthService struct {
	users      repository.UserRepository
	refresh    repository.RefreshTokenRepository
	modules    repository.ModuleCounter
	gateway    otp.Gateway
	hasher     auth.SecretHasher
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	refreshTTL time.Duration
	now        func() time.Time
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	ModuleCounter    repository.ModuleCounter
	Gateway          otp.Gateway
	Hasher           auth.SecretHasher
	Dispatcher       events.Dispatcher
	Metrics          *observability.Metrics
	Logger           *zap.Logger
	Clock            func() time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	refreshTTL := time.Duration(cfg.RefreshTokenTTLMinutes) * time.Minute
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshMinutes * time.Minute
	}
	hasher := deps.Hasher
	if hasher == nil {
		hasher = auth.NewBcryptHasher(cfg.BcryptCost)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &AuthService{
		users:      deps.UserRepo,
		refresh:    deps.RefreshTokenRepo,
		modules:    deps.ModuleCounter,
		gateway:    deps.Gateway,
		hasher:     hasher,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		refreshTTL: refreshTTL,
		now:        clock,
	}
}

// SignIn starts an OTP challenge when code is empty and completes it otherwise.
func (s *AuthService) SignIn(ctx context.Context, phoneNumber, code string) (*domain.SignInResult, error) {
	var (
		res *domain.SignInResult
		err error
	)
	if code == "" {
		res, err = s.initiate(ctx, phoneNumber)
		s.record("signin_initiate", err)
	} else {
		res, err = s.verify(ctx, phoneNumber, code)
		s.record("signin_verify", err)
	}
	return res, err
}

func (s *AuthService) initiate(ctx context.Context, phoneNumber string) (*domain.SignInResult, error) {
	user, err := s.users.GetByPhone(ctx, phoneNumber)
	if errors.Is(err, domain.ErrUserNotFound) {
		created, createErr := s.users.CreateMinimal(ctx, phoneNumber)
		switch {
		case createErr == nil:
			s.publish(ctx, events.EventUserCreated, created.ID, nil)
			if err := s.sendCode(ctx, phoneNumber, false, msgSigninFailed); err != nil {
				return nil, err
			}
			return &domain.SignInResult{Created: true, Action: domain.ActionProceedWithOTP}, nil
		case errors.Is(createErr, domain.ErrPhoneTaken):
			// Lost an insert race; continue with the row the other request created.
			user, err = s.users.GetByPhone(ctx, phoneNumber)
		default:
			return nil, s.internal(msgSigninFailed, "create user", createErr, phoneNumber)
		}
	}
	if err != nil {
		return nil, s.internal(msgSigninFailed, "find user", err, phoneNumber)
	}

	if user.IsSuspended() {
		return nil, apperrors.NewLocked(MsgSuspended)
	}
	if user.IsAdmin() {
		return nil, apperrors.NewForbidden(MsgAdminNotAllowed)
	}
	if err := s.sendCode(ctx, phoneNumber, false, msgSigninFailed); err != nil {
		return nil, err
	}
	return &domain.SignInResult{Action: domain.ActionProceedWithOTP}, nil
}

func (s *AuthService) verify(ctx context.Context, phoneNumber, code string) (*domain.SignInResult, error) {
	user, err := s.lookupForVerify(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		return nil, apperrors.NewForbidden(MsgAdminNotAllowed)
	}

	valid, err := s.gateway.Verify(ctx, phoneNumber, code)
	if err != nil {
		return nil, s.internal(msgSigninFailed, "verify otp", err, phoneNumber)
	}
	if !valid {
		return nil, apperrors.NewBadRequest(MsgInvalidOTP)
	}

	// The row may have changed while the code was in flight.
	user, err = s.lookupForVerify(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}
	if user.IsSuspended() {
		return nil, apperrors.NewLocked(MsgSuspended)
	}
	if user.SignupPending() {
		return &domain.SignInResult{Action: domain.ActionProceedWithSignup}, nil
	}

	hasOnboarding, err := s.hasOnboardingModules(ctx)
	if err != nil {
		return nil, s.internal(msgSigninFailed, "count onboarding modules", err, phoneNumber)
	}
	pair, err := s.issuePair(ctx, user.ID, s.refreshTTL)
	if err != nil {
		return nil, s.internal(msgSigninFailed, "issue tokens", err, phoneNumber)
	}

	s.publish(ctx, events.EventUserSignedIn, user.ID, nil)
	return &domain.SignInResult{
		Tokens:                pair,
		ShowOnboardingModules: hasOnboarding && user.Status == domain.UserStatusOnboarded,
	}, nil
}

func (s *AuthService) lookupForVerify(ctx context.Context, phoneNumber string) (*domain.User, error) {
	user, err := s.users.GetByPhone(ctx, phoneNumber)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, apperrors.NewUnauthorized(MsgUserNotFound)
	}
	if err != nil {
		return nil, s.internal(msgSigninFailed, "find user", err, phoneNumber)
	}
	return user, nil
}

// CompleteSignup attaches a profile to a user created by an earlier sign-in
// and issues the first token pair. The profile update and the credential
// insert are separate statements: if the insert fails the caller gets an
// error but the profile stays written.
func (s *AuthService) CompleteSignup(ctx context.Context, in SignupInput) (*domain.SignupResult, error) {
	res, err := s.completeSignup(ctx, in)
	s.record("signup", err)
	return res, err
}

func (s *AuthService) completeSignup(ctx context.Context, in SignupInput) (*domain.SignupResult, error) {
	user, err := s.users.GetByPhone(ctx, in.PhoneNumber)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, apperrors.NewBadRequest(MsgUserDoesNotExist)
	}
	if err != nil {
		return nil, s.internal(msgSignupFailed, "find user", err, in.PhoneNumber)
	}
	if user.IsSuspended() {
		return nil, apperrors.NewLocked(MsgSuspended)
	}

	hasOnboarding, err := s.hasOnboardingModules(ctx)
	if err != nil {
		return nil, s.internal(msgSignupFailed, "count onboarding modules", err, in.PhoneNumber)
	}
	status := domain.UserStatusActive
	if hasOnboarding {
		status = domain.UserStatusOnboarded
	}

	if err := s.users.UpdateProfile(ctx, user.ID, in.Profile, status); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, apperrors.NewBadRequest(MsgUserDoesNotExist)
		}
		return nil, s.internal(msgSignupFailed, "update profile", err, in.PhoneNumber)
	}

	pair, err := s.issuePair(ctx, user.ID, ParseExpiresIn(in.ExpiresIn))
	if err != nil {
		return nil, s.internal(msgSignupFailed, "issue tokens", err, in.PhoneNumber)
	}

	s.publish(ctx, events.EventUserSignedUp, user.ID, events.UserSignedUpPayload{Status: string(status)})
	return &domain.SignupResult{
		Tokens:                *pair,
		Status:                status,
		ShowOnboardingModules: hasOnboarding && status == domain.UserStatusOnboarded,
	}, nil
}

// ResendCode requests a fresh code for phoneNumber. No user lookup is made.
func (s *AuthService) ResendCode(ctx context.Context, phoneNumber string) error {
	err := s.sendCode(ctx, phoneNumber, true, msgResendFailed)
	s.record("resend", err)
	return err
}

// Refresh exchanges a refresh secret for a new access token. The presented
// credential is left in place and keeps its original expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshSecret string) (string, error) {
	token, err := s.refreshAccess(ctx, refreshSecret)
	s.record("refresh", err)
	return token, err
}

func (s *AuthService) refreshAccess(ctx context.Context, refreshSecret string) (string, error) {
	cred, err := s.findCredential(ctx, refreshSecret)
	if err != nil {
		return "", s.internal(msgRefreshFailed, "list refresh tokens", err, "")
	}
	if cred == nil {
		return "", apperrors.NewUnauthorized(MsgInvalidRefresh)
	}
	access, _, err := s.tokenMgr.GenerateToken(cred.UserID)
	if err != nil {
		return "", s.internal(msgRefreshFailed, "sign access token", err, "")
	}
	return access, nil
}

// Logout resolves the owner of refreshSecret and deletes every refresh
// credential that user holds, ending all of their sessions.
func (s *AuthService) Logout(ctx context.Context, refreshSecret string) error {
	err := s.logout(ctx, refreshSecret)
	s.record("logout", err)
	return err
}

func (s *AuthService) logout(ctx context.Context, refreshSecret string) error {
	cred, err := s.findCredential(ctx, refreshSecret)
	if err != nil {
		return s.internal(msgLogoutFailed, "list refresh tokens", err, "")
	}
	if cred == nil {
		return apperrors.NewUnauthorized(MsgInvalidRefresh)
	}
	revoked, err := s.refresh.DeleteByUser(ctx, cred.UserID)
	if err != nil {
		return s.internal(msgLogoutFailed, "delete refresh tokens", err, "")
	}
	s.publish(ctx, events.EventUserLoggedOut, cred.UserID, events.UserLoggedOutPayload{RevokedSessions: revoked})
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// ParseExpiresIn turns a minutes value into a refresh lifetime. Values that
// are not finite numbers yield the seven day default. Lifetimes beyond the
// range of time.Duration saturate instead of wrapping.
func ParseExpiresIn(raw string) time.Duration {
	def := time.Duration(defaultRefreshMinutes) * time.Minute
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	minutes, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return def
	}
	nanos := minutes * float64(time.Minute)
	switch {
	case nanos >= math.MaxInt64:
		return maxDuration
	case nanos <= math.MinInt64:
		return minDuration
	}
	return time.Duration(nanos)
}

func (s *AuthService) sendCode(ctx context.Context, phoneNumber string, resend bool, failMsg string) error {
	res, err := s.gateway.Send(ctx, phoneNumber)
	if err != nil {
		return s.internal(failMsg, "send otp", err, phoneNumber)
	}
	s.metrics.RecordOTPSend(res.Status)
	if !res.Accepted() {
		s.logger.Error("otp gateway rejected send",
			zap.String("phone", otp.MaskPhone(phoneNumber)),
			zap.String("status", res.Status))
		return apperrors.NewInternalErrorf(MsgFailedToSendOTP, nil)
	}
	s.publish(ctx, events.EventOTPSent, "", events.OTPSentPayload{
		Phone:  otp.MaskPhone(phoneNumber),
		Status: res.Status,
		Resend: resend,
	})
	return nil
}

func (s *AuthService) hasOnboardingModules(ctx context.Context) (bool, error) {
	count, err := s.modules.CountActiveOnboarding(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// issuePair signs an access token and persists a fresh refresh credential.
// The pair is only returned once the credential row exists.
func (s *AuthService) issuePair(ctx context.Context, userID string, refreshTTL time.Duration) (*domain.TokenPair, error) {
	access, _, err := s.tokenMgr.GenerateToken(userID)
	if err != nil {
		return nil, err
	}
	secret, err := auth.GenerateRefreshSecret()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return nil, err
	}
	cred := &domain.RefreshToken{
		UserID:    userID,
		TokenHash: hash,
		ExpiresAt: s.now().Add(refreshTTL),
	}
	if err := s.refresh.Create(ctx, cred); err != nil {
		return nil, err
	}
	return &domain.TokenPair{AccessToken: access, RefreshToken: secret}, nil
}

// findCredential scans active credentials for one whose hash matches secret.
// It returns nil without error when nothing matches.
func (s *AuthService) findCredential(ctx context.Context, secret string) (*domain.RefreshToken, error) {
	now := s.now()
	candidates, err := s.refresh.ListActive(ctx, now)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		cred := &candidates[i]
		if !cred.Usable(now) {
			continue
		}
		if s.hasher.Verify(secret, cred.TokenHash) {
			return cred, nil
		}
	}
	return nil, nil
}

func (s *AuthService) internal(message, step string, err error, phoneNumber string) error {
	fields := []zap.Field{zap.String("step", step), zap.Error(err)}
	if phoneNumber != "" {
		fields = append(fields, zap.String("phone", otp.MaskPhone(phoneNumber)))
	}
	s.logger.Error(message, fields...)
	return apperrors.NewInternalErrorf(message, err)
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: s.now().UTC(),
		Payload:   payload,
	})
}

func (s *AuthService) record(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = strings.ToLower(apperrors.ToDomainError(err).Code)
	}
	s.metrics.RecordAuthOutcome(operation, outcome)
}
