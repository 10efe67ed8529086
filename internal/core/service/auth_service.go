package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/storehouse/access-api/internal/api/metrics"
	"github.com/storehouse/access-api/internal/core/domain"
	"github.com/storehouse/access-api/internal/core/ports"
	"github.com/storehouse/access-api/internal/pkg/password"
)

// SigninThrottle abstracts the brute-force counter (Redis). A nil throttle
// disables locking entirely.
type SigninThrottle interface {
	// Fail records a failed attempt and returns the count in the current window.
	Fail(ctx context.Context, username string) (int64, error)
	IsLocked(ctx context.Context, username string) (bool, error)
	Reset(ctx context.Context, username string) error
}

// AuthService implements signup, signin, and per-request credential
// resolution on top of the credential store and the token service.
type AuthService struct {
	repo     ports.AuthRepository
	tokens   *TokenService
	throttle SigninThrottle
	auditor  ports.Auditor
	logger   zerolog.Logger
}

func NewAuthService(repo ports.AuthRepository, tokens *TokenService, throttle SigninThrottle, auditor ports.Auditor, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, throttle: throttle, auditor: auditor, logger: logger}
}

// Signup hashes the password and stores a new user. The returned user carries
// public fields only; the hash is tagged out of JSON serialization.
func (s *AuthService) Signup(ctx context.Context, username, plaintext string, role domain.Role) (*domain.User, error) {
	if username == "" || plaintext == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if _, err := domain.ParseRole(string(role)); err != nil {
		return nil, err
	}

	hash, err := password.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit(domain.AuditEvent{Username: username, Action: domain.AuditSignup, Detail: string(role)})
	metrics.SignupsTotal.WithLabelValues(string(role)).Inc()
	s.logger.Info().Str("username", username).Str("role", string(role)).Msg("user signed up")

	return created, nil
}

// Signin verifies the password and issues a token. An unknown username and a
// wrong password are indistinguishable to the caller: both surface as
// domain.ErrInvalidCredentials so usernames cannot be enumerated.
func (s *AuthService) Signin(ctx context.Context, username, plaintext string) (*domain.User, string, error) {
	if username == "" || plaintext == "" {
		metrics.SigninsTotal.WithLabelValues("failure").Inc()
		return nil, "", domain.ErrInvalidCredentials
	}

	if locked, err := s.isLocked(ctx, username); err == nil && locked {
		s.audit(domain.AuditEvent{Username: username, Action: domain.AuditSigninLocked})
		metrics.SigninsTotal.WithLabelValues("locked").Inc()
		return nil, "", domain.ErrTooManyAttempts
	}

	user, err := s.verifyPassword(ctx, username, plaintext)
	if err != nil {
		s.recordFailure(ctx, username)
		metrics.SigninsTotal.WithLabelValues("failure").Inc()
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.Principal())
	if err != nil {
		return nil, "", err
	}

	s.resetThrottle(ctx, username)
	s.audit(domain.AuditEvent{Username: username, Action: domain.AuditSigninOK})
	metrics.SigninsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("username", username).Msg("user signed in")

	return user, token, nil
}

// Authenticate resolves a parsed Authorization credential into a principal.
// Basic re-verifies the password against the store on every call; Bearer is a
// pure token verification with no store access.
func (s *AuthService) Authenticate(ctx context.Context, cred domain.Credential) (domain.Principal, error) {
	switch c := cred.(type) {
	case domain.BasicCredential:
		user, err := s.verifyPassword(ctx, c.Username, c.Password)
		if err != nil {
			metrics.AuthFailuresTotal.WithLabelValues("basic").Inc()
			return domain.Principal{}, err
		}
		return user.Principal(), nil
	case domain.BearerCredential:
		principal, err := s.tokens.Verify(c.Token)
		if err != nil {
			metrics.AuthFailuresTotal.WithLabelValues("bearer").Inc()
			return domain.Principal{}, err
		}
		return principal, nil
	default:
		metrics.AuthFailuresTotal.WithLabelValues("absent").Inc()
		return domain.Principal{}, domain.ErrUnauthenticated
	}
}

// ListUsernames returns all registered usernames in creation order.
func (s *AuthService) ListUsernames(ctx context.Context) ([]string, error) {
	return s.repo.ListUsernames(ctx)
}

// verifyPassword is the shared credential check behind Signin and the Basic
// resolution path. The not-found and bad-password causes collapse here.
func (s *AuthService) verifyPassword(ctx context.Context, username, plaintext string) (*domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !password.Verify(plaintext, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) isLocked(ctx context.Context, username string) (bool, error) {
	if s.throttle == nil {
		return false, nil
	}
	locked, err := s.throttle.IsLocked(ctx, username)
	if err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("throttle check failed, allowing attempt")
		return false, err
	}
	return locked, nil
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	s.audit(domain.AuditEvent{Username: username, Action: domain.AuditSigninFailed})
	if s.throttle == nil {
		return
	}
	if _, err := s.throttle.Fail(ctx, username); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("throttle update failed")
	}
}

func (s *AuthService) resetThrottle(ctx context.Context, username string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.Reset(ctx, username); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("throttle reset failed")
	}
}

func (s *AuthService) audit(event domain.AuditEvent) {
	if s.auditor == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	s.auditor.Record(event)
}
