package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/roomboard/internal/persistence"
)

const minPasswordLength = 8

// AuthStore captures the persistence operations needed by the auth service.
type AuthStore interface {
	GetCredential(ctx context.Context) (persistence.AdminCredential, error)
	SaveCredential(ctx context.Context, credential persistence.AdminCredential) error
	CreateSession(ctx context.Context, session persistence.AdminSession) error
	GetSession(ctx context.Context, token string) (persistence.AdminSession, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) error
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// AuthService manages the single administrator credential and its sessions.
type AuthService struct {
	store       AuthStore
	idGenerator func() string
	now         func() time.Time
	sessionTTL  time.Duration
	hashParams  Argon2idParams
	logger      *slog.Logger
}

// NewAuthService constructs an auth service with the provided dependencies.
func NewAuthService(store AuthStore, idGenerator func() string, now func() time.Time, sessionTTL time.Duration, logger *slog.Logger) *AuthService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if sessionTTL <= 0 {
		sessionTTL = 12 * time.Hour
	}
	return &AuthService{
		store:       store,
		idGenerator: idGenerator,
		now:         now,
		sessionTTL:  sessionTTL,
		hashParams:  DefaultArgon2idParams,
		logger:      defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// NeedsSetup reports whether no administrator credential exists yet.
func (s *AuthService) NeedsSetup(ctx context.Context) (bool, error) {
	if s == nil || s.store == nil {
		return false, fmt.Errorf("auth store not configured")
	}
	_, err := s.store.GetCredential(ctx)
	if errors.Is(err, persistence.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// Setup creates the administrator credential. It fails once a credential
// exists.
func (s *AuthService) Setup(ctx context.Context, password string) (err error) {
	if s == nil || s.store == nil {
		return fmt.Errorf("auth store not configured")
	}

	logger := s.loggerWith(ctx, "Setup")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to set up administrator", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "administrator credential created")
	}()

	if err = validatePassword(password); err != nil {
		return err
	}

	if _, err = s.store.GetCredential(ctx); err == nil {
		return ErrAlreadySetUp
	} else if !errors.Is(err, persistence.ErrNotFound) {
		return err
	}

	hash, err := CreatePasswordHash(password, s.hashParams)
	if err != nil {
		return err
	}

	now := s.now()
	return s.store.SaveCredential(ctx, persistence.AdminCredential{
		ID:           s.idGenerator(),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Login verifies the password and mints a new session token.
func (s *AuthService) Login(ctx context.Context, password string) (session persistence.AdminSession, err error) {
	if s == nil || s.store == nil {
		return persistence.AdminSession{}, fmt.Errorf("auth store not configured")
	}

	logger := s.loggerWith(ctx, "Login")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "administrator logged in")
	}()

	credential, err := s.store.GetCredential(ctx)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.AdminSession{}, ErrInvalidCredentials
		}
		return persistence.AdminSession{}, err
	}

	if err = VerifyPassword(credential.PasswordHash, password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return persistence.AdminSession{}, ErrInvalidCredentials
		}
		return persistence.AdminSession{}, err
	}

	now := s.now()
	session = persistence.AdminSession{
		ID:        s.idGenerator(),
		Token:     s.idGenerator(),
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err = s.store.CreateSession(ctx, session); err != nil {
		return persistence.AdminSession{}, err
	}

	return session, nil
}

// ValidateSession checks a session token and returns the session when it is
// live. Expired and revoked tokens report distinct errors.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (persistence.AdminSession, error) {
	if s == nil || s.store == nil {
		return persistence.AdminSession{}, fmt.Errorf("auth store not configured")
	}
	if token == "" {
		return persistence.AdminSession{}, ErrUnauthorized
	}

	session, err := s.store.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.AdminSession{}, ErrUnauthorized
		}
		return persistence.AdminSession{}, err
	}
	if session.RevokedAt != nil {
		return persistence.AdminSession{}, ErrSessionRevoked
	}
	if !session.ExpiresAt.After(s.now()) {
		return persistence.AdminSession{}, ErrSessionExpired
	}
	return session, nil
}

// Logout revokes the session token. Revoking an unknown or already revoked
// token is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("auth store not configured")
	}
	err := s.store.RevokeSession(ctx, token, s.now())
	if err != nil && !errors.Is(err, persistence.ErrNotFound) {
		return err
	}
	s.loggerWith(ctx, "Logout").InfoContext(ctx, "administrator logged out")
	return nil
}

// ChangePassword verifies the current password and replaces the stored hash.
func (s *AuthService) ChangePassword(ctx context.Context, currentPassword, newPassword string) (err error) {
	if s == nil || s.store == nil {
		return fmt.Errorf("auth store not configured")
	}

	logger := s.loggerWith(ctx, "ChangePassword")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to change password", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "administrator password changed")
	}()

	if err = validatePassword(newPassword); err != nil {
		return err
	}

	credential, err := s.store.GetCredential(ctx)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	if err = VerifyPassword(credential.PasswordHash, currentPassword); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return ErrInvalidCredentials
		}
		return err
	}

	hash, err := CreatePasswordHash(newPassword, s.hashParams)
	if err != nil {
		return err
	}

	credential.PasswordHash = hash
	credential.UpdatedAt = s.now()
	return s.store.SaveCredential(ctx, credential)
}

// PruneSessions deletes rows for sessions that expired before the reference
// instant.
func (s *AuthService) PruneSessions(ctx context.Context) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("auth store not configured")
	}
	return s.store.DeleteExpiredSessions(ctx, s.now())
}

func validatePassword(password string) error {
	vErr := &ValidationError{}
	if len(password) < minPasswordLength {
		vErr.add("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}
