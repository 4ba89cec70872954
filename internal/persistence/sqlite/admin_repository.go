package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/roomboard/internal/persistence"
)

// AdminRepository implements persistence.CredentialRepository and
// persistence.SessionRepository using SQLite.
type AdminRepository struct {
	pool *ConnectionPool
}

// NewAdminRepository creates a new SQLite admin repository.
func NewAdminRepository(pool *ConnectionPool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

// GetCredential returns the administrator credential row.
func (r *AdminRepository) GetCredential(ctx context.Context) (persistence.AdminCredential, error) {
	var (
		credential persistence.AdminCredential
		createdAt  string
		updatedAt  string
	)

	err := r.pool.db.QueryRowContext(ctx,
		`SELECT id, password_hash, created_at, updated_at FROM admin_credentials ORDER BY created_at ASC LIMIT 1`,
	).Scan(&credential.ID, &credential.PasswordHash, &createdAt, &updatedAt)
	if err != nil {
		return persistence.AdminCredential{}, mapError(err)
	}

	if credential.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.AdminCredential{}, err
	}
	if credential.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.AdminCredential{}, err
	}

	return credential, nil
}

// SaveCredential inserts or replaces the administrator credential.
func (r *AdminRepository) SaveCredential(ctx context.Context, credential persistence.AdminCredential) error {
	if credential.ID == "" || credential.PasswordHash == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO admin_credentials (id, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			password_hash = excluded.password_hash,
			updated_at = excluded.updated_at
	`

	_, err := r.pool.db.ExecContext(ctx, query,
		credential.ID,
		credential.PasswordHash,
		formatTime(credential.CreatedAt),
		formatTime(credential.UpdatedAt),
	)
	if err != nil {
		return mapError(err)
	}

	return nil
}

// CreateSession stores a new administrator session.
func (r *AdminRepository) CreateSession(ctx context.Context, session persistence.AdminSession) error {
	if session.ID == "" || session.Token == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO admin_sessions (id, token, expires_at, created_at, revoked_at) VALUES (?, ?, ?, ?, ?)`,
		session.ID,
		session.Token,
		formatTime(session.ExpiresAt),
		formatTime(session.CreatedAt),
		formatNullableTime(session.RevokedAt),
	)
	if err != nil {
		return mapError(err)
	}

	return nil
}

// GetSession retrieves a session by token.
func (r *AdminRepository) GetSession(ctx context.Context, token string) (persistence.AdminSession, error) {
	if token == "" {
		return persistence.AdminSession{}, persistence.ErrNotFound
	}

	var (
		session   persistence.AdminSession
		expiresAt string
		createdAt string
		revokedAt sql.NullString
	)

	err := r.pool.db.QueryRowContext(ctx,
		`SELECT id, token, expires_at, created_at, revoked_at FROM admin_sessions WHERE token = ?`, token,
	).Scan(&session.ID, &session.Token, &expiresAt, &createdAt, &revokedAt)
	if err != nil {
		return persistence.AdminSession{}, mapError(err)
	}

	if session.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return persistence.AdminSession{}, err
	}
	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.AdminSession{}, err
	}
	if session.RevokedAt, err = parseNullableTime(revokedAt); err != nil {
		return persistence.AdminSession{}, err
	}

	return session, nil
}

// RevokeSession marks the session revoked at the given instant.
func (r *AdminRepository) RevokeSession(ctx context.Context, token string, revokedAt time.Time) error {
	result, err := r.pool.db.ExecContext(ctx,
		`UPDATE admin_sessions SET revoked_at = ? WHERE token = ? AND revoked_at IS NULL`,
		formatTime(revokedAt), token,
	)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

// DeleteExpiredSessions removes sessions that expired before the reference
// instant.
func (r *AdminRepository) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	_, err := r.pool.db.ExecContext(ctx,
		`DELETE FROM admin_sessions WHERE expires_at <= ?`, formatTime(reference),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}
