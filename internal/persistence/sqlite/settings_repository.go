package sqlite

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/roomboard/internal/persistence"
)

// SettingsRepository implements persistence.SettingsRepository using SQLite.
type SettingsRepository struct {
	pool *ConnectionPool
}

// NewSettingsRepository creates a new SQLite settings repository.
func NewSettingsRepository(pool *ConnectionPool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

const settingsColumns = `id, time_zone, booking_durations, extend_increments, public_token, created_at, updated_at`

// GetSettings returns the deployment's single settings row.
func (r *SettingsRepository) GetSettings(ctx context.Context) (persistence.BoardSettings, error) {
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT `+settingsColumns+` FROM board_settings ORDER BY created_at ASC LIMIT 1`,
	)
	settings, err := scanSettings(row)
	if err != nil {
		return persistence.BoardSettings{}, mapError(err)
	}
	return settings, nil
}

// GetSettingsByToken returns the settings row matching the public board token.
func (r *SettingsRepository) GetSettingsByToken(ctx context.Context, token string) (persistence.BoardSettings, error) {
	if token == "" {
		return persistence.BoardSettings{}, persistence.ErrNotFound
	}

	row := r.pool.db.QueryRowContext(ctx,
		`SELECT `+settingsColumns+` FROM board_settings WHERE public_token = ?`, token,
	)
	settings, err := scanSettings(row)
	if err != nil {
		return persistence.BoardSettings{}, mapError(err)
	}
	return settings, nil
}

// SaveSettings inserts or replaces the settings row.
func (r *SettingsRepository) SaveSettings(ctx context.Context, settings persistence.BoardSettings) error {
	if settings.ID == "" || settings.PublicToken == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO board_settings (` + settingsColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			time_zone = excluded.time_zone,
			booking_durations = excluded.booking_durations,
			extend_increments = excluded.extend_increments,
			public_token = excluded.public_token,
			updated_at = excluded.updated_at
	`

	_, err := r.pool.db.ExecContext(ctx, query,
		settings.ID,
		settings.TimeZone,
		joinMinutes(settings.BookingDurations),
		joinMinutes(settings.ExtendIncrements),
		settings.PublicToken,
		formatTime(settings.CreatedAt),
		formatTime(settings.UpdatedAt),
	)
	if err != nil {
		return mapError(err)
	}

	return nil
}

func scanSettings(row rowScanner) (persistence.BoardSettings, error) {
	var (
		settings   persistence.BoardSettings
		durations  string
		increments string
		createdAt  string
		updatedAt  string
	)

	if err := row.Scan(
		&settings.ID,
		&settings.TimeZone,
		&durations,
		&increments,
		&settings.PublicToken,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.BoardSettings{}, err
	}

	var err error
	if settings.BookingDurations, err = splitMinutes(durations); err != nil {
		return persistence.BoardSettings{}, err
	}
	if settings.ExtendIncrements, err = splitMinutes(increments); err != nil {
		return persistence.BoardSettings{}, err
	}
	if settings.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.BoardSettings{}, err
	}
	if settings.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.BoardSettings{}, err
	}

	return settings, nil
}

// Minute sets are stored as comma-separated integers, e.g. "15,30,60".

func joinMinutes(minutes []int) string {
	parts := make([]string, 0, len(minutes))
	for _, m := range minutes {
		parts = append(parts, strconv.Itoa(m))
	}
	return strings.Join(parts, ",")
}

func splitMinutes(value string) ([]int, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	parts := strings.Split(value, ",")
	minutes := make([]int, 0, len(parts))
	for _, part := range parts {
		m, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored minute set %q: %w", value, err)
		}
		minutes = append(minutes, m)
	}
	return minutes, nil
}
