package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/roomboard/internal/persistence"
)

// Default board configuration used when no settings row exists yet.
var (
	defaultBookingDurations = []int{15, 30, 60}
	defaultExtendIncrements = []int{15, 30}
)

const defaultTimeZone = "UTC"

// SettingsStore captures the persistence operations needed by the settings
// service.
type SettingsStore interface {
	GetSettings(ctx context.Context) (persistence.BoardSettings, error)
	GetSettingsByToken(ctx context.Context, token string) (persistence.BoardSettings, error)
	SaveSettings(ctx context.Context, settings persistence.BoardSettings) error
}

// SettingsService manages the single board configuration row: time zone,
// duration and increment sets, and the public board token.
type SettingsService struct {
	settings    SettingsStore
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewSettingsService constructs a settings service with the provided
// dependencies.
func NewSettingsService(settings SettingsStore, idGenerator func() string, now func() time.Time, logger *slog.Logger) *SettingsService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &SettingsService{settings: settings, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *SettingsService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SettingsService", operation, attrs...)
}

// EnsureDefaults creates the settings row when none exists, minting a fresh
// public token. It is called once at startup.
func (s *SettingsService) EnsureDefaults(ctx context.Context) (persistence.BoardSettings, error) {
	if s == nil || s.settings == nil {
		return persistence.BoardSettings{}, fmt.Errorf("settings store not configured")
	}

	settings, err := s.settings.GetSettings(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, persistence.ErrNotFound) {
		return persistence.BoardSettings{}, err
	}

	now := s.now()
	settings = persistence.BoardSettings{
		ID:               s.idGenerator(),
		TimeZone:         defaultTimeZone,
		BookingDurations: defaultBookingDurations,
		ExtendIncrements: defaultExtendIncrements,
		PublicToken:      s.idGenerator(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.settings.SaveSettings(ctx, settings); err != nil {
		return persistence.BoardSettings{}, err
	}

	s.loggerWith(ctx, "EnsureDefaults").InfoContext(ctx, "default board settings created")
	return settings, nil
}

// Get returns the board settings.
func (s *SettingsService) Get(ctx context.Context) (persistence.BoardSettings, error) {
	if s == nil || s.settings == nil {
		return persistence.BoardSettings{}, fmt.Errorf("settings store not configured")
	}
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.BoardSettings{}, ErrNotFound
		}
		return persistence.BoardSettings{}, err
	}
	return settings, nil
}

// GetByToken resolves the settings row whose public token matches. It gates
// every board endpoint.
func (s *SettingsService) GetByToken(ctx context.Context, token string) (persistence.BoardSettings, error) {
	if s == nil || s.settings == nil {
		return persistence.BoardSettings{}, fmt.Errorf("settings store not configured")
	}
	settings, err := s.settings.GetSettingsByToken(ctx, token)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.BoardSettings{}, ErrNotFound
		}
		return persistence.BoardSettings{}, err
	}
	return settings, nil
}

// Update applies a partial settings update after validating the time zone
// and minute sets.
func (s *SettingsService) Update(ctx context.Context, update SettingsUpdate) (settings persistence.BoardSettings, err error) {
	if s == nil || s.settings == nil {
		return persistence.BoardSettings{}, fmt.Errorf("settings store not configured")
	}

	logger := s.loggerWith(ctx, "Update")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update settings", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "board settings updated")
	}()

	settings, err = s.Get(ctx)
	if err != nil {
		return persistence.BoardSettings{}, err
	}

	vErr := &ValidationError{}
	if update.TimeZone != nil {
		if _, loadErr := time.LoadLocation(*update.TimeZone); loadErr != nil {
			vErr.add("timeZone", "unknown time zone")
		} else {
			settings.TimeZone = *update.TimeZone
		}
	}
	if update.BookingDurations != nil {
		if durations, ok := validMinuteSet(update.BookingDurations); ok {
			settings.BookingDurations = durations
		} else {
			vErr.add("bookingDurations", "durations must be a non-empty set of positive minutes")
		}
	}
	if update.ExtendIncrements != nil {
		if increments, ok := validMinuteSet(update.ExtendIncrements); ok {
			settings.ExtendIncrements = increments
		} else {
			vErr.add("extendIncrements", "increments must be a non-empty set of positive minutes")
		}
	}
	if vErr.HasErrors() {
		return persistence.BoardSettings{}, vErr
	}

	settings.UpdatedAt = s.now()
	if err = s.settings.SaveSettings(ctx, settings); err != nil {
		return persistence.BoardSettings{}, err
	}

	return settings, nil
}

// RotateToken replaces the public board token, invalidating shared board
// URLs.
func (s *SettingsService) RotateToken(ctx context.Context) (settings persistence.BoardSettings, err error) {
	if s == nil || s.settings == nil {
		return persistence.BoardSettings{}, fmt.Errorf("settings store not configured")
	}

	logger := s.loggerWith(ctx, "RotateToken")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to rotate board token", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "board token rotated")
	}()

	settings, err = s.Get(ctx)
	if err != nil {
		return persistence.BoardSettings{}, err
	}

	settings.PublicToken = s.idGenerator()
	settings.UpdatedAt = s.now()
	if err = s.settings.SaveSettings(ctx, settings); err != nil {
		return persistence.BoardSettings{}, err
	}

	return settings, nil
}

// Location resolves the configured time zone, falling back to UTC when the
// stored name no longer loads.
func (s *SettingsService) Location(settings persistence.BoardSettings) *time.Location {
	loc, err := time.LoadLocation(settings.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// validMinuteSet normalizes a minute set and reports whether every member is
// positive and the set is non-empty.
func validMinuteSet(minutes []int) ([]int, bool) {
	if len(minutes) == 0 {
		return nil, false
	}
	for _, m := range minutes {
		if m <= 0 {
			return nil, false
		}
	}
	return normalizeMinuteSet(minutes), true
}
