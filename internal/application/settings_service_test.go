package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/roomboard/internal/persistence"
	"github.com/example/roomboard/internal/testfixtures"
)

type settingsStoreStub struct {
	settings *persistence.BoardSettings
	saveErr  error
}

func (s *settingsStoreStub) GetSettings(_ context.Context) (persistence.BoardSettings, error) {
	if s.settings == nil {
		return persistence.BoardSettings{}, persistence.ErrNotFound
	}
	return *s.settings, nil
}

func (s *settingsStoreStub) GetSettingsByToken(_ context.Context, token string) (persistence.BoardSettings, error) {
	if s.settings == nil || s.settings.PublicToken != token {
		return persistence.BoardSettings{}, persistence.ErrNotFound
	}
	return *s.settings, nil
}

func (s *settingsStoreStub) SaveSettings(_ context.Context, settings persistence.BoardSettings) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.settings = &settings
	return nil
}

func newSettingsService(store *settingsStoreStub) *SettingsService {
	ids := testfixtures.NewIDGenerator("token")
	return NewSettingsService(store, ids.NextFunc(), testfixtures.NewClock(at(9, 0)).NowFunc(), nil)
}

func TestSettingsServiceEnsureDefaults(t *testing.T) {
	t.Run("creates row with defaults and fresh token", func(t *testing.T) {
		store := &settingsStoreStub{}
		svc := newSettingsService(store)

		settings, err := svc.EnsureDefaults(context.Background())
		if err != nil {
			t.Fatalf("EnsureDefaults returned error: %v", err)
		}
		if settings.TimeZone != "UTC" {
			t.Errorf("time zone = %q, want UTC", settings.TimeZone)
		}
		if len(settings.BookingDurations) == 0 || len(settings.ExtendIncrements) == 0 {
			t.Error("default minute sets should be non-empty")
		}
		if settings.PublicToken == "" {
			t.Error("public token should be minted")
		}
	})

	t.Run("keeps existing row", func(t *testing.T) {
		existing := persistence.BoardSettings{ID: "s1", TimeZone: "Asia/Tokyo", PublicToken: "keep-me"}
		store := &settingsStoreStub{settings: &existing}
		svc := newSettingsService(store)

		settings, err := svc.EnsureDefaults(context.Background())
		if err != nil {
			t.Fatalf("EnsureDefaults returned error: %v", err)
		}
		if settings.PublicToken != "keep-me" || settings.TimeZone != "Asia/Tokyo" {
			t.Errorf("settings = %+v, want existing row untouched", settings)
		}
	})
}

func TestSettingsServiceGetByToken(t *testing.T) {
	store := &settingsStoreStub{settings: &persistence.BoardSettings{ID: "s1", PublicToken: "board-token"}}
	svc := newSettingsService(store)

	if _, err := svc.GetByToken(context.Background(), "board-token"); err != nil {
		t.Fatalf("GetByToken returned error: %v", err)
	}
	if _, err := svc.GetByToken(context.Background(), "wrong"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for unknown token", err)
	}
}

func TestSettingsServiceUpdate(t *testing.T) {
	seed := func() *settingsStoreStub {
		return &settingsStoreStub{settings: &persistence.BoardSettings{
			ID:               "s1",
			TimeZone:         "UTC",
			BookingDurations: []int{15, 30, 60},
			ExtendIncrements: []int{15, 30},
			PublicToken:      "board-token",
		}}
	}

	t.Run("applies partial update with normalized sets", func(t *testing.T) {
		store := seed()
		svc := newSettingsService(store)

		zone := "Asia/Tokyo"
		settings, err := svc.Update(context.Background(), SettingsUpdate{
			TimeZone:         &zone,
			BookingDurations: []int{60, 30, 30, 90},
		})
		if err != nil {
			t.Fatalf("Update returned error: %v", err)
		}
		if settings.TimeZone != "Asia/Tokyo" {
			t.Errorf("time zone = %q, want Asia/Tokyo", settings.TimeZone)
		}
		want := []int{30, 60, 90}
		if len(settings.BookingDurations) != len(want) {
			t.Fatalf("durations = %v, want %v", settings.BookingDurations, want)
		}
		for i, d := range want {
			if settings.BookingDurations[i] != d {
				t.Errorf("durations = %v, want sorted deduplicated %v", settings.BookingDurations, want)
				break
			}
		}
		if len(settings.ExtendIncrements) != 2 {
			t.Errorf("increments = %v, want unchanged", settings.ExtendIncrements)
		}
	})

	t.Run("rejects unknown time zone", func(t *testing.T) {
		svc := newSettingsService(seed())

		zone := "Mars/Olympus_Mons"
		_, err := svc.Update(context.Background(), SettingsUpdate{TimeZone: &zone})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
		if _, ok := vErr.FieldErrors["timeZone"]; !ok {
			t.Errorf("field errors = %v, want a timeZone entry", vErr.FieldErrors)
		}
	})

	t.Run("rejects empty or non positive minute sets", func(t *testing.T) {
		svc := newSettingsService(seed())

		_, err := svc.Update(context.Background(), SettingsUpdate{ExtendIncrements: []int{15, 0}})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
	})
}

func TestSettingsServiceRotateToken(t *testing.T) {
	store := &settingsStoreStub{settings: &persistence.BoardSettings{ID: "s1", PublicToken: "old-token"}}
	svc := newSettingsService(store)

	settings, err := svc.RotateToken(context.Background())
	if err != nil {
		t.Fatalf("RotateToken returned error: %v", err)
	}
	if settings.PublicToken == "old-token" || settings.PublicToken == "" {
		t.Errorf("token = %q, want a fresh value", settings.PublicToken)
	}
}

func TestSettingsServiceLocation(t *testing.T) {
	svc := newSettingsService(&settingsStoreStub{})

	if loc := svc.Location(persistence.BoardSettings{TimeZone: "UTC"}); loc != time.UTC {
		t.Errorf("location = %v, want UTC", loc)
	}
	if loc := svc.Location(persistence.BoardSettings{TimeZone: "not-a-zone"}); loc != time.UTC {
		t.Errorf("location = %v, want UTC fallback", loc)
	}
}
