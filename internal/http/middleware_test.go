package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/roomboard/internal/application"
	"github.com/example/roomboard/internal/persistence"
)

type stubValidator struct {
	session persistence.AdminSession
	err     error
}

func (s *stubValidator) ValidateSession(_ context.Context, token string) (persistence.AdminSession, error) {
	if s.err != nil {
		return persistence.AdminSession{}, s.err
	}
	if token != s.session.Token {
		return persistence.AdminSession{}, application.ErrUnauthorized
	}
	return s.session, nil
}

func TestRequireSession(t *testing.T) {
	session := persistence.AdminSession{
		ID:        "s1",
		Token:     "session-token",
		ExpiresAt: time.Date(2025, time.March, 3, 21, 0, 0, 0, time.UTC),
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFromContext(r.Context()); !ok {
			t.Error("session should be attached to the request context")
		}
		w.WriteHeader(http.StatusOK)
	})

	t.Run("passes requests with a bearer token", func(t *testing.T) {
		guard := RequireSession(&stubValidator{session: session}, nil)
		req := httptest.NewRequest(http.MethodGet, "/admin/rooms", nil)
		req.Header.Set("Authorization", "Bearer session-token")

		rec := httptest.NewRecorder()
		guard(next).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("passes requests with a session cookie", func(t *testing.T) {
		guard := RequireSession(&stubValidator{session: session}, nil)
		req := httptest.NewRequest(http.MethodGet, "/admin/rooms", nil)
		req.AddCookie(&http.Cookie{Name: "admin_session", Value: "session-token"})

		rec := httptest.NewRecorder()
		guard(next).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("rejects requests without a token", func(t *testing.T) {
		guard := RequireSession(&stubValidator{session: session}, nil)
		rec := httptest.NewRecorder()
		guard(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/rooms", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("rejects expired sessions", func(t *testing.T) {
		guard := RequireSession(&stubValidator{err: application.ErrSessionExpired}, nil)
		req := httptest.NewRequest(http.MethodGet, "/admin/rooms", nil)
		req.Header.Set("Authorization", "Bearer session-token")

		rec := httptest.NewRecorder()
		guard(next).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("guards the admin routes but not setup or login", func(t *testing.T) {
		router := NewRouter(RouterConfig{
			Auth:         NewAuthHandler(&stubAuthService{needsSetup: true}, nil),
			Settings:     NewSettingsHandler(&stubSettingsService{settings: testSettings()}, nil),
			SessionGuard: RequireSession(&stubValidator{session: session}, nil),
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/settings", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("unauthenticated settings status = %d, want 401", rec.Code)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/setup", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("setup status = %d, want 200 without a session", rec.Code)
		}

		req := httptest.NewRequest(http.MethodGet, "/admin/settings", nil)
		req.Header.Set("Authorization", "Bearer session-token")
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("authenticated settings status = %d, want 200", rec.Code)
		}
	})
}

func TestRequestLogger(t *testing.T) {
	var sawLogger bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if loggerFrom(r.Context()) != nil {
			sawLogger = true
		}
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	RequestLogger(nil)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/board/t/state", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !sawLogger {
		t.Error("request logger should attach a logger to the context")
	}
}
