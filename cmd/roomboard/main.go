package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/roomboard/internal/application"
	"github.com/example/roomboard/internal/config"
	httptransport "github.com/example/roomboard/internal/http"
	"github.com/example/roomboard/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	fallbackLocation, err := cfg.Location()
	if err != nil {
		logger.Error("invalid time zone configuration", "error", err, "time_zone", cfg.TimeZone)
		os.Exit(1)
	}

	pool, err := sqlite.Open(ctx, cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now

	bookingRepo := sqlite.NewBookingRepository(pool)
	roomRepo := sqlite.NewRoomRepository(pool)
	settingsRepo := sqlite.NewSettingsRepository(pool)
	adminRepo := sqlite.NewAdminRepository(pool)

	bookingService := application.NewBookingService(bookingRepo, roomRepo, idGenerator, now, logger)
	roomService := application.NewRoomService(roomRepo, idGenerator, now, logger)
	settingsService := application.NewSettingsService(settingsRepo, tokenGenerator, now, logger)
	authService := application.NewAuthService(adminRepo, tokenGenerator, now, cfg.SessionTTL, logger)

	settings, err := settingsService.EnsureDefaults(ctx)
	if err != nil {
		logger.Error("failed to initialise board settings", "error", err)
		os.Exit(1)
	}
	logger.Info("board ready", "public_token", settings.PublicToken, "time_zone", settings.TimeZone)

	// Day windows follow the zone stored in settings so an admin change takes
	// effect without a restart.
	location := func() *time.Location {
		current, err := settingsService.Get(context.Background())
		if err != nil {
			return fallbackLocation
		}
		if loc, err := time.LoadLocation(current.TimeZone); err == nil {
			return loc
		}
		return fallbackLocation
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Board:        httptransport.NewBoardHandler(bookingService, roomService, settingsService, logger),
		Auth:         httptransport.NewAuthHandler(authService, logger),
		Rooms:        httptransport.NewRoomHandler(roomService, bookingService, location, logger),
		Bookings:     httptransport.NewBookingHandler(bookingService, settingsService, logger),
		Settings:     httptransport.NewSettingsHandler(settingsService, logger),
		SessionGuard: httptransport.RequireSession(authService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	if cfg.SweepInterval > 0 {
		go runSweeper(ctx, bookingService, authService, cfg.SweepInterval, logger)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("room board API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// runSweeper periodically expires elapsed bookings and prunes stale admin
// sessions. Reads also sweep on demand; the ticker bounds how stale the
// stored rows can get while the board is idle.
func runSweeper(ctx context.Context, bookings *application.BookingService, auth *application.AuthService, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := bookings.Sweep(ctx, time.Time{}); err != nil {
				logger.Error("background sweep failed", "error", err)
			}
			if err := auth.PruneSessions(ctx); err != nil {
				logger.Error("session prune failed", "error", err)
			}
		}
	}
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
