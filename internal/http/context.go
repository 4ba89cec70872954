package http

import (
	"context"
	"log/slog"

	"github.com/example/roomboard/internal/logging"
	"github.com/example/roomboard/internal/persistence"
)

type contextKey string

const (
	sessionContextKey  contextKey = "admin_session"
	settingsContextKey contextKey = "board_settings"
	roomIDContextKey   contextKey = "room_id"
)

// ContextWithSession returns a derived context carrying the validated
// administrator session.
func ContextWithSession(ctx context.Context, session persistence.AdminSession) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFromContext extracts the administrator session if one was attached.
func SessionFromContext(ctx context.Context) (persistence.AdminSession, bool) {
	session, ok := ctx.Value(sessionContextKey).(persistence.AdminSession)
	return session, ok
}

// ContextWithBoardSettings returns a derived context carrying the settings
// row resolved from the board token.
func ContextWithBoardSettings(ctx context.Context, settings persistence.BoardSettings) context.Context {
	return context.WithValue(ctx, settingsContextKey, settings)
}

// BoardSettingsFromContext extracts the settings attached by the board token
// gate.
func BoardSettingsFromContext(ctx context.Context) (persistence.BoardSettings, bool) {
	settings, ok := ctx.Value(settingsContextKey).(persistence.BoardSettings)
	return settings, ok
}

// ContextWithRoomID injects the room identifier resolved from the request
// path.
func ContextWithRoomID(ctx context.Context, roomID string) context.Context {
	return context.WithValue(ctx, roomIDContextKey, roomID)
}

// RoomIDFromContext extracts a room identifier previously associated with
// the context.
func RoomIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(roomIDContextKey).(string)
	return id, ok
}

func loggerFrom(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
