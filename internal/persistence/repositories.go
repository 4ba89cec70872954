package persistence

import (
	"context"
	"time"
)

// RoomRepository exposes CRUD operations for rooms.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	UpdateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context, activeOnly bool) ([]Room, error)
	// MaxDisplayOrder returns the highest ordering key currently assigned,
	// or zero when no rooms exist.
	MaxDisplayOrder(ctx context.Context) (int, error)
	// DeleteRoom removes a room and cascades its bookings.
	DeleteRoom(ctx context.Context, id string) error
}

// BookingRepository stores bookings and enforces the room non-overlap
// invariant at write time.
type BookingRepository interface {
	// CreateIfAvailable inserts the booking unless an active booking for the
	// same room overlaps [booking.Start, booking.End). The conflict check and
	// the insert run inside one write transaction; on overlap it returns
	// ErrConflict and writes nothing.
	CreateIfAvailable(ctx context.Context, booking Booking) error
	// ExtendIfAvailable moves the booking's end forward to newEnd unless the
	// widened interval overlaps another active booking in the same room. The
	// check and the update run inside one write transaction; on overlap it
	// returns ErrConflict and writes nothing.
	ExtendIfAvailable(ctx context.Context, id string, newEnd, updatedAt time.Time) (Booking, error)
	GetBooking(ctx context.Context, id string) (Booking, error)
	// UpdateBookingStatus transitions an active booking to the given status,
	// recording endedEarlyAt when non-nil. A row that already left active is
	// terminal and reports ErrConstraintViolation.
	UpdateBookingStatus(ctx context.Context, id string, status BookingStatus, endedEarlyAt *time.Time, updatedAt time.Time) error
	// ListActiveForRoom returns active bookings for the room ordered by start
	// ascending.
	ListActiveForRoom(ctx context.Context, roomID string) ([]Booking, error)
	// ListForRoomBetween returns bookings of any status for the room whose
	// interval overlaps [from, to), ordered by start ascending.
	ListForRoomBetween(ctx context.Context, roomID string, from, to time.Time) ([]Booking, error)
	// ExpireBookings transitions every active booking with end <= now to the
	// ended status, leaving endedEarlyAt unset, and reports how many rows
	// changed. Repeated calls with the same instant change nothing further.
	ExpireBookings(ctx context.Context, now time.Time) (int64, error)
}

// SettingsRepository stores the single deployment policy row.
type SettingsRepository interface {
	GetSettings(ctx context.Context) (BoardSettings, error)
	GetSettingsByToken(ctx context.Context, token string) (BoardSettings, error)
	SaveSettings(ctx context.Context, settings BoardSettings) error
}

// CredentialRepository stores the administrator password hash.
type CredentialRepository interface {
	GetCredential(ctx context.Context) (AdminCredential, error)
	SaveCredential(ctx context.Context, credential AdminCredential) error
}

// SessionRepository stores administrator session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session AdminSession) error
	GetSession(ctx context.Context, token string) (AdminSession, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) error
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}
