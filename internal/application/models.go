package application

import (
	"time"

	"github.com/example/roomboard/internal/persistence"
)

// Occupancy enumerates the derived state of a room at a reference instant.
type Occupancy string

const (
	// RoomFree indicates no booking interval contains the reference instant.
	RoomFree Occupancy = "free"
	// RoomOccupied indicates a booking is in progress.
	RoomOccupied Occupancy = "occupied"
)

// CurrentBooking describes the booking in progress at the reference instant,
// along with the actions the board may offer for it.
type CurrentBooking struct {
	ID          string
	Title       string
	Start       time.Time
	End         time.Time
	CanExtend   bool
	CanEndEarly bool
}

// UpcomingBooking describes the earliest booking starting after the
// reference instant.
type UpcomingBooking struct {
	ID    string
	Title string
	Start time.Time
	End   time.Time
}

// RoomStatus is the derived occupancy view for a single room.
type RoomStatus struct {
	Status  Occupancy
	Current *CurrentBooking
	Next    *UpcomingBooking
}

// RoomBoardEntry pairs a room with its derived status for the public board.
type RoomBoardEntry struct {
	Room   persistence.Room
	Status RoomStatus
}

// BoardState is the full public board snapshot.
type BoardState struct {
	ServerTime       time.Time
	Rooms            []RoomBoardEntry
	BookingDurations []int
	ExtendIncrements []int
}

// CreateBookingParams wraps the data required to create a booking.
type CreateBookingParams struct {
	RoomID          string
	DurationMinutes int
	Title           string
	// Start is optional; when nil the booking starts at Now.
	Start  *time.Time
	Source persistence.BookingSource
	// Now is the reference instant. The zero value means the service clock.
	Now              time.Time
	AllowedDurations []int
}

// ExtendBookingParams wraps the data required to extend a booking.
type ExtendBookingParams struct {
	BookingID         string
	IncrementMinutes  int
	Now               time.Time
	AllowedIncrements []int
}

// EndEarlyParams wraps the data required to end a booking before its end
// instant.
type EndEarlyParams struct {
	BookingID string
	Now       time.Time
}

// ResolveParams wraps the data required to resolve a room's status.
type ResolveParams struct {
	RoomID           string
	Now              time.Time
	ExtendIncrements []int
}

// BoardStateParams wraps the data required to compute the board snapshot.
type BoardStateParams struct {
	Now      time.Time
	Settings persistence.BoardSettings
}

// DayBookingsParams wraps the data required to list a room's bookings for the
// day containing the reference instant, computed in the deployment time zone.
type DayBookingsParams struct {
	RoomID    string
	Reference time.Time
	Location  *time.Location
}

// RoomInput captures caller provided room fields for creation.
type RoomInput struct {
	Name        string
	Description *string
	Color       *string
	Capacity    *int
}

// RoomUpdate captures a partial room update; nil fields are left unchanged.
type RoomUpdate struct {
	Name         *string
	Description  *string
	Color        *string
	Capacity     *int
	IsActive     *bool
	DisplayOrder *int
}

// SettingsUpdate captures a partial settings update; nil fields are left
// unchanged.
type SettingsUpdate struct {
	TimeZone         *string
	BookingDurations []int
	ExtendIncrements []int
}
