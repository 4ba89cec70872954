package persistence

import "time"

// BookingStatus enumerates the lifecycle states of a stored booking.
type BookingStatus string

const (
	// BookingStatusActive marks a booking that has not yet concluded. An
	// active booking may still be scheduled entirely in the future.
	BookingStatusActive BookingStatus = "active"
	// BookingStatusEnded marks a terminal booking. Ended bookings are never
	// mutated again.
	BookingStatusEnded BookingStatus = "ended"
)

// BookingSource records which surface created a booking. The tag is
// informational only and never drives behaviour.
type BookingSource string

const (
	// BookingSourceBoard marks bookings created from the public display.
	BookingSourceBoard BookingSource = "board"
	// BookingSourceAdmin marks bookings created by an administrator.
	BookingSourceAdmin BookingSource = "admin"
)

// Room represents a bookable physical room.
type Room struct {
	ID           string
	Name         string
	Description  *string
	Color        *string
	Capacity     *int
	IsActive     bool
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Booking represents a claim on a room for the half-open interval
// [Start, End).
type Booking struct {
	ID           string
	RoomID       string
	Title        string
	Start        time.Time
	End          time.Time
	Status       BookingStatus
	Source       BookingSource
	EndedEarlyAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BoardSettings holds the deployment-wide booking policy. A deployment has
// exactly one row.
type BoardSettings struct {
	ID               string
	TimeZone         string
	BookingDurations []int
	ExtendIncrements []int
	PublicToken      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AdminCredential stores the single administrator password hash.
type AdminCredential struct {
	ID           string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AdminSession represents an authenticated administrator session.
type AdminSession struct {
	ID        string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}
