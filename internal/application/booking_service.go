package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/roomboard/internal/interval"
	"github.com/example/roomboard/internal/persistence"
)

// startSkewTolerance is how far in the past a supplied start instant may lie
// before it is rejected, absorbing small client clock drift.
const startSkewTolerance = 60 * time.Second

// BookingStore captures the persistence interactions needed by the booking
// service.
type BookingStore interface {
	CreateIfAvailable(ctx context.Context, booking persistence.Booking) error
	ExtendIfAvailable(ctx context.Context, id string, newEnd, updatedAt time.Time) (persistence.Booking, error)
	GetBooking(ctx context.Context, id string) (persistence.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status persistence.BookingStatus, endedEarlyAt *time.Time, updatedAt time.Time) error
	ListActiveForRoom(ctx context.Context, roomID string) ([]persistence.Booking, error)
	ListForRoomBetween(ctx context.Context, roomID string, from, to time.Time) ([]persistence.Booking, error)
	ExpireBookings(ctx context.Context, now time.Time) (int64, error)
}

// RoomCatalog exposes the room lookups needed when computing board state.
type RoomCatalog interface {
	ListRooms(ctx context.Context, activeOnly bool) ([]persistence.Room, error)
}

// BookingService implements the room scheduling and conflict-resolution
// engine: booking lifecycle operations, the expiration sweep, and occupancy
// resolution.
type BookingService struct {
	bookings    BookingStore
	rooms       RoomCatalog
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewBookingService wires dependencies for booking operations.
func NewBookingService(bookings BookingStore, rooms RoomCatalog, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		bookings:    bookings,
		rooms:       rooms,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

func (s *BookingService) reference(now time.Time) time.Time {
	if now.IsZero() {
		return s.now()
	}
	return now
}

// Create validates the request and inserts a new active booking. The conflict
// check and the insert are one atomic store operation; a lost race surfaces
// as ErrRoomUnavailable.
func (s *BookingService) Create(ctx context.Context, params CreateBookingParams) (booking persistence.Booking, err error) {
	if s == nil || s.bookings == nil {
		return persistence.Booking{}, fmt.Errorf("booking store not configured")
	}

	now := s.reference(params.Now)
	logger := s.loggerWith(ctx, "Create", "room_id", params.RoomID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("booking_id", booking.ID).InfoContext(ctx, "booking created")
	}()

	if err = ValidateDuration(params.DurationMinutes, params.AllowedDurations); err != nil {
		return persistence.Booking{}, err
	}

	title, err := NormalizeTitle(params.Title)
	if err != nil {
		return persistence.Booking{}, err
	}

	start := now
	if params.Start != nil {
		start = *params.Start
		if start.Before(now.Add(-startSkewTolerance)) {
			return persistence.Booking{}, ErrPastStartTime
		}
	}
	end := start.Add(time.Duration(params.DurationMinutes) * time.Minute)

	source := params.Source
	if source == "" {
		source = persistence.BookingSourceBoard
	}

	booking = persistence.Booking{
		ID:        s.idGenerator(),
		RoomID:    params.RoomID,
		Title:     title,
		Start:     start,
		End:       end,
		Status:    persistence.BookingStatusActive,
		Source:    source,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err = s.bookings.CreateIfAvailable(ctx, booking); err != nil {
		return persistence.Booking{}, mapBookingStoreError(err)
	}

	return booking, nil
}

// Extend moves an active booking's end forward by a configured increment.
func (s *BookingService) Extend(ctx context.Context, params ExtendBookingParams) (booking persistence.Booking, err error) {
	if s == nil || s.bookings == nil {
		return persistence.Booking{}, fmt.Errorf("booking store not configured")
	}

	now := s.reference(params.Now)
	logger := s.loggerWith(ctx, "Extend", "booking_id", params.BookingID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to extend booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "booking extended", "new_end", booking.End)
	}()

	current, err := s.bookings.GetBooking(ctx, params.BookingID)
	if err != nil {
		return persistence.Booking{}, mapBookingStoreError(err)
	}
	if current.Status != persistence.BookingStatusActive {
		return persistence.Booking{}, ErrNotActive
	}
	// The sweeper should have ended this row already; treat it as terminal.
	if !current.End.After(now) {
		return persistence.Booking{}, ErrAlreadyEnded
	}

	if err = ValidateIncrement(params.IncrementMinutes, params.AllowedIncrements); err != nil {
		return persistence.Booking{}, err
	}

	newEnd := current.End.Add(time.Duration(params.IncrementMinutes) * time.Minute)
	booking, err = s.bookings.ExtendIfAvailable(ctx, params.BookingID, newEnd, now)
	if err != nil {
		return persistence.Booking{}, mapBookingStoreError(err)
	}

	return booking, nil
}

// EndEarly terminates an active booking before its end instant, recording the
// manual termination time. A booking whose interval already elapsed is swept
// to ended and reported as ErrAlreadyEnded so the caller is not misled about
// having ended it.
func (s *BookingService) EndEarly(ctx context.Context, params EndEarlyParams) (err error) {
	if s == nil || s.bookings == nil {
		return fmt.Errorf("booking store not configured")
	}

	now := s.reference(params.Now)
	logger := s.loggerWith(ctx, "EndEarly", "booking_id", params.BookingID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to end booking early", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "booking ended early")
	}()

	booking, err := s.bookings.GetBooking(ctx, params.BookingID)
	if err != nil {
		return mapBookingStoreError(err)
	}
	if booking.Status != persistence.BookingStatusActive {
		return ErrNotActive
	}

	if !booking.End.After(now) {
		// Raced the sweeper: finish its job, then report the stale view. If
		// the sweeper got there first the guarded update is a no-op.
		updateErr := s.bookings.UpdateBookingStatus(ctx, booking.ID, persistence.BookingStatusEnded, nil, now)
		if updateErr != nil && !errors.Is(updateErr, persistence.ErrConstraintViolation) {
			return mapBookingStoreError(updateErr)
		}
		return ErrAlreadyEnded
	}

	endedAt := now
	if err = s.bookings.UpdateBookingStatus(ctx, booking.ID, persistence.BookingStatusEnded, &endedAt, now); err != nil {
		return mapBookingStoreError(err)
	}

	return nil
}

// Sweep transitions every booking whose end instant has passed into the
// ended state and reports how many rows changed. It is idempotent.
func (s *BookingService) Sweep(ctx context.Context, now time.Time) (int64, error) {
	if s == nil || s.bookings == nil {
		return 0, fmt.Errorf("booking store not configured")
	}

	now = s.reference(now)
	count, err := s.bookings.ExpireBookings(ctx, now)
	if err != nil {
		s.loggerWith(ctx, "Sweep").ErrorContext(ctx, "failed to sweep bookings", "error", err)
		return 0, err
	}
	if count > 0 {
		s.loggerWith(ctx, "Sweep").InfoContext(ctx, "expired bookings swept", "count", count)
	}
	return count, nil
}

// ResolveRoomStatus derives the room's occupancy view at the reference
// instant. Stale active rows are swept first so they never leak into the
// result.
func (s *BookingService) ResolveRoomStatus(ctx context.Context, params ResolveParams) (RoomStatus, error) {
	if s == nil || s.bookings == nil {
		return RoomStatus{}, fmt.Errorf("booking store not configured")
	}

	now := s.reference(params.Now)
	if _, err := s.Sweep(ctx, now); err != nil {
		return RoomStatus{}, err
	}

	return s.resolveSwept(ctx, params.RoomID, now, params.ExtendIncrements)
}

// resolveSwept computes the status view assuming expired rows were already
// transitioned.
func (s *BookingService) resolveSwept(ctx context.Context, roomID string, now time.Time, increments []int) (RoomStatus, error) {
	active, err := s.bookings.ListActiveForRoom(ctx, roomID)
	if err != nil {
		return RoomStatus{}, err
	}

	var current *persistence.Booking
	var next *persistence.Booking
	for i := range active {
		booking := active[i]
		span := interval.NewSpan(booking.Start, booking.End)
		switch {
		case span.Contains(now):
			// The non-overlap invariant allows at most one; the list is
			// ordered by start so the first wins as a tie-break.
			if current == nil {
				current = &booking
			}
		case booking.Start.After(now):
			if next == nil || booking.Start.Before(next.Start) {
				next = &booking
			}
		}
	}

	status := RoomStatus{Status: RoomFree}
	if next != nil {
		status.Next = &UpcomingBooking{
			ID:    next.ID,
			Title: next.Title,
			Start: next.Start,
			End:   next.End,
		}
	}
	if current == nil {
		return status, nil
	}

	status.Status = RoomOccupied
	status.Current = &CurrentBooking{
		ID:          current.ID,
		Title:       current.Title,
		Start:       current.Start,
		End:         current.End,
		CanEndEarly: true,
		CanExtend:   canExtend(*current, next, increments),
	}

	return status, nil
}

// canExtend reports whether extending the current booking by the smallest
// configured increment stays clear of the next booking. Offering extend only
// when the smallest step is safe avoids presenting an action that would
// immediately fail the conflict guard.
func canExtend(current persistence.Booking, next *persistence.Booking, increments []int) bool {
	smallest, ok := smallestIncrement(increments)
	if !ok {
		return false
	}
	if next == nil {
		return true
	}
	extendedEnd := current.End.Add(time.Duration(smallest) * time.Minute)
	return !interval.Overlaps(current.Start, extendedEnd, next.Start, next.End)
}

// BoardState sweeps once and resolves every active room for the public board.
func (s *BookingService) BoardState(ctx context.Context, params BoardStateParams) (BoardState, error) {
	if s == nil || s.bookings == nil || s.rooms == nil {
		return BoardState{}, fmt.Errorf("booking service not fully configured")
	}

	now := s.reference(params.Now)
	if _, err := s.Sweep(ctx, now); err != nil {
		return BoardState{}, err
	}

	rooms, err := s.rooms.ListRooms(ctx, true)
	if err != nil {
		return BoardState{}, err
	}

	state := BoardState{
		ServerTime:       now,
		BookingDurations: params.Settings.BookingDurations,
		ExtendIncrements: params.Settings.ExtendIncrements,
	}
	for _, room := range rooms {
		status, err := s.resolveSwept(ctx, room.ID, now, params.Settings.ExtendIncrements)
		if err != nil {
			return BoardState{}, err
		}
		state.Rooms = append(state.Rooms, RoomBoardEntry{Room: room, Status: status})
	}

	return state, nil
}

// RoomBookingsForDay lists the room's bookings intersecting the calendar day
// containing the reference instant. The day window is computed in the
// supplied deployment time zone, never the host's local zone.
func (s *BookingService) RoomBookingsForDay(ctx context.Context, params DayBookingsParams) ([]persistence.Booking, error) {
	if s == nil || s.bookings == nil {
		return nil, fmt.Errorf("booking store not configured")
	}

	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	from, to := dayWindow(params.Reference, loc)

	return s.bookings.ListForRoomBetween(ctx, params.RoomID, from, to)
}

// dayWindow returns the half-open interval covering the calendar day that
// contains the reference instant in the given location.
func dayWindow(reference time.Time, loc *time.Location) (time.Time, time.Time) {
	local := reference.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

func mapBookingStoreError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrConflict):
		return ErrRoomUnavailable
	case errors.Is(err, persistence.ErrConstraintViolation):
		// The guarded update found the row no longer active.
		return ErrNotActive
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		// The insert referenced a room that no longer exists.
		return ErrNotFound
	}
	return err
}
