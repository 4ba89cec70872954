package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/roomboard/internal/persistence"
)

// BookingRepository implements persistence.BookingRepository using SQLite.
//
// The availability-guarded writes run their overlap check and the mutation in
// a single write transaction. The pool opens with `_txlock=immediate`, so the
// database lock is taken at BEGIN and two concurrent guards cannot both
// observe a free room.
type BookingRepository struct {
	pool *ConnectionPool
}

// NewBookingRepository creates a new SQLite booking repository.
func NewBookingRepository(pool *ConnectionPool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

const bookingColumns = `id, room_id, title, start_time, end_time, status, source, ended_early_at, created_at, updated_at`

// CreateIfAvailable inserts the booking unless the room already has an active
// booking overlapping [booking.Start, booking.End).
func (r *BookingRepository) CreateIfAvailable(ctx context.Context, booking persistence.Booking) error {
	if booking.ID == "" || booking.RoomID == "" {
		return persistence.ErrConstraintViolation
	}
	if !booking.End.After(booking.Start) {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		conflicting, err := countOverlapping(tx, booking.RoomID, booking.Start, booking.End, "")
		if err != nil {
			return err
		}
		if conflicting > 0 {
			return persistence.ErrConflict
		}

		query := `
			INSERT INTO bookings (` + bookingColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err = tx.Exec(query,
			booking.ID,
			booking.RoomID,
			booking.Title,
			formatTime(booking.Start),
			formatTime(booking.End),
			string(booking.Status),
			string(booking.Source),
			formatNullableTime(booking.EndedEarlyAt),
			formatTime(booking.CreatedAt),
			formatTime(booking.UpdatedAt),
		)
		if err != nil {
			return mapError(err)
		}
		return nil
	})
}

// ExtendIfAvailable moves the booking's end forward to newEnd unless the
// widened interval overlaps another active booking in the same room.
func (r *BookingRepository) ExtendIfAvailable(ctx context.Context, id string, newEnd, updatedAt time.Time) (persistence.Booking, error) {
	if id == "" {
		return persistence.Booking{}, persistence.ErrNotFound
	}

	var updated persistence.Booking
	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		current, err := scanBooking(tx.QueryRow(
			`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id,
		))
		if err != nil {
			return mapError(err)
		}

		if current.Status != persistence.BookingStatusActive {
			return persistence.ErrConstraintViolation
		}
		if !newEnd.After(current.End) {
			return persistence.ErrConstraintViolation
		}

		conflicting, err := countOverlapping(tx, current.RoomID, current.Start, newEnd, id)
		if err != nil {
			return err
		}
		if conflicting > 0 {
			return persistence.ErrConflict
		}

		if _, err := tx.Exec(
			`UPDATE bookings SET end_time = ?, updated_at = ? WHERE id = ?`,
			formatTime(newEnd), formatTime(updatedAt), id,
		); err != nil {
			return mapError(err)
		}

		current.End = newEnd.UTC()
		current.UpdatedAt = updatedAt.UTC()
		updated = current
		return nil
	})
	if err != nil {
		return persistence.Booking{}, err
	}

	return updated, nil
}

// countOverlapping applies the half-open overlap predicate
// (existing.start < end AND start < existing.end) against the room's active
// bookings, optionally excluding one booking id.
func countOverlapping(tx *sql.Tx, roomID string, start, end time.Time, excludeID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE room_id = ?
		  AND status = 'active'
		  AND start_time < ?
		  AND end_time > ?
	`
	args := []any{roomID, formatTime(end), formatTime(start)}
	if excludeID != "" {
		query += " AND id != ?"
		args = append(args, excludeID)
	}

	var count int
	if err := tx.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// GetBooking retrieves a booking by ID.
func (r *BookingRepository) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	if id == "" {
		return persistence.Booking{}, persistence.ErrNotFound
	}

	booking, err := scanBooking(r.pool.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id,
	))
	if err != nil {
		return persistence.Booking{}, mapError(err)
	}

	return booking, nil
}

// UpdateBookingStatus transitions an active booking to the given status. The
// ended state is terminal: a booking that already left active is never
// rewritten, and the attempt reports ErrConstraintViolation.
func (r *BookingRepository) UpdateBookingStatus(ctx context.Context, id string, status persistence.BookingStatus, endedEarlyAt *time.Time, updatedAt time.Time) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(
			`UPDATE bookings SET status = ?, ended_early_at = ?, updated_at = ? WHERE id = ? AND status = 'active'`,
			string(status),
			formatNullableTime(endedEarlyAt),
			formatTime(updatedAt),
			id,
		)
		if err != nil {
			return mapError(err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			var exists int
			if err := tx.QueryRow(`SELECT COUNT(*) FROM bookings WHERE id = ?`, id).Scan(&exists); err != nil {
				return mapError(err)
			}
			if exists == 0 {
				return persistence.ErrNotFound
			}
			return persistence.ErrConstraintViolation
		}

		return nil
	})
}

// ListActiveForRoom returns active bookings for the room ordered by start.
func (r *BookingRepository) ListActiveForRoom(ctx context.Context, roomID string) ([]persistence.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE room_id = ? AND status = 'active'
		ORDER BY start_time ASC
	`
	return r.queryBookings(ctx, query, roomID)
}

// ListForRoomBetween returns bookings of any status whose interval overlaps
// [from, to), ordered by start.
func (r *BookingRepository) ListForRoomBetween(ctx context.Context, roomID string, from, to time.Time) ([]persistence.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE room_id = ? AND start_time < ? AND end_time > ?
		ORDER BY start_time ASC
	`
	return r.queryBookings(ctx, query, roomID, formatTime(to), formatTime(from))
}

// ExpireBookings transitions every active booking whose end has passed into
// the ended state, leaving ended_early_at unset to distinguish passive expiry
// from a manual early end.
func (r *BookingRepository) ExpireBookings(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.pool.db.ExecContext(ctx,
		`UPDATE bookings SET status = 'ended', updated_at = ? WHERE status = 'active' AND end_time <= ?`,
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		return 0, mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected, nil
}

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]persistence.Booking, error) {
	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var bookings []persistence.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return bookings, nil
}

func scanBooking(row rowScanner) (persistence.Booking, error) {
	var (
		booking      persistence.Booking
		status       string
		source       string
		startTime    string
		endTime      string
		endedEarlyAt sql.NullString
		createdAt    string
		updatedAt    string
	)

	if err := row.Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.Title,
		&startTime,
		&endTime,
		&status,
		&source,
		&endedEarlyAt,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.Booking{}, err
	}

	booking.Status = persistence.BookingStatus(status)
	booking.Source = persistence.BookingSource(source)

	var err error
	if booking.Start, err = parseTime(startTime); err != nil {
		return persistence.Booking{}, err
	}
	if booking.End, err = parseTime(endTime); err != nil {
		return persistence.Booking{}, err
	}
	if booking.EndedEarlyAt, err = parseNullableTime(endedEarlyAt); err != nil {
		return persistence.Booking{}, err
	}
	if booking.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Booking{}, err
	}
	if booking.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Booking{}, err
	}

	return booking, nil
}
