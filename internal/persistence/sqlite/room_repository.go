package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/roomboard/internal/persistence"
)

// RoomRepository implements persistence.RoomRepository using SQLite.
type RoomRepository struct {
	pool *ConnectionPool
}

// NewRoomRepository creates a new SQLite room repository.
func NewRoomRepository(pool *ConnectionPool) *RoomRepository {
	return &RoomRepository{pool: pool}
}

// CreateRoom inserts a new room into the database.
func (r *RoomRepository) CreateRoom(ctx context.Context, room persistence.Room) error {
	if room.ID == "" || strings.TrimSpace(room.Name) == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO rooms (id, name, description, color, capacity, is_active, display_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.pool.db.ExecContext(ctx, query,
		room.ID,
		room.Name,
		nullableString(room.Description),
		nullableString(room.Color),
		nullableInt(room.Capacity),
		boolToInt(room.IsActive),
		room.DisplayOrder,
		formatTime(room.CreatedAt),
		formatTime(room.UpdatedAt),
	)
	if err != nil {
		return mapError(err)
	}

	return nil
}

// UpdateRoom updates an existing room in the database.
func (r *RoomRepository) UpdateRoom(ctx context.Context, room persistence.Room) error {
	if room.ID == "" || strings.TrimSpace(room.Name) == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		UPDATE rooms
		SET name = ?, description = ?, color = ?, capacity = ?, is_active = ?, display_order = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.pool.db.ExecContext(ctx, query,
		room.Name,
		nullableString(room.Description),
		nullableString(room.Color),
		nullableInt(room.Capacity),
		boolToInt(room.IsActive),
		room.DisplayOrder,
		formatTime(room.UpdatedAt),
		room.ID,
	)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

// GetRoom retrieves a room by ID from the database.
func (r *RoomRepository) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	if id == "" {
		return persistence.Room{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, name, description, color, capacity, is_active, display_order, created_at, updated_at
		FROM rooms
		WHERE id = ?
	`

	room, err := scanRoom(r.pool.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return persistence.Room{}, mapError(err)
	}

	return room, nil
}

// ListRooms returns rooms ordered for display. When activeOnly is set,
// inactive rooms are filtered out, matching the public board view.
func (r *RoomRepository) ListRooms(ctx context.Context, activeOnly bool) ([]persistence.Room, error) {
	query := `
		SELECT id, name, description, color, capacity, is_active, display_order, created_at, updated_at
		FROM rooms
	`
	if activeOnly {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY display_order ASC, created_at ASC"

	rows, err := r.pool.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var rooms []persistence.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return rooms, nil
}

// MaxDisplayOrder returns the highest ordering key currently assigned.
func (r *RoomRepository) MaxDisplayOrder(ctx context.Context) (int, error) {
	var max int
	err := r.pool.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(display_order), 0) FROM rooms`).Scan(&max)
	if err != nil {
		return 0, mapError(err)
	}
	return max, nil
}

// DeleteRoom removes a room by ID. Bookings cascade at the schema level.
func (r *RoomRepository) DeleteRoom(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (persistence.Room, error) {
	var (
		room        persistence.Room
		description sql.NullString
		color       sql.NullString
		capacity    sql.NullInt64
		isActive    int
		createdAt   string
		updatedAt   string
	)

	if err := row.Scan(
		&room.ID,
		&room.Name,
		&description,
		&color,
		&capacity,
		&isActive,
		&room.DisplayOrder,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.Room{}, err
	}

	if description.Valid {
		value := description.String
		room.Description = &value
	}
	if color.Valid {
		value := color.String
		room.Color = &value
	}
	if capacity.Valid {
		value := int(capacity.Int64)
		room.Capacity = &value
	}
	room.IsActive = isActive != 0

	var err error
	if room.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Room{}, err
	}
	if room.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Room{}, err
	}

	return room, nil
}

func nullableString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func nullableInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
