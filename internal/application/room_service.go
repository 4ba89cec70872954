package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/roomboard/internal/persistence"
)

const maxRoomNameLength = 100

// RoomStore captures the persistence operations needed by the room service.
type RoomStore interface {
	CreateRoom(ctx context.Context, room persistence.Room) error
	UpdateRoom(ctx context.Context, room persistence.Room) error
	GetRoom(ctx context.Context, id string) (persistence.Room, error)
	ListRooms(ctx context.Context, activeOnly bool) ([]persistence.Room, error)
	MaxDisplayOrder(ctx context.Context) (int, error)
	DeleteRoom(ctx context.Context, id string) error
}

// RoomService orchestrates validation and persistence for the managed rooms.
type RoomService struct {
	rooms       RoomStore
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewRoomService constructs a room service with the provided dependencies.
func NewRoomService(rooms RoomStore, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RoomService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RoomService{rooms: rooms, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

func validateRoomName(name string) (string, *ValidationError) {
	trimmed := strings.TrimSpace(name)
	vErr := &ValidationError{}
	if trimmed == "" {
		vErr.add("name", "name is required")
	} else if len([]rune(trimmed)) > maxRoomNameLength {
		vErr.add("name", fmt.Sprintf("name must be at most %d characters", maxRoomNameLength))
	}
	if vErr.HasErrors() {
		return "", vErr
	}
	return trimmed, nil
}

// CreateRoom persists a new active room, appending it to the display order.
func (s *RoomService) CreateRoom(ctx context.Context, input RoomInput) (room persistence.Room, err error) {
	if s == nil || s.rooms == nil {
		return persistence.Room{}, fmt.Errorf("room store not configured")
	}

	logger := s.loggerWith(ctx, "CreateRoom")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("room_id", room.ID).InfoContext(ctx, "room created")
	}()

	name, vErr := validateRoomName(input.Name)
	if vErr != nil {
		return persistence.Room{}, vErr
	}

	maxOrder, err := s.rooms.MaxDisplayOrder(ctx)
	if err != nil {
		return persistence.Room{}, err
	}

	now := s.now()
	room = persistence.Room{
		ID:           s.idGenerator(),
		Name:         name,
		Description:  input.Description,
		Color:        input.Color,
		Capacity:     input.Capacity,
		IsActive:     true,
		DisplayOrder: maxOrder + 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err = s.rooms.CreateRoom(ctx, room); err != nil {
		return persistence.Room{}, mapRoomStoreError(err)
	}

	return room, nil
}

// UpdateRoom applies a partial update to an existing room.
func (s *RoomService) UpdateRoom(ctx context.Context, roomID string, update RoomUpdate) (room persistence.Room, err error) {
	if s == nil || s.rooms == nil {
		return persistence.Room{}, fmt.Errorf("room store not configured")
	}

	logger := s.loggerWith(ctx, "UpdateRoom", "room_id", roomID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "room updated")
	}()

	room, err = s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return persistence.Room{}, mapRoomStoreError(err)
	}

	if update.Name != nil {
		name, vErr := validateRoomName(*update.Name)
		if vErr != nil {
			return persistence.Room{}, vErr
		}
		room.Name = name
	}
	if update.Description != nil {
		room.Description = update.Description
	}
	if update.Color != nil {
		room.Color = update.Color
	}
	if update.Capacity != nil {
		room.Capacity = update.Capacity
	}
	if update.IsActive != nil {
		room.IsActive = *update.IsActive
	}
	if update.DisplayOrder != nil {
		room.DisplayOrder = *update.DisplayOrder
	}
	room.UpdatedAt = s.now()

	if err = s.rooms.UpdateRoom(ctx, room); err != nil {
		return persistence.Room{}, mapRoomStoreError(err)
	}

	return room, nil
}

// GetRoom fetches a single room by id.
func (s *RoomService) GetRoom(ctx context.Context, roomID string) (persistence.Room, error) {
	if s == nil || s.rooms == nil {
		return persistence.Room{}, fmt.Errorf("room store not configured")
	}
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return persistence.Room{}, mapRoomStoreError(err)
	}
	return room, nil
}

// ListRooms returns rooms ordered for display.
func (s *RoomService) ListRooms(ctx context.Context, activeOnly bool) ([]persistence.Room, error) {
	if s == nil || s.rooms == nil {
		return nil, fmt.Errorf("room store not configured")
	}
	return s.rooms.ListRooms(ctx, activeOnly)
}

// DeleteRoom removes a room and, through the store, its bookings.
func (s *RoomService) DeleteRoom(ctx context.Context, roomID string) (err error) {
	if s == nil || s.rooms == nil {
		return fmt.Errorf("room store not configured")
	}

	logger := s.loggerWith(ctx, "DeleteRoom", "room_id", roomID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "room deleted")
	}()

	if err = s.rooms.DeleteRoom(ctx, roomID); err != nil {
		return mapRoomStoreError(err)
	}
	return nil
}

func mapRoomStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
