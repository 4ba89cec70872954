package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/roomboard/internal/persistence"
	"github.com/example/roomboard/internal/testfixtures"
)

type roomStoreStub struct {
	rooms map[string]persistence.Room

	createErr error
	updateErr error
	deleteErr error
}

func newRoomStoreStub() *roomStoreStub {
	return &roomStoreStub{rooms: map[string]persistence.Room{}}
}

func (s *roomStoreStub) CreateRoom(_ context.Context, room persistence.Room) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.rooms[room.ID] = room
	return nil
}

func (s *roomStoreStub) UpdateRoom(_ context.Context, room persistence.Room) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.rooms[room.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.rooms[room.ID] = room
	return nil
}

func (s *roomStoreStub) GetRoom(_ context.Context, id string) (persistence.Room, error) {
	room, ok := s.rooms[id]
	if !ok {
		return persistence.Room{}, persistence.ErrNotFound
	}
	return room, nil
}

func (s *roomStoreStub) ListRooms(_ context.Context, activeOnly bool) ([]persistence.Room, error) {
	var result []persistence.Room
	for _, room := range s.rooms {
		if activeOnly && !room.IsActive {
			continue
		}
		result = append(result, room)
	}
	return result, nil
}

func (s *roomStoreStub) MaxDisplayOrder(_ context.Context) (int, error) {
	max := 0
	for _, room := range s.rooms {
		if room.DisplayOrder > max {
			max = room.DisplayOrder
		}
	}
	return max, nil
}

func (s *roomStoreStub) DeleteRoom(_ context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.rooms[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.rooms, id)
	return nil
}

func newRoomService(store *roomStoreStub) *RoomService {
	ids := testfixtures.NewIDGenerator("room")
	return NewRoomService(store, ids.NextFunc(), testfixtures.NewClock(at(9, 0)).NowFunc(), nil)
}

func TestRoomServiceCreateRoom(t *testing.T) {
	t.Run("creates active room appended to display order", func(t *testing.T) {
		store := newRoomStoreStub()
		store.rooms["existing"] = persistence.Room{ID: "existing", Name: "First", DisplayOrder: 3, IsActive: true}
		svc := newRoomService(store)

		room, err := svc.CreateRoom(context.Background(), RoomInput{Name: "  Aurora  "})
		if err != nil {
			t.Fatalf("CreateRoom returned error: %v", err)
		}
		if room.Name != "Aurora" {
			t.Errorf("name = %q, want trimmed %q", room.Name, "Aurora")
		}
		if !room.IsActive {
			t.Error("new room should be active")
		}
		if room.DisplayOrder != 4 {
			t.Errorf("display order = %d, want max+1 = 4", room.DisplayOrder)
		}
	})

	t.Run("rejects blank name", func(t *testing.T) {
		svc := newRoomService(newRoomStoreStub())

		_, err := svc.CreateRoom(context.Background(), RoomInput{Name: "   "})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
		if _, ok := vErr.FieldErrors["name"]; !ok {
			t.Errorf("field errors = %v, want a name entry", vErr.FieldErrors)
		}
	})

	t.Run("rejects overlong name", func(t *testing.T) {
		svc := newRoomService(newRoomStoreStub())

		_, err := svc.CreateRoom(context.Background(), RoomInput{Name: strings.Repeat("a", maxRoomNameLength+1)})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
	})
}

func TestRoomServiceUpdateRoom(t *testing.T) {
	desc := "window seats"

	t.Run("applies only supplied fields", func(t *testing.T) {
		store := newRoomStoreStub()
		store.rooms["r1"] = persistence.Room{ID: "r1", Name: "Aurora", IsActive: true, DisplayOrder: 1}
		svc := newRoomService(store)

		inactive := false
		room, err := svc.UpdateRoom(context.Background(), "r1", RoomUpdate{
			Description: &desc,
			IsActive:    &inactive,
		})
		if err != nil {
			t.Fatalf("UpdateRoom returned error: %v", err)
		}
		if room.Name != "Aurora" {
			t.Errorf("name = %q, want unchanged", room.Name)
		}
		if room.Description == nil || *room.Description != desc {
			t.Errorf("description = %v, want %q", room.Description, desc)
		}
		if room.IsActive {
			t.Error("room should be deactivated")
		}
	})

	t.Run("validates replacement name", func(t *testing.T) {
		store := newRoomStoreStub()
		store.rooms["r1"] = persistence.Room{ID: "r1", Name: "Aurora", IsActive: true}
		svc := newRoomService(store)

		blank := "   "
		_, err := svc.UpdateRoom(context.Background(), "r1", RoomUpdate{Name: &blank})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
	})

	t.Run("reports unknown room", func(t *testing.T) {
		svc := newRoomService(newRoomStoreStub())

		_, err := svc.UpdateRoom(context.Background(), "missing", RoomUpdate{Description: &desc})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestRoomServiceDeleteRoom(t *testing.T) {
	t.Run("deletes existing room", func(t *testing.T) {
		store := newRoomStoreStub()
		store.rooms["r1"] = persistence.Room{ID: "r1", Name: "Aurora"}
		svc := newRoomService(store)

		if err := svc.DeleteRoom(context.Background(), "r1"); err != nil {
			t.Fatalf("DeleteRoom returned error: %v", err)
		}
		if _, ok := store.rooms["r1"]; ok {
			t.Error("room should be gone")
		}
	})

	t.Run("reports unknown room", func(t *testing.T) {
		svc := newRoomService(newRoomStoreStub())

		if err := svc.DeleteRoom(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})
}
