package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/example/roomboard/internal/persistence"
)

func TestRoomRepository_CreateAndGet(t *testing.T) {
	pool := newTestPool(t)
	repo := NewRoomRepository(pool)
	ctx := context.Background()

	description := "Glass-walled room near reception"
	capacity := 8
	room := persistence.Room{
		ID:           "room1",
		Name:         "Aquarium",
		Description:  &description,
		Capacity:     &capacity,
		IsActive:     true,
		DisplayOrder: 3,
		CreatedAt:    testTime(8, 0),
		UpdatedAt:    testTime(8, 0),
	}

	if err := repo.CreateRoom(ctx, room); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	stored, err := repo.GetRoom(ctx, "room1")
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if stored.Name != "Aquarium" {
		t.Errorf("expected name Aquarium, got %q", stored.Name)
	}
	if stored.Description == nil || *stored.Description != description {
		t.Errorf("unexpected description: %v", stored.Description)
	}
	if stored.Capacity == nil || *stored.Capacity != 8 {
		t.Errorf("unexpected capacity: %v", stored.Capacity)
	}
	if !stored.IsActive || stored.DisplayOrder != 3 {
		t.Errorf("unexpected flags: active=%v order=%d", stored.IsActive, stored.DisplayOrder)
	}
}

func TestRoomRepository_CreateRejectsEmptyName(t *testing.T) {
	pool := newTestPool(t)
	repo := NewRoomRepository(pool)

	err := repo.CreateRoom(context.Background(), persistence.Room{ID: "room1", Name: "  "})
	if !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}
}

func TestRoomRepository_UpdateRoom(t *testing.T) {
	pool := newTestPool(t)
	repo := NewRoomRepository(pool)
	ctx := context.Background()
	room := mustCreateRoom(t, pool, "room1")

	room.Name = "Renamed"
	room.IsActive = false
	room.UpdatedAt = testTime(9, 0)
	if err := repo.UpdateRoom(ctx, room); err != nil {
		t.Fatalf("UpdateRoom failed: %v", err)
	}

	stored, err := repo.GetRoom(ctx, "room1")
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if stored.Name != "Renamed" || stored.IsActive {
		t.Errorf("update not applied: %+v", stored)
	}
}

func TestRoomRepository_UpdateMissingRoom(t *testing.T) {
	pool := newTestPool(t)
	repo := NewRoomRepository(pool)

	err := repo.UpdateRoom(context.Background(), persistence.Room{ID: "missing", Name: "X", UpdatedAt: testTime(9, 0)})
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRoomRepository_ListRooms(t *testing.T) {
	pool := newTestPool(t)
	repo := NewRoomRepository(pool)
	ctx := context.Background()

	rooms := []persistence.Room{
		{ID: "r-b", Name: "Second", IsActive: true, DisplayOrder: 2, CreatedAt: testTime(8, 0), UpdatedAt: testTime(8, 0)},
		{ID: "r-a", Name: "First", IsActive: true, DisplayOrder: 1, CreatedAt: testTime(8, 0), UpdatedAt: testTime(8, 0)},
		{ID: "r-c", Name: "Hidden", IsActive: false, DisplayOrder: 3, CreatedAt: testTime(8, 0), UpdatedAt: testTime(8, 0)},
	}
	for _, room := range rooms {
		if err := repo.CreateRoom(ctx, room); err != nil {
			t.Fatalf("CreateRoom failed: %v", err)
		}
	}

	all, err := repo.ListRooms(ctx, false)
	if err != nil {
		t.Fatalf("ListRooms failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 rooms, got %d", len(all))
	}
	if all[0].ID != "r-a" || all[1].ID != "r-b" || all[2].ID != "r-c" {
		t.Errorf("unexpected display ordering: %s, %s, %s", all[0].ID, all[1].ID, all[2].ID)
	}

	active, err := repo.ListRooms(ctx, true)
	if err != nil {
		t.Fatalf("ListRooms(activeOnly) failed: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active rooms, got %d", len(active))
	}
	for _, room := range active {
		if !room.IsActive {
			t.Errorf("inactive room leaked into active listing: %s", room.ID)
		}
	}
}

func TestRoomRepository_MaxDisplayOrder(t *testing.T) {
	pool := newTestPool(t)
	repo := NewRoomRepository(pool)
	ctx := context.Background()

	max, err := repo.MaxDisplayOrder(ctx)
	if err != nil {
		t.Fatalf("MaxDisplayOrder failed: %v", err)
	}
	if max != 0 {
		t.Errorf("expected 0 for empty catalog, got %d", max)
	}

	room := persistence.Room{ID: "r1", Name: "One", IsActive: true, DisplayOrder: 7, CreatedAt: testTime(8, 0), UpdatedAt: testTime(8, 0)}
	if err := repo.CreateRoom(ctx, room); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	max, err = repo.MaxDisplayOrder(ctx)
	if err != nil {
		t.Fatalf("MaxDisplayOrder failed: %v", err)
	}
	if max != 7 {
		t.Errorf("expected 7, got %d", max)
	}
}

func TestRoomRepository_DeleteRoom(t *testing.T) {
	pool := newTestPool(t)
	repo := NewRoomRepository(pool)
	ctx := context.Background()
	mustCreateRoom(t, pool, "room1")

	if err := repo.DeleteRoom(ctx, "room1"); err != nil {
		t.Fatalf("DeleteRoom failed: %v", err)
	}

	_, err := repo.GetRoom(ctx, "room1")
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	if err := repo.DeleteRoom(ctx, "room1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for repeated delete, got %v", err)
	}
}
