package services

import (
	"errors"
	"testing"

	"mariposa-backend/models"
)

func TestCheckAvailabilityOpenRange(t *testing.T) {
	env := newTestEnv(t)
	room := env.seedRoom("101", models.CategoryStandard, 2, 500)

	err := env.Availability.CheckAvailability(room.ID, mustDate(t, "2024-03-01"), mustDate(t, "2024-03-04"))
	if err != nil {
		t.Fatalf("CheckAvailability on empty ledger: %v", err)
	}
}

func TestCheckAvailabilityRejectsInvalidRange(t *testing.T) {
	env := newTestEnv(t)
	room := env.seedRoom("101", models.CategoryStandard, 2, 500)
	day := mustDate(t, "2024-03-01")

	if err := env.Availability.CheckAvailability(room.ID, day, day); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("same-day range: got %v, want ErrInvalidRange", err)
	}
}

func TestCheckAvailabilityUnknownRoom(t *testing.T) {
	env := newTestEnv(t)
	err := env.Availability.CheckAvailability(99, mustDate(t, "2024-03-01"), mustDate(t, "2024-03-04"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown room: got %v, want ErrNotFound", err)
	}
}

func TestCheckAvailabilityRoomInMaintenance(t *testing.T) {
	env := newTestEnv(t)
	room := env.seedRoom("101", models.CategoryStandard, 2, 500)
	if _, err := env.Rooms.SetStatus(room.ID, models.RoomMaintenance, "broken AC"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	err := env.Availability.CheckAvailability(room.ID, mustDate(t, "2024-03-01"), mustDate(t, "2024-03-04"))
	if !errors.Is(err, ErrRoomUnavailable) {
		t.Fatalf("room in maintenance: got %v, want ErrRoomUnavailable", err)
	}
}

func TestCheckAvailabilityDateConflict(t *testing.T) {
	env := newTestEnv(t)
	room := env.seedRoom("101", models.CategoryStandard, 2, 500)
	guest := env.seedGuest("Ana Morales")
	env.book(guest.ID, room.ID, "2024-03-01", "2024-03-03")

	err := env.Availability.CheckAvailability(room.ID, mustDate(t, "2024-03-02"), mustDate(t, "2024-03-05"))
	if !errors.Is(err, ErrDateConflict) {
		t.Fatalf("overlapping range: got %v, want ErrDateConflict", err)
	}

	// Overlap is symmetric: a range that starts before and ends inside
	// conflicts too.
	err = env.Availability.CheckAvailability(room.ID, mustDate(t, "2024-02-28"), mustDate(t, "2024-03-02"))
	if !errors.Is(err, ErrDateConflict) {
		t.Fatalf("range ending inside stay: got %v, want ErrDateConflict", err)
	}
}

func TestBackToBackStaysDoNotConflict(t *testing.T) {
	env := newTestEnv(t)
	room := env.seedRoom("101", models.CategoryStandard, 2, 500)
	guest := env.seedGuest("Ana Morales")
	env.book(guest.ID, room.ID, "2024-03-01", "2024-03-03")

	// Checkout day equals the next checkin day: half-open ranges, no overlap.
	err := env.Availability.CheckAvailability(room.ID, mustDate(t, "2024-03-03"), mustDate(t, "2024-03-05"))
	if err != nil {
		t.Fatalf("back-to-back range should be free: %v", err)
	}

	second := env.book(guest.ID, room.ID, "2024-03-03", "2024-03-05")
	if second.Status != models.ReservationPending {
		t.Fatalf("second stay status = %q, want pending", second.Status)
	}
}

func TestExpiredPendingHoldStopsBlocking(t *testing.T) {
	env := newTestEnv(t)
	room := env.seedRoom("101", models.CategoryStandard, 2, 500)
	guest := env.seedGuest("Ana Morales")
	env.book(guest.ID, room.ID, "2024-03-01", "2024-03-03")

	// Within the hold window the pending reservation blocks.
	err := env.Availability.CheckAvailability(room.ID, mustDate(t, "2024-03-01"), mustDate(t, "2024-03-03"))
	if !errors.Is(err, ErrDateConflict) {
		t.Fatalf("active hold: got %v, want ErrDateConflict", err)
	}

	// Past the 24h payment deadline the hold no longer counts.
	env.advanceTo("2024-02-17")
	err = env.Availability.CheckAvailability(room.ID, mustDate(t, "2024-03-01"), mustDate(t, "2024-03-03"))
	if err != nil {
		t.Fatalf("expired hold should not block: %v", err)
	}
}

func TestConfirmedReservationBlocksIndefinitely(t *testing.T) {
	env := newTestEnv(t)
	room := env.seedRoom("101", models.CategoryStandard, 2, 500)
	guest := env.seedGuest("Ana Morales")
	r := env.book(guest.ID, room.ID, "2024-03-01", "2024-03-03")
	if _, err := env.Reservations.Confirm(r.ID, nil); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	env.advanceTo("2024-02-20")
	err := env.Availability.CheckAvailability(room.ID, mustDate(t, "2024-03-01"), mustDate(t, "2024-03-03"))
	if !errors.Is(err, ErrDateConflict) {
		t.Fatalf("confirmed stay: got %v, want ErrDateConflict", err)
	}
}

func TestFindAvailableRoomsExcludesConflicting(t *testing.T) {
	env := newTestEnv(t)
	roomA := env.seedRoom("101", models.CategoryStandard, 2, 500)
	roomB := env.seedRoom("102", models.CategoryStandard, 2, 500)
	guest := env.seedGuest("Ana Morales")
	env.book(guest.ID, roomA.ID, "2024-03-01", "2024-03-05")

	rooms, err := env.Availability.FindAvailableRooms(mustDate(t, "2024-03-02"), mustDate(t, "2024-03-04"), nil, 0)
	if err != nil {
		t.Fatalf("FindAvailableRooms: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != roomB.ID {
		t.Fatalf("expected only room 102 free, got %d rooms", len(rooms))
	}

	// After the stay ends both rooms are free again, even though room 101
	// still carries the occupied hold status.
	rooms, err = env.Availability.FindAvailableRooms(mustDate(t, "2024-03-05"), mustDate(t, "2024-03-07"), nil, 0)
	if err != nil {
		t.Fatalf("FindAvailableRooms: %v", err)
	}
	if len(rooms) != 2 {
		t.Fatalf("expected both rooms free, got %d", len(rooms))
	}
}

func TestFindAvailableRoomsAppliesFilters(t *testing.T) {
	env := newTestEnv(t)
	env.seedRoom("101", models.CategoryStandard, 2, 500)
	suite := env.seedRoom("301", models.CategorySuite, 4, 1400)

	category := models.CategorySuite
	rooms, err := env.Availability.FindAvailableRooms(mustDate(t, "2024-03-01"), mustDate(t, "2024-03-04"), &category, 4)
	if err != nil {
		t.Fatalf("FindAvailableRooms: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != suite.ID {
		t.Fatalf("expected only the suite, got %d rooms", len(rooms))
	}
}
