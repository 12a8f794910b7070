package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"mariposa-backend/models"
)

func TestCreateRoomNormalizesNumber(t *testing.T) {
	env := newTestEnv(t)
	room := &models.Room{
		RoomNumber: " 101a ",
		Category:   models.CategoryStandard,
		Capacity:   2,
		BasePrice:  decimal.NewFromInt(500),
		Currency:   "gtq",
		IsActive:   true,
	}
	if err := env.Rooms.Create(room); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if room.RoomNumber != "101A" {
		t.Fatalf("room_number = %q, want 101A", room.RoomNumber)
	}
	if room.Currency != "GTQ" {
		t.Fatalf("currency = %q, want GTQ", room.Currency)
	}
	if room.Status != models.RoomAvailable {
		t.Fatalf("status = %q, want available default", room.Status)
	}
}

func TestCreateRoomValidation(t *testing.T) {
	env := newTestEnv(t)
	base := func() *models.Room {
		return &models.Room{
			RoomNumber: "101",
			Category:   models.CategoryStandard,
			Capacity:   2,
			BasePrice:  decimal.NewFromInt(500),
			Currency:   "GTQ",
			IsActive:   true,
		}
	}

	bad := base()
	bad.Category = "penthouse"
	if err := env.Rooms.Create(bad); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown category: got %v, want ErrValidation", err)
	}

	bad = base()
	bad.Capacity = 0
	if err := env.Rooms.Create(bad); !errors.Is(err, ErrValidation) {
		t.Fatalf("zero capacity: got %v, want ErrValidation", err)
	}

	bad = base()
	bad.Currency = "Q"
	if err := env.Rooms.Create(bad); !errors.Is(err, ErrValidation) {
		t.Fatalf("short currency: got %v, want ErrValidation", err)
	}

	bad = base()
	bad.BasePrice = decimal.NewFromInt(-10)
	if err := env.Rooms.Create(bad); !errors.Is(err, ErrValidation) {
		t.Fatalf("negative price: got %v, want ErrValidation", err)
	}

	if err := env.Rooms.Create(base()); err != nil {
		t.Fatalf("valid room: %v", err)
	}
	if err := env.Rooms.Create(base()); !errors.Is(err, ErrValidation) {
		t.Fatalf("duplicate room_number: got %v, want ErrValidation", err)
	}
}

func TestCreateRoomOutOfOrderNeedsReason(t *testing.T) {
	env := newTestEnv(t)
	room := &models.Room{
		RoomNumber:   "401",
		Category:     models.CategoryStandard,
		Capacity:     2,
		BasePrice:    decimal.NewFromInt(500),
		Currency:     "GTQ",
		IsActive:     true,
		IsOutOfOrder: true,
	}
	if err := env.Rooms.Create(room); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing reason: got %v, want ErrValidation", err)
	}

	room.OutOfOrderReason = "flood damage"
	if err := env.Rooms.Create(room); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if room.Status != models.RoomOutOfOrder {
		t.Fatalf("status = %q, want out_of_order forced", room.Status)
	}
}

func TestSetStatusStampsHousekeepingDates(t *testing.T) {
	env := newTestEnv(t)
	room := env.seedRoom("101", models.CategoryStandard, 2, 500)

	updated, err := env.Rooms.SetStatus(room.ID, models.RoomCleaning, "deep clean")
	if err != nil {
		t.Fatalf("SetStatus cleaning: %v", err)
	}
	if updated.LastCleaningDate == nil {
		t.Fatal("last_cleaning_date not stamped")
	}

	updated, err = env.Rooms.SetStatus(room.ID, models.RoomMaintenance, "AC filter swap")
	if err != nil {
		t.Fatalf("SetStatus maintenance: %v", err)
	}
	if updated.LastMaintenanceDate == nil {
		t.Fatal("last_maintenance_date not stamped")
	}

	if _, err := env.Rooms.SetStatus(room.ID, "broken", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown status: got %v, want ErrValidation", err)
	}
}

func TestFindAvailableOrdersAndFilters(t *testing.T) {
	env := newTestEnv(t)
	env.seedRoom("301", models.CategorySuite, 4, 1400)
	env.seedRoom("102", models.CategoryStandard, 2, 500)
	env.seedRoom("101", models.CategoryStandard, 2, 500)
	deluxe := env.seedRoom("201", models.CategoryDeluxe, 3, 850)
	occupied := env.seedRoom("103", models.CategoryStandard, 2, 500)
	if _, err := env.Rooms.SetStatus(occupied.ID, models.RoomOccupied, ""); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	inactive := env.seedRoom("104", models.CategoryStandard, 2, 500)
	if err := env.Rooms.Deactivate(inactive.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	rooms, err := env.Rooms.FindAvailable(nil, 0)
	if err != nil {
		t.Fatalf("FindAvailable: %v", err)
	}
	var numbers []string
	for _, room := range rooms {
		numbers = append(numbers, room.RoomNumber)
	}
	want := []string{"101", "102", "201", "301"}
	if len(numbers) != len(want) {
		t.Fatalf("rooms = %v, want %v", numbers, want)
	}
	for i := range want {
		if numbers[i] != want[i] {
			t.Fatalf("rooms = %v, want %v", numbers, want)
		}
	}

	rooms, err = env.Rooms.FindAvailable(nil, 3)
	if err != nil {
		t.Fatalf("FindAvailable capacity filter: %v", err)
	}
	if len(rooms) != 2 || rooms[0].ID != deluxe.ID {
		t.Fatalf("capacity>=3 should return deluxe then suite, got %d rooms", len(rooms))
	}

	category := models.CategoryStandard
	rooms, err = env.Rooms.FindAvailable(&category, 0)
	if err != nil {
		t.Fatalf("FindAvailable category filter: %v", err)
	}
	if len(rooms) != 2 {
		t.Fatalf("standard rooms = %d, want 2", len(rooms))
	}
}

func TestFindReservableKeepsOccupiedRooms(t *testing.T) {
	env := newTestEnv(t)
	occupied := env.seedRoom("101", models.CategoryStandard, 2, 500)
	if _, err := env.Rooms.SetStatus(occupied.ID, models.RoomOccupied, ""); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	maintenance := env.seedRoom("102", models.CategoryStandard, 2, 500)
	if _, err := env.Rooms.SetStatus(maintenance.ID, models.RoomMaintenance, "leaky faucet"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	rooms, err := env.Rooms.FindReservable(nil, 0)
	if err != nil {
		t.Fatalf("FindReservable: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != occupied.ID {
		t.Fatalf("reservable set should keep the occupied room and drop the one in maintenance, got %d rooms", len(rooms))
	}
}

func TestDeactivateIsSoft(t *testing.T) {
	env := newTestEnv(t)
	room := env.seedRoom("101", models.CategoryStandard, 2, 500)

	if err := env.Rooms.Deactivate(room.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	reloaded := env.reloadRoom(room.ID)
	if reloaded.IsActive {
		t.Fatal("room still active after Deactivate")
	}
	if reloaded.Bookable() {
		t.Fatal("inactive room reports bookable")
	}
}
