package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"mariposa-backend/config"
	"mariposa-backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	// A second pooled connection would see its own empty :memory: database.
	sqlDB.SetMaxOpenConns(1)
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test schema: %v", err)
	}
	return db
}

// testEnv wires the full service graph against an in-memory database with a
// controllable clock. Tests move time with advanceTo instead of sleeping.
type testEnv struct {
	t  *testing.T
	db *gorm.DB

	Rooms        *RoomService
	Availability *AvailabilityService
	Guests       *GuestService
	Invoices     *InvoiceService
	Reservations *ReservationService
	Maintenance  *MaintenanceService

	now time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	log := zap.NewNop()
	codes := NewCodeGenerator()

	env := &testEnv{t: t, db: db, now: mustDate(t, "2024-02-15")}
	env.Rooms = NewRoomService(db, log)
	env.Availability = NewAvailabilityService(db, env.Rooms)
	env.Guests = NewGuestService(db, log)
	env.Invoices = NewInvoiceService(db, codes, log)
	env.Reservations = NewReservationService(
		db, env.Rooms, env.Availability, env.Guests, codes, env.Invoices, LogNotifier{Log: log}, log,
	)
	env.Maintenance = NewMaintenanceService(db, env.Rooms, codes, log)

	clock := func() time.Time { return env.now }
	env.Availability.Now = clock
	env.Reservations.Now = clock
	return env
}

func (e *testEnv) advanceTo(date string) {
	e.t.Helper()
	e.now = mustDate(e.t, date)
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := ParseDate(value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return d
}

func (e *testEnv) seedRoom(number string, category models.RoomCategory, capacity int, price int64) *models.Room {
	e.t.Helper()
	room := &models.Room{
		RoomNumber: number,
		Category:   category,
		Floor:      1,
		Capacity:   capacity,
		Beds:       1,
		BasePrice:  decimal.NewFromInt(price),
		Currency:   "GTQ",
		IsActive:   true,
		Status:     models.RoomAvailable,
	}
	if err := e.Rooms.Create(room); err != nil {
		e.t.Fatalf("seed room %s: %v", number, err)
	}
	return room
}

func (e *testEnv) seedGuest(name string) *models.Guest {
	e.t.Helper()
	guest := &models.Guest{FullName: name, Email: "guest@example.com"}
	if err := e.Guests.Create(guest); err != nil {
		e.t.Fatalf("seed guest %s: %v", name, err)
	}
	return guest
}

func (e *testEnv) book(guestID, roomID uint, checkIn, checkOut string) *models.Reservation {
	e.t.Helper()
	r, err := e.Reservations.Create(CreateReservationInput{
		GuestID:  guestID,
		RoomID:   roomID,
		CheckIn:  mustDate(e.t, checkIn),
		CheckOut: mustDate(e.t, checkOut),
		Adults:   2,
	})
	if err != nil {
		e.t.Fatalf("book room %d for %s..%s: %v", roomID, checkIn, checkOut, err)
	}
	return r
}

func (e *testEnv) reloadRoom(id uint) *models.Room {
	e.t.Helper()
	room, err := e.Rooms.Get(id)
	if err != nil {
		e.t.Fatalf("reload room %d: %v", id, err)
	}
	return room
}

func (e *testEnv) reloadReservation(id uint) *models.Reservation {
	e.t.Helper()
	r, err := e.Reservations.GetByID(id)
	if err != nil {
		e.t.Fatalf("reload reservation %d: %v", id, err)
	}
	return r
}

func wantDecimal(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	expected, err := decimal.NewFromString(want)
	if err != nil {
		t.Fatalf("bad expected decimal %q: %v", want, err)
	}
	if !got.Equal(expected) {
		t.Fatalf("%s = %s, want %s", label, got.String(), want)
	}
}
