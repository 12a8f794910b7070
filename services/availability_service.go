package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"mariposa-backend/models"
)

// AvailabilityService answers "can this room be booked for this range".
// It reads rooms and the reservation ledger; it never writes.
type AvailabilityService struct {
	DB    *gorm.DB
	Rooms *RoomService
	Now   func() time.Time
}

func NewAvailabilityService(db *gorm.DB, rooms *RoomService) *AvailabilityService {
	return &AvailabilityService{DB: db, Rooms: rooms, Now: func() time.Time { return time.Now().UTC() }}
}

// holdScope selects reservations that block a room: confirmed and checked-in
// always; pending only while its payment deadline is still running. This is
// the one place that knows which statuses hold a room.
func (s *AvailabilityService) holdScope(now time.Time) *gorm.DB {
	return s.DB.
		Where("status IN ?", []models.ReservationStatus{models.ReservationConfirmed, models.ReservationCheckedIn}).
		Or("status = ? AND (payment_deadline IS NULL OR payment_deadline > ?)", models.ReservationPending, now)
}

// conflictCount counts blocking reservations overlapping the half-open range
// [in, out) on one room. Two ranges [a,b) and [c,d) overlap iff a < d && c < b,
// so back-to-back stays (checkout day == next checkin day) never collide.
// Runs on the supplied handle so the ledger can call it under its row lock.
func (s *AvailabilityService) conflictCount(tx *gorm.DB, roomID uint, in, out time.Time, excludeID uint) (int64, error) {
	q := tx.Model(&models.Reservation{}).
		Where("room_id = ?", roomID).
		Where("check_in_date < ? AND ? < check_out_date", out, in).
		Where(s.holdScope(s.Now()))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count conflicting reservations for room %d: %w", roomID, err)
	}
	return count, nil
}

// CheckAvailability reports whether the room can be booked for [in, out).
// Returns nil when bookable, ErrRoomUnavailable when the room itself is not
// sellable, ErrDateConflict when an active reservation overlaps.
func (s *AvailabilityService) CheckAvailability(roomID uint, checkIn, checkOut time.Time) error {
	in := NormalizeDate(checkIn)
	out := NormalizeDate(checkOut)
	if !out.After(in) {
		return fmt.Errorf("%w: check_out must be after check_in", ErrInvalidRange)
	}

	room, err := s.Rooms.Get(roomID)
	if err != nil {
		return err
	}
	if !room.Reservable() {
		return fmt.Errorf("%w: room %s is %s", ErrRoomUnavailable, room.RoomNumber, room.Status)
	}

	conflicts, err := s.conflictCount(s.DB, roomID, in, out, 0)
	if err != nil {
		return err
	}
	if conflicts > 0 {
		return fmt.Errorf("%w: room %s already reserved within %s..%s",
			ErrDateConflict, room.RoomNumber, in.Format(dateLayout), out.Format(dateLayout))
	}
	return nil
}

// FindAvailableRooms filters the reservable inventory down to rooms with no
// conflicting reservation in [in, out), reusing the same overlap predicate.
func (s *AvailabilityService) FindAvailableRooms(checkIn, checkOut time.Time, category *models.RoomCategory, minCapacity int) ([]models.Room, error) {
	in := NormalizeDate(checkIn)
	out := NormalizeDate(checkOut)
	if !out.After(in) {
		return nil, fmt.Errorf("%w: check_out must be after check_in", ErrInvalidRange)
	}

	rooms, err := s.Rooms.FindReservable(category, minCapacity)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return rooms, nil
	}

	roomIDs := make([]uint, 0, len(rooms))
	for _, room := range rooms {
		roomIDs = append(roomIDs, room.ID)
	}

	var conflictingIDs []uint
	err = s.DB.Model(&models.Reservation{}).
		Distinct("room_id").
		Where("room_id IN ?", roomIDs).
		Where("check_in_date < ? AND ? < check_out_date", out, in).
		Where(s.holdScope(s.Now())).
		Pluck("room_id", &conflictingIDs).Error
	if err != nil {
		return nil, fmt.Errorf("find conflicting rooms: %w", err)
	}

	blocked := make(map[uint]bool, len(conflictingIDs))
	for _, id := range conflictingIDs {
		blocked[id] = true
	}

	free := rooms[:0]
	for _, room := range rooms {
		if !blocked[room.ID] {
			free = append(free, room)
		}
	}
	return free, nil
}
