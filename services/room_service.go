package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"mariposa-backend/models"
)

// RoomService owns room inventory reads and writes. Operational status is
// mutated here and only here; the reservation ledger and maintenance flow
// call in rather than touching rooms directly.
type RoomService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewRoomService(db *gorm.DB, log *zap.Logger) *RoomService {
	return &RoomService{DB: db, Log: log}
}

func (s *RoomService) Get(id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: room %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("load room %d: %w", id, err)
	}
	return &room, nil
}

func (s *RoomService) GetByNumber(number string) (*models.Room, error) {
	var room models.Room
	normalized := models.NormalizeRoomNumber(number)
	if err := s.DB.Where("room_number = ?", normalized).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: room %q", ErrNotFound, normalized)
		}
		return nil, fmt.Errorf("load room %q: %w", normalized, err)
	}
	return &room, nil
}

func (s *RoomService) GetAll() ([]models.Room, error) {
	var rooms []models.Room
	if err := s.DB.Order("room_number").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

func validateRoom(room *models.Room) error {
	room.RoomNumber = models.NormalizeRoomNumber(room.RoomNumber)
	if room.RoomNumber == "" {
		return fmt.Errorf("%w: room_number is required", ErrValidation)
	}
	if !room.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, room.Category)
	}
	if room.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be at least 1", ErrValidation)
	}
	if room.BasePrice.IsNegative() {
		return fmt.Errorf("%w: base_price must not be negative", ErrValidation)
	}
	if len(room.Currency) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter code", ErrValidation)
	}
	room.Currency = strings.ToUpper(room.Currency)
	if room.IsOutOfOrder && strings.TrimSpace(room.OutOfOrderReason) == "" {
		return fmt.Errorf("%w: out_of_order_reason is required for an out-of-order room", ErrValidation)
	}
	// is_out_of_order forces the operational status.
	if room.IsOutOfOrder {
		room.Status = models.RoomOutOfOrder
	}
	return nil
}

func (s *RoomService) Create(room *models.Room) error {
	if room.Status == "" {
		room.Status = models.RoomAvailable
	}
	if !room.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, room.Status)
	}
	if err := validateRoom(room); err != nil {
		return err
	}
	if err := s.DB.Create(room).Error; err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("%w: room_number %q already exists", ErrValidation, room.RoomNumber)
		}
		return fmt.Errorf("create room: %w", err)
	}
	s.Log.Info("room created", zap.Uint("room_id", room.ID), zap.String("room_number", room.RoomNumber))
	return nil
}

func (s *RoomService) Update(room *models.Room) error {
	if _, err := s.Get(room.ID); err != nil {
		return err
	}
	if !room.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, room.Status)
	}
	if err := validateRoom(room); err != nil {
		return err
	}
	if err := s.DB.Model(&models.Room{}).Where("id = ?", room.ID).
		Select("*").Omit("id", "created_at", "deleted_at").
		Updates(room).Error; err != nil {
		return fmt.Errorf("update room %d: %w", room.ID, err)
	}
	return nil
}

// Deactivate soft-removes a room from the sellable pool. Rooms are never
// hard-deleted.
func (s *RoomService) Deactivate(id uint) error {
	room, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.DB.Model(room).Update("is_active", false).Error; err != nil {
		return fmt.Errorf("deactivate room %d: %w", id, err)
	}
	s.Log.Info("room deactivated", zap.Uint("room_id", id))
	return nil
}

// SetStatus writes the operational status. It is always legal to call: the
// ledger enforces lifecycle rules before getting here. Cleaning/maintenance
// transitions with notes also stamp the respective bookkeeping dates.
func (s *RoomService) SetStatus(id uint, status models.RoomStatus, notes string) (*models.Room, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	if err := setRoomStatusTx(s.DB, id, status, notes); err != nil {
		return nil, err
	}
	s.Log.Info("room status changed",
		zap.Uint("room_id", id),
		zap.String("status", string(status)),
	)
	return s.Get(id)
}

// setRoomStatusTx is the shared status writer. The reservation ledger calls
// it with its own transaction handle so the flip commits atomically with the
// reservation row.
func setRoomStatusTx(tx *gorm.DB, roomID uint, status models.RoomStatus, notes string) error {
	updates := map[string]interface{}{"status": status}
	now := time.Now().UTC()
	if notes != "" {
		switch status {
		case models.RoomCleaning:
			updates["last_cleaning_date"] = now
		case models.RoomMaintenance:
			updates["last_maintenance_date"] = now
		}
	}
	if err := tx.Model(&models.Room{}).Where("id = ?", roomID).Updates(updates).Error; err != nil {
		return fmt.Errorf("update room %d status: %w", roomID, err)
	}
	return nil
}

// FindAvailable returns bookable rooms matching the filters, ordered by
// category rank then room number so search results are reproducible.
func (s *RoomService) FindAvailable(category *models.RoomCategory, minCapacity int) ([]models.Room, error) {
	q := s.DB.Where("status = ? AND is_active = ? AND is_out_of_order = ?",
		models.RoomAvailable, true, false)
	if category != nil {
		if !category.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, *category)
		}
		q = q.Where("category = ?", *category)
	}
	if minCapacity > 0 {
		q = q.Where("capacity >= ?", minCapacity)
	}

	var rooms []models.Room
	if err := q.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("find available rooms: %w", err)
	}
	sortRoomsForSearch(rooms)
	return rooms, nil
}

// FindReservable returns rooms that can accept reservations for some date
// range. Unlike FindAvailable, rooms currently occupied or being cleaned stay
// in the set: whether a particular range is free is the availability
// checker's call, not the inventory's.
func (s *RoomService) FindReservable(category *models.RoomCategory, minCapacity int) ([]models.Room, error) {
	q := s.DB.Where("is_active = ? AND is_out_of_order = ?", true, false).
		Where("status NOT IN ?", []models.RoomStatus{models.RoomMaintenance, models.RoomOutOfOrder})
	if category != nil {
		if !category.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, *category)
		}
		q = q.Where("category = ?", *category)
	}
	if minCapacity > 0 {
		q = q.Where("capacity >= ?", minCapacity)
	}

	var rooms []models.Room
	if err := q.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("find reservable rooms: %w", err)
	}
	sortRoomsForSearch(rooms)
	return rooms, nil
}

func sortRoomsForSearch(rooms []models.Room) {
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].Category.Rank() != rooms[j].Category.Rank() {
			return rooms[i].Category.Rank() < rooms[j].Category.Rank()
		}
		return rooms[i].RoomNumber < rooms[j].RoomNumber
	})
}
