package services

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"mariposa-backend/models"
)

type GuestService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewGuestService(db *gorm.DB, log *zap.Logger) *GuestService {
	return &GuestService{DB: db, Log: log}
}

func (s *GuestService) Get(id uint) (*models.Guest, error) {
	var guest models.Guest
	if err := s.DB.First(&guest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: guest %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("load guest %d: %w", id, err)
	}
	return &guest, nil
}

func (s *GuestService) GetAll() ([]models.Guest, error) {
	var guests []models.Guest
	if err := s.DB.Order("full_name").Find(&guests).Error; err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}
	return guests, nil
}

func (s *GuestService) Create(guest *models.Guest) error {
	guest.FullName = strings.TrimSpace(guest.FullName)
	if guest.FullName == "" {
		return fmt.Errorf("%w: full_name is required", ErrValidation)
	}
	if err := s.DB.Create(guest).Error; err != nil {
		return fmt.Errorf("create guest: %w", err)
	}
	return nil
}

func (s *GuestService) Update(guest *models.Guest) error {
	if _, err := s.Get(guest.ID); err != nil {
		return err
	}
	guest.FullName = strings.TrimSpace(guest.FullName)
	if guest.FullName == "" {
		return fmt.Errorf("%w: full_name is required", ErrValidation)
	}
	if err := s.DB.Model(&models.Guest{}).Where("id = ?", guest.ID).
		Select("*").Omit("id", "created_at", "deleted_at", "stay_count", "total_nights").
		Updates(guest).Error; err != nil {
		return fmt.Errorf("update guest %d: %w", guest.ID, err)
	}
	return nil
}

// SetBlacklisted flags or clears a guest. A non-empty reason is required
// when flagging.
func (s *GuestService) SetBlacklisted(id uint, blacklisted bool, reason string) (*models.Guest, error) {
	guest, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if blacklisted && strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: blacklist_reason is required", ErrValidation)
	}
	if !blacklisted {
		reason = ""
	}
	if err := s.DB.Model(guest).Updates(map[string]interface{}{
		"is_blacklisted":   blacklisted,
		"blacklist_reason": reason,
	}).Error; err != nil {
		return nil, fmt.Errorf("update guest %d blacklist: %w", id, err)
	}
	s.Log.Warn("guest blacklist changed",
		zap.Uint("guest_id", id),
		zap.Bool("blacklisted", blacklisted),
	)
	return s.Get(id)
}

// CanMakeReservations is the eligibility gate the ledger consults before
// creating a reservation.
func (s *GuestService) CanMakeReservations(guest *models.Guest) error {
	if guest.IsBlacklisted {
		return fmt.Errorf("%w: guest %d is blacklisted", ErrGuestNotEligible, guest.ID)
	}
	return nil
}

// recordStayTx bumps stay stats inside the ledger's transaction.
func recordStayTx(tx *gorm.DB, guestID uint, stays, nights int) error {
	updates := map[string]interface{}{}
	if stays != 0 {
		updates["stay_count"] = gorm.Expr("stay_count + ?", stays)
	}
	if nights != 0 {
		updates["total_nights"] = gorm.Expr("total_nights + ?", nights)
	}
	if len(updates) == 0 {
		return nil
	}
	if err := tx.Model(&models.Guest{}).Where("id = ?", guestID).Updates(updates).Error; err != nil {
		return fmt.Errorf("update guest %d stay stats: %w", guestID, err)
	}
	return nil
}
