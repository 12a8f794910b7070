package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mariposa-backend/models"
)

// Occupancy bounds for a single room reservation.
const (
	maxAdults   = 10
	maxChildren = 10
)

// DefaultHoldWindow is how long a pending reservation holds its room before
// the sweep may release it.
const DefaultHoldWindow = 24 * time.Hour

// ReservationService is the reservation ledger: the single writer of
// reservation status and, through the room service helpers, of room
// operational status. Every lifecycle transition runs inside one transaction
// with the room row locked for the check-then-act sequence.
type ReservationService struct {
	DB           *gorm.DB
	Rooms        *RoomService
	Availability *AvailabilityService
	Guests       *GuestService
	Codes        *CodeGenerator
	Invoices     *InvoiceService
	Notifier     Notifier
	Log          *zap.Logger

	Now        func() time.Time
	HoldWindow time.Duration
}

func NewReservationService(
	db *gorm.DB,
	rooms *RoomService,
	availability *AvailabilityService,
	guests *GuestService,
	codes *CodeGenerator,
	invoices *InvoiceService,
	notifier Notifier,
	log *zap.Logger,
) *ReservationService {
	return &ReservationService{
		DB:           db,
		Rooms:        rooms,
		Availability: availability,
		Guests:       guests,
		Codes:        codes,
		Invoices:     invoices,
		Notifier:     notifier,
		Log:          log,
		Now:          func() time.Time { return time.Now().UTC() },
		HoldWindow:   DefaultHoldWindow,
	}
}

// lockForUpdate adds a row-level lock for the check-then-act sequence.
// sqlite (tests) has a single writer and no FOR UPDATE syntax.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

type CreateReservationInput struct {
	GuestID         uint
	RoomID          uint
	CheckIn         time.Time
	CheckOut        time.Time
	Adults          int
	Children        int
	DiscountPercent int64
	CreatedByID     *uint
}

// Create books a room: availability is re-checked under a room row lock,
// the price quote is frozen into the reservation snapshot, a code is minted,
// and the room flips to occupied as a provisional hold. Everything commits
// atomically or not at all. Create is never retried on failure.
func (s *ReservationService) Create(input CreateReservationInput) (*models.Reservation, error) {
	if input.Adults < 1 || input.Adults > maxAdults {
		return nil, fmt.Errorf("%w: adults must be within [1,%d]", ErrValidation, maxAdults)
	}
	if input.Children < 0 || input.Children > maxChildren {
		return nil, fmt.Errorf("%w: children must be within [0,%d]", ErrValidation, maxChildren)
	}

	in := NormalizeDate(input.CheckIn)
	out := NormalizeDate(input.CheckOut)
	if !out.After(in) {
		return nil, fmt.Errorf("%w: check_out must be after check_in", ErrInvalidRange)
	}
	now := s.Now()
	if in.Before(NormalizeDate(now)) {
		return nil, fmt.Errorf("%w: check_in date is in the past", ErrInvalidRange)
	}

	guest, err := s.Guests.Get(input.GuestID)
	if err != nil {
		return nil, err
	}
	if err := s.Guests.CanMakeReservations(guest); err != nil {
		s.Log.Warn("reservation refused, guest not eligible", zap.Uint("guest_id", guest.ID))
		return nil, err
	}

	var reservation models.Reservation
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := lockForUpdate(tx).First(&room, input.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: room %d", ErrNotFound, input.RoomID)
			}
			return fmt.Errorf("lock room %d: %w", input.RoomID, err)
		}
		if !room.Reservable() {
			return fmt.Errorf("%w: room %s is %s", ErrRoomUnavailable, room.RoomNumber, room.Status)
		}
		conflicts, err := s.Availability.conflictCount(tx, room.ID, in, out, 0)
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return fmt.Errorf("%w: room %s already reserved within %s..%s",
				ErrDateConflict, room.RoomNumber, in.Format(dateLayout), out.Format(dateLayout))
		}

		quote, err := Quote(&room, in, out, input.DiscountPercent)
		if err != nil {
			return err
		}
		// Two-decimal rounding happens here, at the point of persistence.
		subtotal := quote.TotalPrice.Round(2)
		discount := room.BasePrice.
			Mul(decimal.NewFromInt(int64(quote.Nights))).
			Sub(quote.TotalPrice).
			Round(2)
		tax := TaxOn(quote.TotalPrice).Round(2)

		code, err := s.Codes.ReservationCode(tx, now)
		if err != nil {
			return err
		}

		deadline := now.Add(s.HoldWindow)
		reservation = models.Reservation{
			ReservationCode:   code,
			GuestID:           guest.ID,
			RoomID:            room.ID,
			CreatedByID:       input.CreatedByID,
			CheckInDate:       in,
			CheckOutDate:      out,
			Adults:            input.Adults,
			Children:          input.Children,
			Status:            models.ReservationPending,
			BasePricePerNight: quote.PricePerNight.Round(2),
			Nights:            quote.Nights,
			Subtotal:          subtotal,
			DiscountAmount:    discount,
			TaxAmount:         tax,
			TotalAmount:       subtotal.Add(tax),
			Currency:          room.Currency,
			PaymentStatus:     models.PaymentPending,
			PaidAmount:        decimal.Zero,
			PaymentDeadline:   &deadline,
		}
		if err := tx.Create(&reservation).Error; err != nil {
			return fmt.Errorf("create reservation: %w", err)
		}

		// Provisional hold: the room leaves the bookable pool immediately,
		// before confirmation.
		return setRoomStatusTx(tx, room.ID, models.RoomOccupied, "")
	})
	if txErr != nil {
		return nil, txErr
	}

	s.Log.Info("reservation created",
		zap.String("reservation_code", reservation.ReservationCode),
		zap.Uint("room_id", reservation.RoomID),
		zap.Uint("guest_id", reservation.GuestID),
		zap.String("total_amount", reservation.TotalAmount.StringFixed(2)),
	)
	return s.GetByID(reservation.ID)
}

// loadForUpdate re-reads the reservation under lock so guards evaluate the
// committed status, not a stale read (last-committer-wins with guard recheck).
func (s *ReservationService) loadForUpdate(tx *gorm.DB, id uint) (*models.Reservation, error) {
	var r models.Reservation
	if err := lockForUpdate(tx).First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: reservation %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("lock reservation %d: %w", id, err)
	}
	return &r, nil
}

// Confirm moves a pending reservation to confirmed.
func (s *ReservationService) Confirm(id uint, staffID *uint) (*models.Reservation, error) {
	now := s.Now()
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		r, err := s.loadForUpdate(tx, id)
		if err != nil {
			return err
		}
		if r.Status != models.ReservationPending {
			return newTransitionError(r, "confirm", "")
		}
		return tx.Model(r).Updates(map[string]interface{}{
			"status":          models.ReservationConfirmed,
			"confirmed_at":    now,
			"confirmed_by_id": staffID,
		}).Error
	})
	if txErr != nil {
		s.warnGuard("confirm", id, txErr)
		return nil, txErr
	}
	reservation, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	s.notify(EventReservationConfirmed, reservation)
	return reservation, nil
}

// CheckIn admits the guest: allowed from confirmed, on or after the check-in
// date. The room stays occupied, now for real rather than as a hold.
func (s *ReservationService) CheckIn(id uint, staffID *uint) (*models.Reservation, error) {
	now := s.Now()
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		r, err := s.loadForUpdate(tx, id)
		if err != nil {
			return err
		}
		if r.Status != models.ReservationConfirmed {
			return newTransitionError(r, "check in", "")
		}
		if NormalizeDate(now).Before(NormalizeDate(r.CheckInDate)) {
			return newTransitionError(r, "check in", "before check-in date")
		}
		if err := tx.Model(r).Updates(map[string]interface{}{
			"status":          models.ReservationCheckedIn,
			"actual_check_in": now,
		}).Error; err != nil {
			return err
		}
		if err := setRoomStatusTx(tx, r.RoomID, models.RoomOccupied, ""); err != nil {
			return err
		}
		return recordStayTx(tx, r.GuestID, 1, 0)
	})
	if txErr != nil {
		s.warnGuard("check in", id, txErr)
		return nil, txErr
	}
	reservation, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	s.notify(EventGuestCheckedIn, reservation)
	return reservation, nil
}

// CheckOut releases the guest; the room goes to cleaning. An invoice is
// generated best-effort after commit and never blocks the transition.
func (s *ReservationService) CheckOut(id uint) (*models.Reservation, error) {
	now := s.Now()
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		r, err := s.loadForUpdate(tx, id)
		if err != nil {
			return err
		}
		if r.Status != models.ReservationCheckedIn {
			return newTransitionError(r, "check out", "")
		}
		if r.PaidAmount.LessThan(r.TotalAmount) {
			s.Log.Warn("checking out with outstanding balance",
				zap.String("reservation_code", r.ReservationCode),
				zap.String("paid_amount", r.PaidAmount.StringFixed(2)),
				zap.String("total_amount", r.TotalAmount.StringFixed(2)),
			)
		}
		if err := tx.Model(r).Updates(map[string]interface{}{
			"status":           models.ReservationCheckedOut,
			"actual_check_out": now,
		}).Error; err != nil {
			return err
		}
		if err := setRoomStatusTx(tx, r.RoomID, models.RoomCleaning, "post-checkout cleaning"); err != nil {
			return err
		}
		return recordStayTx(tx, r.GuestID, 0, r.Nights)
	})
	if txErr != nil {
		s.warnGuard("check out", id, txErr)
		return nil, txErr
	}
	reservation, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s.Invoices != nil {
		if _, invErr := s.Invoices.CreateForReservation(reservation); invErr != nil {
			s.Log.Error("invoice generation failed after check-out",
				zap.String("reservation_code", reservation.ReservationCode),
				zap.Error(invErr),
			)
		}
	}
	return reservation, nil
}

// Cancel is reachable from pending and confirmed only and always requires a
// reason. A paid reservation leaves a refund obligation for external
// processing; the obligation is logged here, never executed.
func (s *ReservationService) Cancel(id uint, staffID *uint, reason string) (*models.Reservation, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: cancellation reason is required", ErrValidation)
	}
	now := s.Now()
	var refundDue decimal.Decimal
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		r, err := s.loadForUpdate(tx, id)
		if err != nil {
			return err
		}
		if r.Status != models.ReservationPending && r.Status != models.ReservationConfirmed {
			return newTransitionError(r, "cancel", "")
		}
		if err := tx.Model(r).Updates(map[string]interface{}{
			"status":              models.ReservationCancelled,
			"cancelled_at":        now,
			"cancelled_by_id":     staffID,
			"cancellation_reason": strings.TrimSpace(reason),
		}).Error; err != nil {
			return err
		}
		refundDue = r.PaidAmount
		return s.releaseRoomTx(tx, r)
	})
	if txErr != nil {
		s.warnGuard("cancel", id, txErr)
		return nil, txErr
	}
	reservation, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if refundDue.IsPositive() {
		s.Log.Warn("refund obligation flagged for external processing",
			zap.String("reservation_code", reservation.ReservationCode),
			zap.String("refund_amount", refundDue.StringFixed(2)),
			zap.String("currency", reservation.Currency),
		)
	}
	s.notify(EventReservationCancelled, reservation)
	return reservation, nil
}

// releaseRoomTx returns the room to available unless another active
// reservation still holds it.
func (s *ReservationService) releaseRoomTx(tx *gorm.DB, r *models.Reservation) error {
	var holders int64
	err := tx.Model(&models.Reservation{}).
		Where("room_id = ? AND id <> ?", r.RoomID, r.ID).
		Where(s.Availability.holdScope(s.Now())).
		Count(&holders).Error
	if err != nil {
		return fmt.Errorf("count remaining holds on room %d: %w", r.RoomID, err)
	}
	if holders > 0 {
		return nil
	}
	return setRoomStatusTx(tx, r.RoomID, models.RoomAvailable, "")
}

// AddPayment records a payment against the reservation. paid_amount is
// monotone and clamped at total_amount; payment_status is recomputed from
// the new balance. Paying an already settled reservation is refused.
func (s *ReservationService) AddPayment(id uint, amount decimal.Decimal, method, reference string) (*models.Reservation, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrValidation)
	}
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		r, err := s.loadForUpdate(tx, id)
		if err != nil {
			return err
		}
		if r.PaidAmount.GreaterThanOrEqual(r.TotalAmount) {
			return fmt.Errorf("%w: reservation %s is fully paid", ErrPaymentOverLimit, r.ReservationCode)
		}

		applied := amount.Round(2)
		newPaid := r.PaidAmount.Add(applied)
		if newPaid.GreaterThan(r.TotalAmount) {
			applied = r.TotalAmount.Sub(r.PaidAmount)
			newPaid = r.TotalAmount
		}

		status := models.PaymentPartial
		if newPaid.Equal(r.TotalAmount) {
			status = models.PaymentCompleted
		}

		payment := models.Payment{
			ReservationID: r.ID,
			Amount:        applied,
			Currency:      r.Currency,
			Method:        method,
			Reference:     reference,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("record payment: %w", err)
		}
		return tx.Model(r).Updates(map[string]interface{}{
			"paid_amount":    newPaid,
			"payment_status": status,
		}).Error
	})
	if txErr != nil {
		s.warnGuard("add payment", id, txErr)
		return nil, txErr
	}
	return s.GetByID(id)
}

// ExpireIfOverdue releases a pending reservation whose payment deadline has
// passed. Idempotent: safe to call any number of times, from the sweep or
// directly.
func (s *ReservationService) ExpireIfOverdue(id uint) (bool, error) {
	now := s.Now()
	expired := false
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		r, err := s.loadForUpdate(tx, id)
		if err != nil {
			return err
		}
		if r.Status != models.ReservationPending {
			return nil
		}
		if r.PaymentDeadline == nil || r.PaymentDeadline.After(now) {
			return nil
		}
		if err := tx.Model(r).Updates(map[string]interface{}{
			"status":              models.ReservationCancelled,
			"cancelled_at":        now,
			"cancellation_reason": "payment hold expired",
		}).Error; err != nil {
			return err
		}
		expired = true
		return s.releaseRoomTx(tx, r)
	})
	if txErr != nil {
		return false, txErr
	}
	if expired {
		s.Log.Info("pending reservation expired", zap.Uint("reservation_id", id))
	}
	return expired, nil
}

// ExpireOverdueHolds sweeps all overdue pending holds. Retried freely at the
// transaction boundary because each release is idempotent.
func (s *ReservationService) ExpireOverdueHolds() (int, error) {
	now := s.Now()
	var ids []uint
	err := s.DB.Model(&models.Reservation{}).
		Where("status = ? AND payment_deadline IS NOT NULL AND payment_deadline <= ?",
			models.ReservationPending, now).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, fmt.Errorf("list overdue holds: %w", err)
	}
	released := 0
	for _, id := range ids {
		ok, err := s.ExpireIfOverdue(id)
		if err != nil {
			s.Log.Error("expire overdue hold failed", zap.Uint("reservation_id", id), zap.Error(err))
			continue
		}
		if ok {
			released++
		}
	}
	return released, nil
}

// MarkNoShows moves pending reservations whose check-in date passed without
// an actual check-in to the terminal no_show state and releases their rooms.
func (s *ReservationService) MarkNoShows() (int, error) {
	now := s.Now()
	today := NormalizeDate(now)
	var ids []uint
	err := s.DB.Model(&models.Reservation{}).
		Where("status = ? AND check_in_date < ? AND actual_check_in IS NULL",
			models.ReservationPending, today).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, fmt.Errorf("list no-show candidates: %w", err)
	}
	marked := 0
	for _, id := range ids {
		txErr := s.DB.Transaction(func(tx *gorm.DB) error {
			r, err := s.loadForUpdate(tx, id)
			if err != nil {
				return err
			}
			if r.Status != models.ReservationPending || r.ActualCheckIn != nil {
				return nil
			}
			if !NormalizeDate(r.CheckInDate).Before(today) {
				return nil
			}
			if err := tx.Model(r).Update("status", models.ReservationNoShow).Error; err != nil {
				return err
			}
			marked++
			return s.releaseRoomTx(tx, r)
		})
		if txErr != nil {
			s.Log.Error("mark no-show failed", zap.Uint("reservation_id", id), zap.Error(txErr))
		}
	}
	if marked > 0 {
		s.Log.Info("no-show sweep", zap.Int("marked", marked))
	}
	return marked, nil
}

func (s *ReservationService) GetByID(id uint) (*models.Reservation, error) {
	var r models.Reservation
	if err := s.DB.Preload("Room").Preload("Guest").First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: reservation %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("load reservation %d: %w", id, err)
	}
	return &r, nil
}

func (s *ReservationService) GetByCode(code string) (*models.Reservation, error) {
	var r models.Reservation
	err := s.DB.Preload("Room").Preload("Guest").
		Where("reservation_code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: reservation %q", ErrNotFound, code)
		}
		return nil, fmt.Errorf("load reservation %q: %w", code, err)
	}
	return &r, nil
}

func (s *ReservationService) List() ([]models.Reservation, error) {
	var list []models.Reservation
	err := s.DB.Preload("Room").Preload("Guest").
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return list, nil
}

// notify publishes a lifecycle event best-effort. Delivery failures are
// logged and never propagate to the caller.
func (s *ReservationService) notify(eventType string, r *models.Reservation) {
	if s.Notifier == nil {
		return
	}
	event := ReservationEvent{
		EventID:         newEventID(),
		Type:            eventType,
		ReservationCode: r.ReservationCode,
		GuestEmail:      r.Guest.Email,
		RoomNumber:      r.Room.RoomNumber,
		CheckInDate:     r.CheckInDate.Format(dateLayout),
		CheckOutDate:    r.CheckOutDate.Format(dateLayout),
		TotalAmount:     r.TotalAmount.StringFixed(2),
		Currency:        r.Currency,
		OccurredAt:      s.Now(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Notifier.Publish(ctx, event); err != nil {
		s.Log.Warn("notification publish failed",
			zap.String("type", eventType),
			zap.String("reservation_code", r.ReservationCode),
			zap.Error(err),
		)
	}
}

// warnGuard logs expected guard rejections at warn; infrastructure errors
// are left to the caller.
func (s *ReservationService) warnGuard(action string, id uint, err error) {
	switch {
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrDateConflict),
		errors.Is(err, ErrRoomUnavailable),
		errors.Is(err, ErrPaymentOverLimit),
		errors.Is(err, ErrValidation):
		s.Log.Warn("reservation guard rejected",
			zap.String("action", action),
			zap.Uint("reservation_id", id),
			zap.Error(err),
		)
	}
}
