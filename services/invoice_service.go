package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"mariposa-backend/models"
)

type InvoiceService struct {
	DB    *gorm.DB
	Codes *CodeGenerator
	Log   *zap.Logger
}

func NewInvoiceService(db *gorm.DB, codes *CodeGenerator, log *zap.Logger) *InvoiceService {
	return &InvoiceService{DB: db, Codes: codes, Log: log}
}

type invoiceLine struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

// CreateForReservation materializes an invoice from the reservation's frozen
// pricing snapshot. Called at check-out; idempotent per reservation.
func (s *InvoiceService) CreateForReservation(r *models.Reservation) (*models.Invoice, error) {
	var existing models.Invoice
	err := s.DB.Where("reservation_id = ?", r.ID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check existing invoice for reservation %d: %w", r.ID, err)
	}

	now := time.Now().UTC()
	number, err := s.Codes.InvoiceNumber(s.DB, now)
	if err != nil {
		return nil, err
	}

	roomNumber := r.Room.RoomNumber
	if roomNumber == "" {
		roomNumber = fmt.Sprintf("#%d", r.RoomID)
	}
	lines := []invoiceLine{
		{
			Description: fmt.Sprintf("Room %s, %d night(s) @ %s %s",
				roomNumber, r.Nights, r.BasePricePerNight.StringFixed(2), r.Currency),
			Amount: r.Subtotal.StringFixed(2),
		},
	}
	if r.DiscountAmount.IsPositive() {
		lines = append(lines, invoiceLine{
			Description: "Discount",
			Amount:      r.DiscountAmount.Neg().StringFixed(2),
		})
	}
	lines = append(lines, invoiceLine{
		Description: fmt.Sprintf("Lodging tax %d%%", TaxRatePercent),
		Amount:      r.TaxAmount.StringFixed(2),
	})

	lineJSON, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("marshal invoice lines: %w", err)
	}

	status := models.InvoiceIssued
	if r.PaymentStatus == models.PaymentCompleted {
		status = models.InvoicePaid
	}
	invoice := models.Invoice{
		InvoiceNumber: number,
		ReservationID: r.ID,
		GuestID:       r.GuestID,
		Subtotal:      r.Subtotal,
		TaxAmount:     r.TaxAmount,
		TotalAmount:   r.TotalAmount,
		Currency:      r.Currency,
		Status:        status,
		LineItems:     datatypes.JSON(lineJSON),
		IssuedAt:      now,
	}
	if err := s.DB.Create(&invoice).Error; err != nil {
		return nil, fmt.Errorf("create invoice for reservation %d: %w", r.ID, err)
	}
	s.Log.Info("invoice issued",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("reservation_code", r.ReservationCode),
		zap.String("total_amount", invoice.TotalAmount.StringFixed(2)),
	)
	return &invoice, nil
}

func (s *InvoiceService) GetByReservation(reservationID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.DB.Where("reservation_id = ?", reservationID).First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invoice for reservation %d", ErrNotFound, reservationID)
		}
		return nil, fmt.Errorf("load invoice for reservation %d: %w", reservationID, err)
	}
	return &invoice, nil
}
