package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"mariposa-backend/models"
	"mariposa-backend/utils"
)

// Human-facing code prefixes. All share the {prefix}{YY}{MM}{DD}{4 digits}
// shape and the same collision-retry strategy.
const (
	ReservationCodePrefix = "MA"
	InvoiceNumberPrefix   = "INV"
	TicketNumberPrefix    = "TKT"
)

const codeMaxAttempts = 5

// CodeGenerator mints collision-checked human-readable identifiers by
// probing the persistence layer and retrying with a fresh random suffix.
type CodeGenerator struct {
	randDigits func(n int) (string, error)
}

func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{randDigits: utils.RandomDigits}
}

// Generate builds {prefix}{YYMMDD}{4 digits} and retries until taken()
// reports the code free, up to codeMaxAttempts.
func (g *CodeGenerator) Generate(prefix string, date time.Time, taken func(code string) (bool, error)) (string, error) {
	for attempt := 0; attempt < codeMaxAttempts; attempt++ {
		suffix, err := g.randDigits(4)
		if err != nil {
			return "", fmt.Errorf("generate %s code: %w", prefix, err)
		}
		code := prefix + date.Format("060102") + suffix
		exists, err := taken(code)
		if err != nil {
			return "", fmt.Errorf("probe %s code: %w", prefix, err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("generate %s code: no unique suffix after %d attempts", prefix, codeMaxAttempts)
}

// ReservationCode mints a reservation code unique within the given handle.
// Pass the transaction handle when minting inside a create transaction.
func (g *CodeGenerator) ReservationCode(tx *gorm.DB, date time.Time) (string, error) {
	return g.Generate(ReservationCodePrefix, date, func(code string) (bool, error) {
		var count int64
		err := tx.Model(&models.Reservation{}).Where("reservation_code = ?", code).Count(&count).Error
		return count > 0, err
	})
}

func (g *CodeGenerator) InvoiceNumber(tx *gorm.DB, date time.Time) (string, error) {
	return g.Generate(InvoiceNumberPrefix, date, func(code string) (bool, error) {
		var count int64
		err := tx.Model(&models.Invoice{}).Where("invoice_number = ?", code).Count(&count).Error
		return count > 0, err
	})
}

func (g *CodeGenerator) TicketNumber(tx *gorm.DB, date time.Time) (string, error) {
	return g.Generate(TicketNumberPrefix, date, func(code string) (bool, error) {
		var count int64
		err := tx.Model(&models.MaintenanceTicket{}).Where("ticket_number = ?", code).Count(&count).Error
		return count > 0, err
	})
}
