package services

import (
	"errors"
	"fmt"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"

	"mariposa-backend/models"
)

// Domain-level error values. Guard failures are expected outcomes and are
// returned as typed results, never panics; only persistence failures are
// surfaced as infrastructure errors.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidRange      = errors.New("invalid date range")
	ErrRoomUnavailable   = errors.New("room unavailable")
	ErrDateConflict      = errors.New("date conflict")
	ErrGuestNotEligible  = errors.New("guest not eligible")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrPaymentOverLimit  = errors.New("payment exceeds total amount")
	ErrValidation        = errors.New("validation failed")
)

// TransitionError carries enough context to render an actionable message:
// which reservation, its current status, and the action that was refused.
type TransitionError struct {
	ReservationID   uint
	ReservationCode string
	CurrentStatus   models.ReservationStatus
	Action          string
	Reason          string
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("reservation %s (id=%d): cannot %s while %s",
		e.ReservationCode, e.ReservationID, e.Action, e.CurrentStatus)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

func newTransitionError(r *models.Reservation, action, reason string) error {
	return &TransitionError{
		ReservationID:   r.ID,
		ReservationCode: r.ReservationCode,
		CurrentStatus:   r.Status,
		Action:          action,
		Reason:          reason,
	}
}

// isDuplicateEntry detects a unique-constraint violation across the drivers
// we run on (MySQL error 1062 in production, sqlite in tests).
func isDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique constraint")
}
