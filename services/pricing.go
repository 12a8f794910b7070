package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"mariposa-backend/models"
)

// TaxRatePercent is the lodging tax applied on top of the room subtotal when
// a reservation is materialized. It is a policy constant of the property's
// jurisdiction, deliberately kept out of Quote itself.
const TaxRatePercent = 12

const dateLayout = "2006-01-02"

// PriceQuote is the transient pricing result for a room/date-range pair.
// It is never persisted; Create freezes it into the reservation snapshot.
type PriceQuote struct {
	Nights          int             `json:"nights"`
	PricePerNight   decimal.Decimal `json:"price_per_night"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	Currency        string          `json:"currency"`
	DiscountPercent int64           `json:"discount_percent"`
}

// ParseDate parses a date-only string ("2006-01-02") into a midnight-UTC
// timestamp.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q: %v", ErrInvalidRange, value, err)
	}
	return t, nil
}

// NormalizeDate truncates a timestamp to its calendar day in UTC. All range
// arithmetic in this package operates on normalized dates.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Nights counts whole nights in the half-open range [checkIn, checkOut).
func Nights(checkIn, checkOut time.Time) int {
	return int(NormalizeDate(checkOut).Sub(NormalizeDate(checkIn)).Hours() / 24)
}

// Quote computes nights and decimal pricing for the given room and range.
// Tax is not applied here; callers add TaxRatePercent when materializing a
// reservation. No rounding happens mid-calculation: amounts are rounded to
// two decimals only at the point of persistence.
func Quote(room *models.Room, checkIn, checkOut time.Time, discountPercent int64) (PriceQuote, error) {
	if room == nil {
		return PriceQuote{}, fmt.Errorf("%w: nil room", ErrValidation)
	}
	if discountPercent < 0 || discountPercent > 100 {
		return PriceQuote{}, fmt.Errorf("%w: discount_percent must be within [0,100]", ErrValidation)
	}

	in := NormalizeDate(checkIn)
	out := NormalizeDate(checkOut)
	if !out.After(in) {
		return PriceQuote{}, fmt.Errorf("%w: check_out must be after check_in", ErrInvalidRange)
	}
	nights := Nights(in, out)
	if nights < 1 {
		return PriceQuote{}, fmt.Errorf("%w: stay must cover at least one night", ErrInvalidRange)
	}

	perNight := room.BasePrice.
		Mul(decimal.NewFromInt(100 - discountPercent)).
		Div(decimal.NewFromInt(100))
	total := perNight.Mul(decimal.NewFromInt(int64(nights)))

	return PriceQuote{
		Nights:          nights,
		PricePerNight:   perNight,
		TotalPrice:      total,
		Currency:        room.Currency,
		DiscountPercent: discountPercent,
	}, nil
}

// TaxOn returns the tax portion for a subtotal at the policy rate.
func TaxOn(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(decimal.NewFromInt(TaxRatePercent)).Div(decimal.NewFromInt(100))
}
