package services

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"mariposa-backend/models"
)

func TestCreateForReservationIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	room := env.seedRoom("101", models.CategoryStandard, 2, 500)
	guest := env.seedGuest("Ana Morales")
	r := env.book(guest.ID, room.ID, "2024-03-01", "2024-03-04")

	first, err := env.Invoices.CreateForReservation(r)
	if err != nil {
		t.Fatalf("CreateForReservation: %v", err)
	}
	if !strings.HasPrefix(first.InvoiceNumber, InvoiceNumberPrefix) {
		t.Fatalf("invoice_number = %q, want %s prefix", first.InvoiceNumber, InvoiceNumberPrefix)
	}
	wantDecimal(t, "subtotal", first.Subtotal, "1500")
	wantDecimal(t, "tax_amount", first.TaxAmount, "180")
	wantDecimal(t, "total_amount", first.TotalAmount, "1680")

	second, err := env.Invoices.CreateForReservation(r)
	if err != nil {
		t.Fatalf("CreateForReservation repeat: %v", err)
	}
	if second.InvoiceNumber != first.InvoiceNumber {
		t.Fatalf("repeat call issued a new invoice: %q vs %q", second.InvoiceNumber, first.InvoiceNumber)
	}
}

func TestInvoiceLineItemsIncludeDiscount(t *testing.T) {
	env := newTestEnv(t)
	room := env.seedRoom("101", models.CategoryStandard, 2, 500)
	guest := env.seedGuest("Ana Morales")
	r, err := env.Reservations.Create(CreateReservationInput{
		GuestID:         guest.ID,
		RoomID:          room.ID,
		CheckIn:         mustDate(t, "2024-03-01"),
		CheckOut:        mustDate(t, "2024-03-04"),
		Adults:          2,
		DiscountPercent: 10,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	invoice, err := env.Invoices.CreateForReservation(r)
	if err != nil {
		t.Fatalf("CreateForReservation: %v", err)
	}

	var lines []invoiceLine
	if err := json.Unmarshal(invoice.LineItems, &lines); err != nil {
		t.Fatalf("unmarshal line items: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("line items = %d, want room + discount + tax", len(lines))
	}
	if lines[1].Description != "Discount" || lines[1].Amount != "-150.00" {
		t.Fatalf("discount line = %+v", lines[1])
	}
}

func TestInvoiceMarkedPaidWhenSettled(t *testing.T) {
	env := newTestEnv(t)
	room := env.seedRoom("101", models.CategoryStandard, 2, 500)
	guest := env.seedGuest("Ana Morales")
	r := env.book(guest.ID, room.ID, "2024-03-01", "2024-03-04")

	if _, err := env.Reservations.AddPayment(r.ID, decimal.NewFromInt(1680), "transfer", "TRX-1"); err != nil {
		t.Fatalf("AddPayment: %v", err)
	}
	settled := env.reloadReservation(r.ID)

	invoice, err := env.Invoices.CreateForReservation(settled)
	if err != nil {
		t.Fatalf("CreateForReservation: %v", err)
	}
	if invoice.Status != models.InvoicePaid {
		t.Fatalf("invoice status = %q, want paid", invoice.Status)
	}
}
