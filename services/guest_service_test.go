package services

import (
	"errors"
	"testing"

	"mariposa-backend/models"
)

func TestCreateGuestRequiresName(t *testing.T) {
	env := newTestEnv(t)
	if err := env.Guests.Create(&models.Guest{FullName: "  "}); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank name: got %v, want ErrValidation", err)
	}

	guest := &models.Guest{FullName: "  Ana Morales  "}
	if err := env.Guests.Create(guest); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if guest.FullName != "Ana Morales" {
		t.Fatalf("full_name = %q, want trimmed", guest.FullName)
	}
}

func TestSetBlacklistedRequiresReason(t *testing.T) {
	env := newTestEnv(t)
	guest := env.seedGuest("Ana Morales")

	if _, err := env.Guests.SetBlacklisted(guest.ID, true, ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing reason: got %v, want ErrValidation", err)
	}

	flagged, err := env.Guests.SetBlacklisted(guest.ID, true, "chargeback abuse")
	if err != nil {
		t.Fatalf("SetBlacklisted: %v", err)
	}
	if !flagged.IsBlacklisted || flagged.BlacklistReason != "chargeback abuse" {
		t.Fatalf("flagged guest = %+v", flagged)
	}
	if err := env.Guests.CanMakeReservations(flagged); !errors.Is(err, ErrGuestNotEligible) {
		t.Fatalf("eligibility: got %v, want ErrGuestNotEligible", err)
	}

	// Clearing the flag also clears the reason.
	cleared, err := env.Guests.SetBlacklisted(guest.ID, false, "")
	if err != nil {
		t.Fatalf("SetBlacklisted clear: %v", err)
	}
	if cleared.IsBlacklisted || cleared.BlacklistReason != "" {
		t.Fatalf("cleared guest = %+v", cleared)
	}
	if err := env.Guests.CanMakeReservations(cleared); err != nil {
		t.Fatalf("cleared guest should be eligible: %v", err)
	}
}

func TestUpdateGuestPreservesStayStats(t *testing.T) {
	env := newTestEnv(t)
	guest := env.seedGuest("Ana Morales")
	if err := recordStayTx(env.db, guest.ID, 2, 5); err != nil {
		t.Fatalf("recordStayTx: %v", err)
	}

	guest.FullName = "Ana Morales de León"
	guest.StayCount = 0
	guest.TotalNights = 0
	if err := env.Guests.Update(guest); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reloaded, err := env.Guests.Get(guest.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if reloaded.FullName != "Ana Morales de León" {
		t.Fatalf("full_name = %q", reloaded.FullName)
	}
	if reloaded.StayCount != 2 || reloaded.TotalNights != 5 {
		t.Fatalf("stay stats = %d / %d, want 2 / 5 untouched by Update", reloaded.StayCount, reloaded.TotalNights)
	}
}
