package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"mariposa-backend/models"
	"mariposa-backend/services"
)

func recordServiceError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondServiceError(c, err)
	return w
}

func TestRespondServiceErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: room 7", services.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: bad date", services.ErrInvalidRange), http.StatusBadRequest},
		{fmt.Errorf("%w: reason required", services.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: room taken", services.ErrDateConflict), http.StatusConflict},
		{fmt.Errorf("%w: room closed", services.ErrRoomUnavailable), http.StatusConflict},
		{fmt.Errorf("%w: fully paid", services.ErrPaymentOverLimit), http.StatusConflict},
		{fmt.Errorf("%w: blacklisted", services.ErrGuestNotEligible), http.StatusForbidden},
		{fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := recordServiceError(t, tc.err).Code; got != tc.want {
			t.Fatalf("%v: status = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestRespondServiceErrorHidesInternals(t *testing.T) {
	w := recordServiceError(t, fmt.Errorf("dial tcp 10.0.0.5:3306: connection refused"))
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["error"] != "internal error" {
		t.Fatalf("error message = %q, want internals hidden", body["error"])
	}
}

func TestRespondServiceErrorTransitionDetails(t *testing.T) {
	err := &services.TransitionError{
		ReservationID:   42,
		ReservationCode: "MA2402150042",
		CurrentStatus:   models.ReservationConfirmed,
		Action:          "check in",
		Reason:          "before check-in date",
	}
	w := recordServiceError(t, err)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}

	var body struct {
		Details struct {
			ReservationCode string `json:"reservation_code"`
			CurrentStatus   string `json:"current_status"`
			AttemptedAction string `json:"attempted_action"`
		} `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.Details.ReservationCode != "MA2402150042" ||
		body.Details.CurrentStatus != "confirmed" ||
		body.Details.AttemptedAction != "check in" {
		t.Fatalf("details = %+v", body.Details)
	}
}
