package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mariposa-backend/services"
)

// respondServiceError maps domain errors to HTTP statuses. Guard failures
// are expected outcomes (4xx); anything else is an infrastructure failure.
func respondServiceError(c *gin.Context, err error) {
	var transitionErr *services.TransitionError
	if errors.As(err, &transitionErr) {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   transitionErr.Error(),
			"details": gin.H{
				"reservation_id":   transitionErr.ReservationID,
				"reservation_code": transitionErr.ReservationCode,
				"current_status":   transitionErr.CurrentStatus,
				"attempted_action": transitionErr.Action,
			},
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidRange), errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrDateConflict), errors.Is(err, services.ErrRoomUnavailable):
		status = http.StatusConflict
	case errors.Is(err, services.ErrGuestNotEligible):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrInvalidTransition), errors.Is(err, services.ErrPaymentOverLimit):
		status = http.StatusConflict
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	c.JSON(status, gin.H{"success": false, "error": message})
}
