package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"mariposa-backend/services"
	"mariposa-backend/utils"
)

type ReservationController struct {
	Reservations *services.ReservationService
}

func NewReservationController(reservations *services.ReservationService) *ReservationController {
	return &ReservationController{Reservations: reservations}
}

type createReservationPayload struct {
	GuestID         uint   `json:"guest_id" binding:"required"`
	RoomID          uint   `json:"room_id" binding:"required"`
	CheckInDate     string `json:"check_in_date" binding:"required"`
	CheckOutDate    string `json:"check_out_date" binding:"required"`
	Adults          int    `json:"adults"`
	Children        int    `json:"children"`
	DiscountPercent int64  `json:"discount_percent"`
	CreatedByID     *uint  `json:"created_by_id"`
}

// POST /api/reservations
func (ctrl *ReservationController) CreateReservation(c *gin.Context) {
	var payload createReservationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	checkIn, err := services.ParseDate(payload.CheckInDate)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	checkOut, err := services.ParseDate(payload.CheckOutDate)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if payload.Adults == 0 {
		payload.Adults = 1
	}

	reservation, err := ctrl.Reservations.Create(services.CreateReservationInput{
		GuestID:         payload.GuestID,
		RoomID:          payload.RoomID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Adults:          payload.Adults,
		Children:        payload.Children,
		DiscountPercent: payload.DiscountPercent,
		CreatedByID:     payload.CreatedByID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, reservation)
}

// GET /api/reservations
func (ctrl *ReservationController) GetReservations(c *gin.Context) {
	list, err := ctrl.Reservations.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// GET /api/reservations/:id
func (ctrl *ReservationController) GetReservation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	reservation, err := ctrl.Reservations.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservation)
}

// GET /api/reservations/code/:code
func (ctrl *ReservationController) GetReservationByCode(c *gin.Context) {
	reservation, err := ctrl.Reservations.GetByCode(c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservation)
}

type staffActionPayload struct {
	StaffID *uint `json:"staff_id"`
}

// POST /api/reservations/:id/confirm
func (ctrl *ReservationController) ConfirmReservation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var payload staffActionPayload
	_ = c.ShouldBindJSON(&payload)

	reservation, err := ctrl.Reservations.Confirm(id, payload.StaffID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservation)
}

// POST /api/reservations/:id/check-in
func (ctrl *ReservationController) CheckIn(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var payload staffActionPayload
	_ = c.ShouldBindJSON(&payload)

	reservation, err := ctrl.Reservations.CheckIn(id, payload.StaffID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservation)
}

// POST /api/reservations/:id/check-out
func (ctrl *ReservationController) CheckOut(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	reservation, err := ctrl.Reservations.CheckOut(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservation)
}

type cancelPayload struct {
	Reason  string `json:"reason" binding:"required"`
	StaffID *uint  `json:"staff_id"`
}

// POST /api/reservations/:id/cancel
func (ctrl *ReservationController) CancelReservation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var payload cancelPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "cancellation reason is required")
		return
	}
	reservation, err := ctrl.Reservations.Cancel(id, payload.StaffID, payload.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservation)
}

type paymentPayload struct {
	Amount    string `json:"amount" binding:"required"`
	Method    string `json:"method" binding:"required"`
	Reference string `json:"reference"`
}

// POST /api/reservations/:id/payments
func (ctrl *ReservationController) AddPayment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var payload paymentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "amount and method are required")
		return
	}
	amount, err := decimal.NewFromString(payload.Amount)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "amount must be a decimal number")
		return
	}
	reservation, err := ctrl.Reservations.AddPayment(id, amount, payload.Method, payload.Reference)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservation)
}

// POST /api/reservations/:id/expire — idempotent hold release, also callable
// out-of-band from the sweep.
func (ctrl *ReservationController) ExpireReservation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	expired, err := ctrl.Reservations.ExpireIfOverdue(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "expired": expired})
}
