package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mariposa-backend/models"
	"mariposa-backend/services"
	"mariposa-backend/utils"
)

type GuestController struct {
	Guests *services.GuestService
}

func NewGuestController(guests *services.GuestService) *GuestController {
	return &GuestController{Guests: guests}
}

// GET /api/guests
func (ctrl *GuestController) GetGuests(c *gin.Context) {
	guests, err := ctrl.Guests.GetAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, guests)
}

// GET /api/guests/:id
func (ctrl *GuestController) GetGuest(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	guest, err := ctrl.Guests.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, guest)
}

// POST /api/guests
func (ctrl *GuestController) CreateGuest(c *gin.Context) {
	var guest models.Guest
	if err := c.ShouldBindJSON(&guest); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	if err := ctrl.Guests.Create(&guest); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, guest)
}

// PUT /api/guests/:id
func (ctrl *GuestController) UpdateGuest(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var guest models.Guest
	if err := c.ShouldBindJSON(&guest); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	guest.ID = id
	if err := ctrl.Guests.Update(&guest); err != nil {
		respondServiceError(c, err)
		return
	}
	updated, err := ctrl.Guests.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}

type blacklistPayload struct {
	Blacklisted bool   `json:"blacklisted"`
	Reason      string `json:"reason"`
}

// PATCH /api/guests/:id/blacklist
func (ctrl *GuestController) SetBlacklisted(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var payload blacklistPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	guest, err := ctrl.Guests.SetBlacklisted(id, payload.Blacklisted, payload.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, guest)
}
