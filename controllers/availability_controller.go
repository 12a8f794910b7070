package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"mariposa-backend/models"
	"mariposa-backend/services"
	"mariposa-backend/utils"
)

type AvailabilityController struct {
	Availability *services.AvailabilityService
	Rooms        *services.RoomService
}

func NewAvailabilityController(availability *services.AvailabilityService, rooms *services.RoomService) *AvailabilityController {
	return &AvailabilityController{Availability: availability, Rooms: rooms}
}

func parseDateQuery(c *gin.Context, key string) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		utils.JSONError(c, http.StatusBadRequest, key+" is required")
		return time.Time{}, false
	}
	t, err := services.ParseDate(raw)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, key+" must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

// GET /api/availability/check?room_id=&check_in=&check_out=
func (ctrl *AvailabilityController) CheckAvailability(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Query("room_id"), 10, 32)
	if err != nil || roomID == 0 {
		utils.JSONError(c, http.StatusBadRequest, "room_id is required")
		return
	}
	checkIn, ok := parseDateQuery(c, "check_in")
	if !ok {
		return
	}
	checkOut, ok := parseDateQuery(c, "check_out")
	if !ok {
		return
	}

	if err := ctrl.Availability.CheckAvailability(uint(roomID), checkIn, checkOut); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"room_id":   roomID,
		"check_in":  checkIn.Format("2006-01-02"),
		"check_out": checkOut.Format("2006-01-02"),
		"bookable":  true,
	})
}

// GET /api/availability?check_in=&check_out=&category=&capacity=
func (ctrl *AvailabilityController) SearchAvailableRooms(c *gin.Context) {
	checkIn, ok := parseDateQuery(c, "check_in")
	if !ok {
		return
	}
	checkOut, ok := parseDateQuery(c, "check_out")
	if !ok {
		return
	}

	var category *models.RoomCategory
	if raw := c.Query("category"); raw != "" {
		value := models.RoomCategory(raw)
		category = &value
	}
	capacity := 0
	if raw := c.Query("capacity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			utils.JSONError(c, http.StatusBadRequest, "capacity must be a positive integer")
			return
		}
		capacity = n
	}

	rooms, err := ctrl.Availability.FindAvailableRooms(checkIn, checkOut, category, capacity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// GET /api/quotes?room_id=&check_in=&check_out=&discount_percent=
func (ctrl *AvailabilityController) GetQuote(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Query("room_id"), 10, 32)
	if err != nil || roomID == 0 {
		utils.JSONError(c, http.StatusBadRequest, "room_id is required")
		return
	}
	checkIn, ok := parseDateQuery(c, "check_in")
	if !ok {
		return
	}
	checkOut, ok := parseDateQuery(c, "check_out")
	if !ok {
		return
	}
	var discount int64
	if raw := c.Query("discount_percent"); raw != "" {
		discount, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "discount_percent must be an integer")
			return
		}
	}

	room, err := ctrl.Rooms.Get(uint(roomID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	quote, err := services.Quote(room, checkIn, checkOut, discount)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, quote)
}
