package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mariposa-backend/models"
)

type SettingsController struct {
	DB *gorm.DB
}

func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{DB: db}
}

type hotelSettingsPayload struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Website  string `json:"website"`
	Currency string `json:"currency"`
}

// GET /api/settings/hotel
func (ctrl *SettingsController) GetHotelSettings(c *gin.Context) {
	var hotel models.HotelSetting
	if err := ctrl.DB.First(&hotel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"hotel": models.HotelSetting{}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"hotel": hotel})
}

// PUT /api/settings/hotel
func (ctrl *SettingsController) UpdateHotelSettings(c *gin.Context) {
	var payload hotelSettingsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payload.Currency = strings.ToUpper(strings.TrimSpace(payload.Currency))
	if payload.Currency != "" && len(payload.Currency) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "currency must be a 3-letter code"})
		return
	}

	var hotel models.HotelSetting
	err := ctrl.DB.First(&hotel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			hotel = models.HotelSetting{
				Name:     payload.Name,
				Address:  payload.Address,
				Phone:    payload.Phone,
				Email:    payload.Email,
				Website:  payload.Website,
				Currency: payload.Currency,
			}
			if err := ctrl.DB.Create(&hotel).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"hotel": hotel})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	hotel.Name = payload.Name
	hotel.Address = payload.Address
	hotel.Phone = payload.Phone
	hotel.Email = payload.Email
	hotel.Website = payload.Website
	if payload.Currency != "" {
		hotel.Currency = payload.Currency
	}

	if err := ctrl.DB.Save(&hotel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"hotel": hotel})
}
