package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mariposa-backend/models"
	"mariposa-backend/services"
	"mariposa-backend/utils"
)

type MaintenanceController struct {
	Maintenance *services.MaintenanceService
}

func NewMaintenanceController(maintenance *services.MaintenanceService) *MaintenanceController {
	return &MaintenanceController{Maintenance: maintenance}
}

type openTicketPayload struct {
	RoomID         uint   `json:"room_id" binding:"required"`
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
	Priority       string `json:"priority"`
	TakeOutOfOrder bool   `json:"take_out_of_order"`
	ReportedByID   *uint  `json:"reported_by_id"`
}

// POST /api/maintenance
func (ctrl *MaintenanceController) OpenTicket(c *gin.Context) {
	var payload openTicketPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "room_id and title are required")
		return
	}
	ticket, err := ctrl.Maintenance.OpenTicket(services.OpenTicketInput{
		RoomID:         payload.RoomID,
		Title:          payload.Title,
		Description:    payload.Description,
		Priority:       payload.Priority,
		TakeOutOfOrder: payload.TakeOutOfOrder,
		ReportedByID:   payload.ReportedByID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, ticket)
}

// GET /api/maintenance?status=open
func (ctrl *MaintenanceController) GetTickets(c *gin.Context) {
	tickets, err := ctrl.Maintenance.List(models.TicketStatus(c.Query("status")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, tickets)
}

// GET /api/maintenance/:id
func (ctrl *MaintenanceController) GetTicket(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	ticket, err := ctrl.Maintenance.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, ticket)
}

type resolveTicketPayload struct {
	Resolution string `json:"resolution" binding:"required"`
}

// POST /api/maintenance/:id/resolve
func (ctrl *MaintenanceController) ResolveTicket(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var payload resolveTicketPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "resolution is required")
		return
	}
	ticket, err := ctrl.Maintenance.ResolveTicket(id, payload.Resolution)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, ticket)
}
