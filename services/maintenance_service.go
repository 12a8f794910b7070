package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"mariposa-backend/models"
)

type MaintenanceService struct {
	DB    *gorm.DB
	Rooms *RoomService
	Codes *CodeGenerator
	Log   *zap.Logger
}

func NewMaintenanceService(db *gorm.DB, rooms *RoomService, codes *CodeGenerator, log *zap.Logger) *MaintenanceService {
	return &MaintenanceService{DB: db, Rooms: rooms, Codes: codes, Log: log}
}

type OpenTicketInput struct {
	RoomID         uint
	Title          string
	Description    string
	Priority       string
	TakeOutOfOrder bool
	ReportedByID   *uint
}

// OpenTicket files an incident and pulls the room out of the bookable pool:
// plain maintenance, or out_of_order when the defect makes the room unsellable.
func (s *MaintenanceService) OpenTicket(input OpenTicketInput) (*models.MaintenanceTicket, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if input.Priority == "" {
		input.Priority = "normal"
	}

	var ticket models.MaintenanceTicket
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := lockForUpdate(tx).First(&room, input.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: room %d", ErrNotFound, input.RoomID)
			}
			return fmt.Errorf("lock room %d: %w", input.RoomID, err)
		}

		number, err := s.Codes.TicketNumber(tx, time.Now().UTC())
		if err != nil {
			return err
		}
		ticket = models.MaintenanceTicket{
			TicketNumber: number,
			RoomID:       room.ID,
			Title:        input.Title,
			Description:  input.Description,
			Priority:     input.Priority,
			OutOfOrder:   input.TakeOutOfOrder,
			Status:       models.TicketOpen,
			ReportedByID: input.ReportedByID,
		}
		if err := tx.Create(&ticket).Error; err != nil {
			return fmt.Errorf("create maintenance ticket: %w", err)
		}

		if input.TakeOutOfOrder {
			// out_of_order carries its reason on the room record.
			if err := tx.Model(&room).Updates(map[string]interface{}{
				"is_out_of_order":     true,
				"out_of_order_reason": input.Title,
				"status":              models.RoomOutOfOrder,
			}).Error; err != nil {
				return fmt.Errorf("flag room %d out of order: %w", room.ID, err)
			}
			return nil
		}
		return setRoomStatusTx(tx, room.ID, models.RoomMaintenance, input.Title)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.Log.Info("maintenance ticket opened",
		zap.String("ticket_number", ticket.TicketNumber),
		zap.Uint("room_id", ticket.RoomID),
		zap.Bool("out_of_order", ticket.OutOfOrder),
	)
	return &ticket, nil
}

// ResolveTicket closes the incident and hands the room to housekeeping.
func (s *MaintenanceService) ResolveTicket(id uint, resolution string) (*models.MaintenanceTicket, error) {
	resolution = strings.TrimSpace(resolution)
	if resolution == "" {
		return nil, fmt.Errorf("%w: resolution is required", ErrValidation)
	}

	var ticket models.MaintenanceTicket
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&ticket, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: maintenance ticket %d", ErrNotFound, id)
			}
			return fmt.Errorf("lock ticket %d: %w", id, err)
		}
		if ticket.Status == models.TicketResolved {
			return fmt.Errorf("%w: ticket %s already resolved", ErrValidation, ticket.TicketNumber)
		}

		now := time.Now().UTC()
		if err := tx.Model(&ticket).Updates(map[string]interface{}{
			"status":      models.TicketResolved,
			"resolution":  resolution,
			"resolved_at": now,
		}).Error; err != nil {
			return fmt.Errorf("resolve ticket %d: %w", id, err)
		}

		if ticket.OutOfOrder {
			if err := tx.Model(&models.Room{}).Where("id = ?", ticket.RoomID).Updates(map[string]interface{}{
				"is_out_of_order":     false,
				"out_of_order_reason": "",
			}).Error; err != nil {
				return fmt.Errorf("clear out-of-order flag on room %d: %w", ticket.RoomID, err)
			}
		}
		// The room gets cleaned before going back on sale.
		return setRoomStatusTx(tx, ticket.RoomID, models.RoomCleaning, resolution)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.Log.Info("maintenance ticket resolved",
		zap.String("ticket_number", ticket.TicketNumber),
		zap.Uint("room_id", ticket.RoomID),
	)
	return &ticket, nil
}

func (s *MaintenanceService) Get(id uint) (*models.MaintenanceTicket, error) {
	var ticket models.MaintenanceTicket
	if err := s.DB.Preload("Room").First(&ticket, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: maintenance ticket %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("load ticket %d: %w", id, err)
	}
	return &ticket, nil
}

func (s *MaintenanceService) List(status models.TicketStatus) ([]models.MaintenanceTicket, error) {
	q := s.DB.Preload("Room").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var tickets []models.MaintenanceTicket
	if err := q.Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("list maintenance tickets: %w", err)
	}
	return tickets, nil
}
