package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mariposa-backend/controllers"
	"mariposa-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func SetupRouter(
	rc *controllers.RoomController,
	ac *controllers.AvailabilityController,
	resc *controllers.ReservationController,
	gc *controllers.GuestController,
	mc *controllers.MaintenanceController,
	sc *controllers.SettingsController,
	log *zap.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", rc.GetRooms)
			rooms.GET("/:id", rc.GetRoom)
			rooms.POST("", rc.CreateRoom)
			rooms.PUT("/:id", rc.UpdateRoom)
			rooms.PATCH("/:id/status", rc.UpdateRoomStatus)
			rooms.DELETE("/:id", rc.DeactivateRoom)
		}

		availability := api.Group("/availability")
		{
			availability.GET("", ac.SearchAvailableRooms)
			availability.GET("/check", ac.CheckAvailability)
		}
		api.GET("/quotes", ac.GetQuote)

		reservations := api.Group("/reservations")
		{
			reservations.GET("", resc.GetReservations)
			reservations.POST("", resc.CreateReservation)

			// /code must be registered before /:id so codes don't hit the
			// numeric handler.
			reservations.GET("/code/:code", resc.GetReservationByCode)
			reservations.GET("/:id", resc.GetReservation)

			reservations.POST("/:id/confirm", resc.ConfirmReservation)
			reservations.POST("/:id/check-in", resc.CheckIn)
			reservations.POST("/:id/check-out", resc.CheckOut)
			reservations.POST("/:id/cancel", resc.CancelReservation)
			reservations.POST("/:id/payments", resc.AddPayment)
			reservations.POST("/:id/expire", resc.ExpireReservation)
		}

		guests := api.Group("/guests")
		{
			guests.GET("", gc.GetGuests)
			guests.GET("/:id", gc.GetGuest)
			guests.POST("", gc.CreateGuest)
			guests.PUT("/:id", gc.UpdateGuest)
			guests.PATCH("/:id/blacklist", gc.SetBlacklisted)
		}

		maintenance := api.Group("/maintenance")
		{
			maintenance.GET("", mc.GetTickets)
			maintenance.GET("/:id", mc.GetTicket)
			maintenance.POST("", mc.OpenTicket)
			maintenance.POST("/:id/resolve", mc.ResolveTicket)
		}

		settings := api.Group("/settings")
		{
			settings.GET("/hotel", sc.GetHotelSettings)
			settings.PUT("/hotel", sc.UpdateHotelSettings)
		}
	}

	return r
}
