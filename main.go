package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mariposa-backend/config"
	"mariposa-backend/controllers"
	"mariposa-backend/routes"
	"mariposa-backend/services"
	"mariposa-backend/utils"
)

func newLogger() (*zap.Logger, error) {
	if utils.EnvOrDefault("APP_ENV", "development") == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	if err := config.ConnectDatabase(); err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	db := config.DB
	if db == nil {
		logger.Fatal("config.DB is nil after ConnectDatabase()")
	}
	logger.Info("database connection established, migrations applied")

	// Notification pipeline: RabbitMQ when configured, log-only otherwise.
	var notifier services.Notifier
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		queue := utils.EnvOrDefault("NOTIFICATION_QUEUE", "reservation-events")
		amqpNotifier, err := services.NewAMQPNotifier(amqpURL, queue, logger)
		if err != nil {
			logger.Fatal("amqp notifier init failed", zap.Error(err))
		}
		defer amqpNotifier.Close()
		notifier = amqpNotifier
		logger.Info("amqp notifier connected", zap.String("queue", queue))
	} else {
		notifier = services.LogNotifier{Log: logger}
		logger.Info("AMQP_URL not set; notification events will only be logged")
	}

	// Initialize services
	codes := services.NewCodeGenerator()
	roomService := services.NewRoomService(db, logger)
	availabilityService := services.NewAvailabilityService(db, roomService)
	guestService := services.NewGuestService(db, logger)
	invoiceService := services.NewInvoiceService(db, codes, logger)
	reservationService := services.NewReservationService(
		db, roomService, availabilityService, guestService, codes, invoiceService, notifier, logger,
	)
	if raw := os.Getenv("HOLD_WINDOW"); raw != "" {
		window, err := time.ParseDuration(raw)
		if err != nil {
			logger.Fatal("invalid HOLD_WINDOW", zap.String("value", raw), zap.Error(err))
		}
		reservationService.HoldWindow = window
	}
	maintenanceService := services.NewMaintenanceService(db, roomService, codes, logger)

	// Initialize controllers
	roomController := controllers.NewRoomController(roomService)
	availabilityController := controllers.NewAvailabilityController(availabilityService, roomService)
	reservationController := controllers.NewReservationController(reservationService)
	guestController := controllers.NewGuestController(guestService)
	maintenanceController := controllers.NewMaintenanceController(maintenanceService)
	settingsController := controllers.NewSettingsController(db)

	router := routes.SetupRouter(
		roomController,
		availabilityController,
		reservationController,
		guestController,
		maintenanceController,
		settingsController,
		logger,
	)

	// Periodic sweep: release overdue pending holds and mark no-shows.
	sweepInterval := 10 * time.Minute
	if raw := os.Getenv("SWEEP_INTERVAL"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			logger.Fatal("invalid SWEEP_INTERVAL", zap.String("value", raw), zap.Error(err))
		}
		sweepInterval = interval
	}
	sweepStop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if released, err := reservationService.ExpireOverdueHolds(); err != nil {
					logger.Error("hold expiry sweep failed", zap.Error(err))
				} else if released > 0 {
					logger.Info("hold expiry sweep", zap.Int("released", released))
				}
				if _, err := reservationService.MarkNoShows(); err != nil {
					logger.Error("no-show sweep failed", zap.Error(err))
				}
			case <-sweepStop:
				return
			}
		}
	}()

	port := utils.EnvOrDefault("PORT", "8080")
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("ListenAndServe", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received, shutting down server")
	close(sweepStop)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped gracefully")
}
