package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mariposa-backend/models"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "mariposa_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, pass, host, port, dbName,
	), nil
}

// Migrate applies the schema in parent->child order. Shared with tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Staff{},
		&models.HotelSetting{},
		&models.Guest{},
		&models.Room{},
		&models.Reservation{},
		&models.Payment{},
		&models.Invoice{},
		&models.MaintenanceTicket{},
	)
}

// SeedDatabase ensures the baseline records a fresh install needs: one staff
// account, the hotel settings row, and a starter room inventory.
func SeedDatabase() {
	var staffCount int64
	DB.Model(&models.Staff{}).Count(&staffCount)
	if staffCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(envOrDefault("SEED_STAFF_PASSWORD", "changeme123")), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default staff password: %v", err)
		} else {
			staff := models.Staff{
				FullName: "Front Desk",
				Username: "frontdesk@mariposa.local",
				Password: string(hash),
				Role:     "receptionist",
			}
			if err := DB.Create(&staff).Error; err != nil {
				log.Printf("warning: failed to create default staff: %v", err)
			} else {
				log.Println("Default staff seeded")
			}
		}
	}

	var settingCount int64
	DB.Model(&models.HotelSetting{}).Count(&settingCount)
	if settingCount == 0 {
		setting := models.HotelSetting{
			Name:     "Hotel Mariposa",
			Address:  "Antigua Guatemala",
			Currency: "GTQ",
		}
		if err := DB.Create(&setting).Error; err != nil {
			log.Printf("warning: failed to seed hotel settings: %v", err)
		} else {
			log.Println("Hotel settings seeded")
		}
	}

	var roomCount int64
	DB.Model(&models.Room{}).Count(&roomCount)
	if roomCount == 0 {
		rooms := []models.Room{
			{RoomNumber: "101", Category: models.CategoryStandard, Floor: 1, Capacity: 2, Beds: 1, BedType: "queen", BasePrice: decimal.NewFromInt(500), Currency: "GTQ", Status: models.RoomAvailable, IsActive: true, HasWifi: true, HasAC: true},
			{RoomNumber: "102", Category: models.CategoryStandard, Floor: 1, Capacity: 2, Beds: 2, BedType: "twin", BasePrice: decimal.NewFromInt(500), Currency: "GTQ", Status: models.RoomAvailable, IsActive: true, HasWifi: true, HasAC: true},
			{RoomNumber: "201", Category: models.CategoryDeluxe, Floor: 2, Capacity: 3, Beds: 1, BedType: "king", BasePrice: decimal.NewFromInt(850), Currency: "GTQ", Status: models.RoomAvailable, IsActive: true, HasWifi: true, HasAC: true, HasBalcony: true},
			{RoomNumber: "301", Category: models.CategorySuite, Floor: 3, Capacity: 4, Beds: 2, BedType: "king", BasePrice: decimal.NewFromInt(1400), Currency: "GTQ", Status: models.RoomAvailable, IsActive: true, HasWifi: true, HasAC: true, HasBalcony: true, HasOceanView: true, HasMinibar: true, HasSafe: true},
		}
		if err := DB.Create(&rooms).Error; err != nil {
			log.Printf("warning: failed to seed rooms: %v", err)
		} else {
			log.Println("Rooms seeded")
		}
	}
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return err
	}
	DB = db

	if err := Migrate(DB); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
