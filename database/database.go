package database

import (
	"embed"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/anjiri1684/tutor_market/models"
	"github.com/pressly/goose/v3"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrations embed.FS

func ConnectDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is required but not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		DisableNestedTransaction:                 true,
		TranslateError:                           true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	fmt.Println("✅ Database connected successfully")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Profile{},
		&models.Service{},
		&models.Order{},
		&models.Payment{},
		&models.Message{},
		&models.Review{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	fmt.Println("✅ Database migration successful")
	return nil
}

// RunMigrations applies the embedded SQL migrations on top of the tables
// created by Migrate: check constraints and composite indexes.
func RunMigrations(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	log.Println("✅ Migrations applied successfully")
	return nil
}

func SeedAdmin(db *gorm.DB, email, password, fullName string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		log.Println("⚠️ ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed.")
		return nil
	}

	var count int64
	if err := db.Model(&models.Profile{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("check admin profile: %w", err)
	}

	if count > 0 {
		log.Println("Admin user already exists.")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.Profile{
		FullName: fullName,
		Email:    email,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
	}

	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	log.Println("✅ Admin user seeded successfully")
	return nil
}
