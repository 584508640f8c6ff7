package main

import (
	"log"
	"time"

	"github.com/anjiri1684/tutor_market/app"
	config "github.com/anjiri1684/tutor_market/configs"
	"github.com/anjiri1684/tutor_market/database"
	"github.com/anjiri1684/tutor_market/handlers"
	"github.com/anjiri1684/tutor_market/i18n"
	"github.com/anjiri1684/tutor_market/jobs"
	"github.com/anjiri1684/tutor_market/notifications"
	"github.com/anjiri1684/tutor_market/payments"
	"github.com/anjiri1684/tutor_market/realtime"
	"github.com/anjiri1684/tutor_market/repository"
	"github.com/anjiri1684/tutor_market/routes"
	"github.com/anjiri1684/tutor_market/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	zlog := app.NewLogger(config.Config("ENV"))
	defer zlog.Sync()

	jwtSecret := config.Config("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatalf("🔥 JWT_SECRET is not set")
	}

	db, err := database.ConnectDB(config.Config("DATABASE_URL"))
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("🔥 Failed to apply SQL migrations: %v", err)
	}
	if err := database.SeedAdmin(db, config.Config("ADMIN_EMAIL"), config.Config("ADMIN_PASSWORD"), config.ConfigDefault("ADMIN_FULL_NAME", "Administrator")); err != nil {
		zlog.Warn("admin seed skipped", zap.Error(err))
	}

	catalog, err := i18n.Load(config.ConfigDefault("DEFAULT_LOCALE", "en"))
	if err != nil {
		log.Fatalf("🔥 Failed to load locales: %v", err)
	}

	store := repository.NewGormStore(db)
	mailer := notifications.NewEmailService(
		config.Config("BREVO_API_KEY"),
		config.Config("EMAIL_SENDER"),
		config.Config("EMAIL_SENDER_NAME"),
		zlog,
	)
	hub := realtime.NewHub(zlog.Named("realtime"), realtime.DefaultBuffer)

	h := &handlers.Handler{
		Auth:          services.NewAuthService(store, mailer, zlog, jwtSecret, config.ConfigDefault("FRONTEND_URL", "http://localhost:3000")),
		Profiles:      services.NewProfileService(store),
		Listings:      services.NewListingService(store, zlog),
		Orders:        services.NewOrderService(store, payments.InstantProcessor{}, mailer, zlog),
		Reviews:       services.NewReviewService(store, mailer, zlog),
		Messaging:     services.NewMessagingService(store, hub, zlog),
		Admin:         services.NewAdminService(store),
		Catalog:       catalog,
		CloudinaryURL: config.Config("CLOUDINARY_URL"),
		Logger:        zlog,
	}

	c := cron.New()
	if err := jobs.NewRunner(store, mailer, zlog).Schedule(c); err != nil {
		log.Fatalf("🔥 Failed to schedule jobs: %v", err)
	}
	c.Start()
	defer c.Stop()
	zlog.Info("cron jobs scheduled")

	server := fiber.New(fiber.Config{
		Prefork:       false,
		AppName:       "Tutor Market",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			zlog.Error("unhandled error", zap.Error(err), zap.String("path", c.Path()), zap.String("method", c.Method()))
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	server.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Accept-Language, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Language, Authorization",
		MaxAge:        86400,
	}))

	server.Use(recover.New())
	server.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	server.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Tutor Market API",
		})
	})

	routes.Setup(server, h, jwtSecret)

	port := config.ConfigDefault("PORT", "8080")
	zlog.Info("server is running", zap.String("port", port))
	if err := server.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
