package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"snapbag-reward-system/handlers"
	"snapbag-reward-system/middleware"
	"snapbag-reward-system/models"
	"snapbag-reward-system/services"
	"snapbag-reward-system/utils"
	"snapbag-reward-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles, X-Device-ID",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	utils.InitHMAC()

	exportEnabled, err := utils.InitExportStore()
	if err != nil {
		log.Fatal("failed to initialize export store:", err)
	}
	if !exportEnabled {
		log.Println("⚠️  Export store not configured — batch CSV exports disabled")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.QRBatch{},
		&models.Snapbag{},
		&models.QRScan{},
		&models.Transaction{},
		&models.Partner{},
		&models.WheelPrize{},
		&models.Voucher{},
		&models.RateLimit{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	limiter := services.NewRateLimiter(db)
	scanService := services.NewScanService(db)
	spinService := services.NewSpinService(db)
	voucherService := services.NewVoucherService(db)
	redemptionService := services.NewRedemptionService(db, voucherService)
	batchService := services.NewBatchService(db)
	userService := services.NewUserService(db)

	// --- Profile sync from the accounts service (province feeds eligibility) ---
	accountsServiceURL := os.Getenv("ACCOUNTS_SERVICE_URL")
	if accountsServiceURL == "" {
		log.Fatal("ACCOUNTS_SERVICE_URL environment variable not set")
	}
	serviceToken := os.Getenv("LOYALTY_SERVICE_TOKEN")
	if serviceToken == "" {
		log.Fatal("LOYALTY_SERVICE_TOKEN environment variable not set")
	}

	syncWorker := workers.NewProfileSyncWorker(db, accountsServiceURL, "/api/v1/public/profiles", serviceToken)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	syncWorker.Start(ctx)

	limiter.StartPruneScheduler()

	// ✅ Setup routes — enforced Gateway auth on everything
	handlers.SetupScanRoutes(app, scanService, limiter)
	handlers.SetupWheelRoutes(app, spinService, userService, limiter)
	handlers.SetupVoucherRoutes(app, voucherService)
	handlers.SetupPartnerRoutes(app, redemptionService)
	handlers.SetupAdminRoutes(app, db, userService, batchService, limiter)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Profile Sync Worker running")
	log.Println("✅ Rate limit prune scheduler running (hourly)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
