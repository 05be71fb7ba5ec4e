package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"broker-intake-system/handlers"
	"broker-intake-system/metrics"
	"broker-intake-system/middleware"
	"broker-intake-system/models"
	"broker-intake-system/services"
	"broker-intake-system/utils"
	"broker-intake-system/workers"

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

	app := fiber.New()

	// CORS for the thin front ends consuming this API
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		log.Println("⚠️  ALLOWED_ORIGINS not set, using default: http://localhost:3000")
		allowedOrigins = "http://localhost:3000"
	}
	originList := strings.Split(allowedOrigins, ",")
	for i, origin := range originList {
		originList[i] = strings.TrimSpace(origin)
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(originList, ","),
		AllowMethods:     "GET,POST,OPTIONS,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, X-Requested-With, X-Device-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// 📋 Broker directory — immutable after startup
	directory, err := services.NewBrokerDirectory(os.Getenv("BROKER_CONFIG_PATH"))
	if err != nil {
		log.Fatal("failed to build broker directory:", err)
	}

	// Optional: host broker logos on R2/CDN
	r2Enabled, err := utils.InitR2()
	if err != nil {
		log.Printf("⚠️  R2 init failed, serving local logo assets: %v", err)
	} else if r2Enabled {
		assetRoot := os.Getenv("ASSET_ROOT")
		if assetRoot == "" {
			assetRoot = "./public"
		}
		directory.SyncLogosToR2(assetRoot)
	}

	// 💾 Contact cache — Postgres when configured, in-memory otherwise
	var store services.ContactStore
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Fatal("failed to connect to database:", err)
		}
		if err := db.AutoMigrate(&models.CachedContact{}); err != nil {
			log.Fatal("failed to migrate database:", err)
		}
		store = services.NewGormContactStore(db)
	} else {
		log.Println("⚠️  DATABASE_URL not set — contact cache is in-memory and lost on restart")
		store = services.NewMemoryContactStore()
	}

	display := services.DisplayConfig{
		Locale:         services.ParseLocale(os.Getenv("LOCALE")),
		CountryCode:    envOr("PHONE_COUNTRY_CODE", "+967"),
		WhatsAppNumber: envOr("WHATSAPP_NUMBER", "967733353380"),
	}

	notifier := services.NewTelegramNotifier(
		os.Getenv("TELEGRAM_BOT_TOKEN"),
		os.Getenv("TELEGRAM_CHAT_ID"),
		display,
	)
	if !notifier.Enabled() {
		log.Println("⚠️  Telegram credentials not configured — notifications disabled")
	}

	intake := services.NewIntakeService(store, notifier, services.IntakeConfig{
		ProcessingDelay: processingDelay(),
		Display:         display,
	})

	portal := services.NewPortalService(directory, intake, services.RouterConfig{
		NotFoundPolicy: os.Getenv("NOT_FOUND_POLICY"),
		RegisterMode:   os.Getenv("REGISTER_MODE"),
	})

	metrics.Serve(os.Getenv("METRICS_ADDR"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	retentionDays, _ := strconv.Atoi(os.Getenv("CONTACT_RETENTION_DAYS"))
	sched, err := workers.StartContactRetentionWorker(ctx, store, retentionDays)
	if err != nil {
		log.Fatal("failed to start retention worker:", err)
	}
	defer func() { _ = sched.Shutdown() }()

	// Static assets go first so /assets/* never falls into the :brokerId wildcard.
	app.Static("/assets", "./public/assets")

	app.Use(middleware.DeviceContextMiddleware())
	handlers.SetupPortalRoutes(app, portal, os.Getenv("HISTORY_GUARD") == "true")

	go func() {
		if err := app.Listen(":5100"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5100")
	log.Printf("✅ Brokers loaded: %d", len(directory.All()))
	log.Printf("✅ Notifications enabled: %t", notifier.Enabled())

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func processingDelay() time.Duration {
	ms, err := strconv.Atoi(os.Getenv("PROCESSING_DELAY_MS"))
	if err != nil || ms < 0 {
		return 1500 * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}
