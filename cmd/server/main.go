package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/avralis/hotel-reservation/internal/booking"
	"github.com/avralis/hotel-reservation/internal/config"
	"github.com/avralis/hotel-reservation/internal/database"
	"github.com/avralis/hotel-reservation/internal/handler"
	"github.com/avralis/hotel-reservation/internal/middleware"
	"github.com/avralis/hotel-reservation/internal/queue"
	"github.com/avralis/hotel-reservation/internal/repository"
	"github.com/avralis/hotel-reservation/internal/router"
	queuepublisher "github.com/avralis/hotel-reservation/internal/service"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Redis is optional: without it caching and rate limiting switch off
	// and the draft session lock falls back to an in-process mutex.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache/rate-limit disabled, using local draft locks")
	}

	// Repositories over the shared *sql.DB.
	rates := repository.NewRateRepo(db)
	fees := repository.NewTaxFeeRepo(db)
	promos := repository.NewPromoRepo(db)
	inventory := repository.NewInventoryRepo(db)
	drafts := repository.NewDraftRepo(db)
	bookings := repository.NewBookingRepo(db)
	payments := repository.NewPaymentRepo(db)
	customers := repository.NewCustomerRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	// Booking events are published to RabbitMQ and consumed into
	// logs/booking.log by the background consumer.
	var events booking.EventPublisher
	if cfg.AmqpURL != "" {
		events = queuepublisher.New(cfg.AmqpURL)
		go func() {
			if err := queue.StartBookingConsumer(cfg.AmqpURL); err != nil {
				log.Printf("booking consumer stopped: %v", err)
			}
		}()
	}

	svc := booking.NewService(rates, fees, promos, inventory,
		drafts, bookings, payments, customers,
		repository.NewTxRunner(db), booking.NewSessionLocker(rdb), events)

	e := echo.New() // Create Echo instance
	e.HideBanner = true

	// Response cache and rate limiting are active only when redis is up.
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	auth := handler.NewAuthHandler(cfg, users, tokens)
	draftH := handler.NewDraftHandler(svc, cfg.DefaultHotelID)
	bookingH := handler.NewBookingHandler(svc, cfg.DefaultHotelID)
	paymentH := handler.NewPaymentHandler(svc, payments)
	pendingH := handler.NewPendingHandler(svc, cfg.DefaultHotelID)
	adminH := handler.NewAdminHandler(rates, inventory, promos, fees)

	router.RegisterRoutes(e) // Health check
	router.RegisterAuth(e, auth, cfg.JWTSecret)
	router.RegisterGuest(e, draftH, bookingH)
	router.RegisterStaff(e, bookingH, paymentH, pendingH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
