package main // Entry point package

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"    // load .env files in development
	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/iliyamo/ground-booking/internal/config"   // Internal config loader
	"github.com/iliyamo/ground-booking/internal/database" // MySQL pool and schema
	"github.com/iliyamo/ground-booking/internal/handler"
	"github.com/iliyamo/ground-booking/internal/middleware"
	"github.com/iliyamo/ground-booking/internal/notifier"
	"github.com/iliyamo/ground-booking/internal/queue"
	"github.com/iliyamo/ground-booking/internal/repository"
	"github.com/iliyamo/ground-booking/internal/router" // Internal router setup
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		logger.Fatal().Err(err).Msg("ensure schema")
	}
	cancel()

	// Redis backs the response cache and the rate limiter; both
	// middlewares degrade to pass-through when it is unreachable.
	rdb := config.NewRedisClient()
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	cards := repository.NewCardRepo(db)
	grounds := repository.NewGroundRepo(db)
	bookings := repository.NewBookingRepo(db)
	reviews := repository.NewReviewRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	profileH := handler.NewProfileHandler(cfg, users, cards, tokens)
	groundH := handler.NewGroundHandler(grounds)
	bookingH := handler.NewBookingHandler(cfg, grounds, bookings, users)
	reviewH := handler.NewReviewHandler(reviews, bookings, grounds)

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, profileH, cfg.JWTSecret)
	router.RegisterPublic(e, groundH, reviewH, bookingH, cache)
	router.RegisterBookings(e, bookingH, reviewH, cfg.JWTSecret, limit)
	router.RegisterAdmin(e, groundH, cfg.JWTSecret)

	// Booking and registration events feed the email notifier through
	// RabbitMQ.  The consumer reconnects on its own; without a broker
	// URL events are dropped at the publisher and nothing runs here.
	if cfg.AMQPURL != "" {
		n := notifier.New(cfg.MailerAPIKey, cfg.MailerFrom, cfg.MailerName, logger)
		go func() {
			if err := queue.StartConsumer(cfg.AMQPURL, logger, n.Handle); err != nil {
				logger.Error().Err(err).Msg("event consumer stopped")
			}
		}()
	}

	addr := ":" + cfg.Port // Address string with port
	logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")

	if err := e.Start(addr); err != nil { // Start HTTP server
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
