package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mkroener/hall-booking/internal/config"
	"github.com/mkroener/hall-booking/internal/database"
	"github.com/mkroener/hall-booking/internal/handler"
	"github.com/mkroener/hall-booking/internal/logger"
	"github.com/mkroener/hall-booking/internal/queue"
	"github.com/mkroener/hall-booking/internal/repository"
	"github.com/mkroener/hall-booking/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	zl, err := logger.Init(cfg.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()
	zl.Info("connected to database", zap.String("name", cfg.DBName))

	// Redis is optional; without it rate limiting and caching degrade to
	// pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		zl.Warn("redis unavailable, rate limiting and caching disabled")
	}

	userRepo := repository.NewUserRepo(db)
	hallRepo := repository.NewHallRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	authHandler := handler.NewAuthHandler(cfg, userRepo)
	hallHandler := handler.NewHallHandler(hallRepo)
	reservationHandler := handler.NewReservationHandler(cfg, reservationRepo)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)
	router.RegisterReservations(e, reservationHandler, config.LoadCacheConfig(), rdb)
	router.RegisterHalls(e, hallHandler)

	// The decision consumer runs for the lifetime of the process and
	// reconnects on broker failures.
	go func() {
		if err := queue.StartDecisionConsumer(); err != nil {
			zl.Error("decision consumer stopped", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
