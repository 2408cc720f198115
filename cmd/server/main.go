package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/photo-marketplace/internal/config"
	"github.com/iliyamo/photo-marketplace/internal/database"
	"github.com/iliyamo/photo-marketplace/internal/handler"
	"github.com/iliyamo/photo-marketplace/internal/logger"
	"github.com/iliyamo/photo-marketplace/internal/middleware"
	"github.com/iliyamo/photo-marketplace/internal/queue"
	"github.com/iliyamo/photo-marketplace/internal/repository"
	"github.com/iliyamo/photo-marketplace/internal/response"
	"github.com/iliyamo/photo-marketplace/internal/router"
	"github.com/iliyamo/photo-marketplace/internal/validation"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load() // Load environment config

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		zl.Fatal("database open failed", zap.Error(err))
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		mctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(mctx, db)
		cancel()
		if err != nil {
			zl.Fatal("schema migration failed", zap.Error(err))
		}
	}

	// Redis is optional: without it the cache and the rate limiter pass through.
	rdb := config.NewRedisClient(zl)
	if rdb != nil {
		defer rdb.Close()
	}
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb, zl)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := queue.NewDispatcher(queue.NewPublisher(cfg.AMQPURL, zl), 5*time.Second, zl)
	consumer := queue.NewConsumer(cfg.AMQPURL, cfg.ActivityDir, zl)
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if err := consumer.Run(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
			zl.Error("event consumer stopped", zap.Error(err))
		}
	}()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	team := repository.NewTeamRepo(db)
	now := handler.ClockIn(cfg.Location())

	authH := handler.NewAuthHandler(cfg, users, tokens, team, zl)
	bookingH := handler.NewBookingHandler(repository.NewBookingRepo(db), users, events, now, zl)
	couponH := handler.NewCouponHandler(repository.NewCouponRepo(db), now, zl)
	promoH := handler.NewPromotionHandler(repository.NewGiftRepo(db), repository.NewAdvertisementRepo(db), cache, now, zl)
	ticketH := handler.NewTicketHandler(repository.NewTicketRepo(db), users, events, now, zl)
	teamH := handler.NewTeamHandler(team, zl)
	profileH := handler.NewProfileHandler(repository.NewProfileRepo(db), zl)

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = response.ErrorHandler

	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(zl))
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb, zl))

	router.RegisterRoutes(e, db, rdb)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, promoH, cache)
	router.RegisterTickets(e, ticketH, cfg.JWTSecret)
	router.RegisterCustomer(e, bookingH, couponH, cfg.JWTSecret)
	router.RegisterSeller(e, bookingH, teamH, profileH, cfg.JWTSecret)
	router.RegisterAdmin(e, bookingH, couponH, promoH, ticketH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	go func() {
		zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("timezone", cfg.Timezone))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
	if err := events.Wait(shutdownCtx); err != nil {
		zl.Warn("events still in flight at shutdown", zap.Error(err))
	}
	select {
	case <-consumerDone:
	case <-shutdownCtx.Done():
	}
}
