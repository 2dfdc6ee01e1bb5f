package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/Ma1k10/Airplanes-Repository/internal/config"
	"github.com/Ma1k10/Airplanes-Repository/internal/database"
	"github.com/Ma1k10/Airplanes-Repository/internal/handler"
	"github.com/Ma1k10/Airplanes-Repository/internal/middleware"
	"github.com/Ma1k10/Airplanes-Repository/internal/queue"
	"github.com/Ma1k10/Airplanes-Repository/internal/repository"
	"github.com/Ma1k10/Airplanes-Repository/internal/router"
	"github.com/Ma1k10/Airplanes-Repository/internal/service"
)

func main() {
	logger := log.New("airline")
	logger.SetHeader("${time_rfc3339} ${level} ${prefix}")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if cfg.Env == "dev" {
		logger.SetLevel(log.DEBUG)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DBMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatalf("migrate: %v", err)
		}
		logger.Info("schema applied")
	}

	store := repository.NewStore(db)

	var events service.Publisher = service.NopPublisher{}
	if cfg.AMQPEnabled {
		events = queue.NewPublisher(cfg.AMQPURL, logger)
		consumer := &queue.Consumer{URL: cfg.AMQPURL, LogPath: cfg.ReservationLog, Logger: logger}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("reservation consumer stopped: %v", err)
			}
		}()
	}

	registry := service.NewRegistry(store)
	catalog := service.NewCatalog(store)
	inventory := service.NewInventory(store)
	directory := service.NewDirectory(store)
	engine := service.NewEngine(store, events)
	issuer := service.NewIssuer(store)
	accounts := service.NewAccounts(store, cfg.BcryptCost)

	rdb := config.NewRedisClient(logger)
	if rdb != nil {
		defer rdb.Close()
	}
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	e.Logger = logger
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, store.Users, repository.NewTokenRepo(db), accounts), cfg.JWTSecret)
	router.RegisterPublic(e, handler.NewPublicHandler(registry, catalog, inventory), cache)
	router.RegisterStaff(e, handler.NewStaffHandler(registry, catalog, inventory, directory, engine), cfg.JWTSecret)
	router.RegisterPassenger(e, handler.NewPassengerHandler(directory, engine, issuer), cfg.JWTSecret, limit)

	addr := ":" + cfg.Port
	go func() {
		logger.Infof("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}
