package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/studentmonitor/student-monitor-api/internal/api"
	"github.com/studentmonitor/student-monitor-api/internal/core/service"
	"github.com/studentmonitor/student-monitor-api/internal/infrastructure/bootstrap"
	"github.com/studentmonitor/student-monitor-api/internal/infrastructure/config"
	mongostore "github.com/studentmonitor/student-monitor-api/internal/infrastructure/db/mongo"
	redisstore "github.com/studentmonitor/student-monitor-api/internal/infrastructure/db/redis"
	"github.com/studentmonitor/student-monitor-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	// Unique indexes must exist before the first registration is accepted.
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	// --- Redis ---
	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Router and services ---
	router := api.NewRouter(db, rdb, api.Options{
		RememberMeSecret: cfg.RememberMeSecret,
		BcryptCost:       cfg.BcryptCost,
		HashConcurrency:  cfg.HashConcurrency,
	}, log)

	// --- One-time provisioning ---
	seeder := bootstrap.NewSeeder(router.Users, router.Students, log)
	err = seeder.Run(ctx, service.BootstrapAdminInput{
		Username:  cfg.Admin.Username,
		Email:     cfg.Admin.Email,
		Password:  cfg.Admin.Password,
		FirstName: cfg.Admin.FirstName,
		LastName:  cfg.Admin.LastName,
	}, cfg.Env == "development")
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap failed")
	}

	// --- Serve ---
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := router.Echo.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := router.Echo.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
