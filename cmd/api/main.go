package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-site/internal/audit"
	"github.com/BruksfildServices01/barbershop-site/internal/cache"
	"github.com/BruksfildServices01/barbershop-site/internal/config"
	dbpkg "github.com/BruksfildServices01/barbershop-site/internal/db"
	infraRepo "github.com/BruksfildServices01/barbershop-site/internal/infra/repository"
	"github.com/BruksfildServices01/barbershop-site/internal/jobs"
	"github.com/BruksfildServices01/barbershop-site/internal/logging"
	"github.com/BruksfildServices01/barbershop-site/internal/media"
	"github.com/BruksfildServices01/barbershop-site/internal/middleware"
	"github.com/BruksfildServices01/barbershop-site/internal/notification"
	"github.com/BruksfildServices01/barbershop-site/internal/routes"
)

func main() {

	cfg := config.Load()
	logger := logging.New("barbershop-site", !cfg.IsProduction())
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		logger.Error("database unavailable", "err", err)
		os.Exit(1)
	}

	// ======================================================
	// INFRA
	// ======================================================
	redisClient := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = redisClient.Close() }()
	if redisClient == nil {
		logger.Info("redis not configured, cache and rate limiting disabled")
	}

	store, err := media.NewStore(ctx, cfg)
	if err != nil {
		logger.Error("media store unavailable", "driver", cfg.MediaDriver, "err", err)
		os.Exit(1)
	}
	images := media.NewImages(store, cfg.ImageMaxWidth)

	var notifier notification.Notifier
	if cfg.SMTPEnabled() {
		notifier = notification.NewSMTPNotifier(notification.SMTPConfig{
			Host:    cfg.SMTPHost,
			Port:    cfg.SMTPPort,
			User:    cfg.SMTPUser,
			Pass:    cfg.SMTPPass,
			From:    cfg.SMTPFrom,
			Timeout: cfg.SMTPTimeout,
		}, cfg.ShopName)
	} else {
		logger.Info("smtp not configured, emails are logged only")
		notifier = notification.NewLogNotifier(logger, cfg.ShopName)
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db), logger)

	// ======================================================
	// DELETION WORKER
	// ======================================================
	worker := jobs.NewDeletionWorker(
		infraRepo.NewDeletionJobGormRepository(db),
		logger,
		jobs.WorkerConfig{
			Interval:  cfg.DeletionPollInterval,
			BatchSize: cfg.DeletionBatchSize,
		},
	)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(logger))

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Logger:   logger,
		Cache:    redisClient,
		Images:   images,
		Notifier: notifier,
		Audit:    auditDispatcher,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr, "admin", cfg.BaseURL+"/admin/login")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}

	wg.Wait()
	auditDispatcher.Close()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("http server stopped")
}
