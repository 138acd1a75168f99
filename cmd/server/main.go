package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/novaschool/parent-portal/internal/config"
	"github.com/novaschool/parent-portal/internal/database"
	"github.com/novaschool/parent-portal/internal/handler"
	"github.com/novaschool/parent-portal/internal/logging"
	"github.com/novaschool/parent-portal/internal/metrics"
	"github.com/novaschool/parent-portal/internal/middleware"
	"github.com/novaschool/parent-portal/internal/queue"
	"github.com/novaschool/parent-portal/internal/repository"
	"github.com/novaschool/parent-portal/internal/router"
	"github.com/novaschool/parent-portal/internal/service"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar()

	// The store is optional: without DB_HOST the portal serves degraded
	// reads (empty lists) and rejects writes, so sign-in stays up while
	// the database is down.
	var db *sql.DB
	if cfg.DBHost == "" {
		sugar.Warnw("no database host configured; running with degraded store")
		metrics.StoreDegraded.Set(1)
	} else {
		db, err = database.Open(cfg)
		if err != nil {
			sugar.Fatalw("database open failed", "err", err)
		}
		defer func() { _ = db.Close() }()
		if err := database.Migrate(db); err != nil {
			sugar.Fatalw("migrations failed", "err", err)
		}
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		sugar.Warnw("redis unavailable; cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db, sugar, cfg.OwnerOpenID)
	tokens := repository.NewTokenRepo(db)
	students := repository.NewStudentRepo(db, sugar)
	progress := repository.NewProgressRepo(db, sugar)
	attendance := repository.NewAttendanceRepo(db, sugar)
	milestones := repository.NewMilestoneRepo(db, sugar)
	messages := repository.NewMessageRepo(db, sugar)
	teachers := repository.NewTeacherRepo(db, sugar)
	templates := repository.NewTemplateRepo(db, sugar)

	publisher := &service.Publisher{URL: cfg.AMQPURL, Log: logger}
	go queue.StartMessageConsumer(cfg.AMQPURL)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.Register(e, router.Deps{
		JWTSecret:  cfg.JWTSecret,
		DB:         db,
		Auth:       handler.NewAuthHandler(cfg, users, tokens),
		Students:   handler.NewStudentHandler(students),
		Progress:   handler.NewProgressHandler(students, progress, users),
		Attendance: handler.NewAttendanceHandler(students, attendance),
		Milestones: handler.NewMilestoneHandler(students, milestones),
		Messages:   handler.NewMessageHandler(messages, users, publisher),
		Teachers:   handler.NewTeacherHandler(teachers, students, progress, attendance, messages, users, publisher),
		Templates:  handler.NewTemplateHandler(teachers, templates),
		Cache:      middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	})

	go func() {
		addr := ":" + cfg.Port
		sugar.Infow("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil {
			sugar.Infow("server stopped", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
