package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/practicelearn/course-portal/config"
	"github.com/practicelearn/course-portal/internal/email"
	"github.com/practicelearn/course-portal/internal/health"
	"github.com/practicelearn/course-portal/internal/infrastructure/blob"
	"github.com/practicelearn/course-portal/internal/infrastructure/postgres"
	ctxlog "github.com/practicelearn/course-portal/internal/log"
	"github.com/practicelearn/course-portal/internal/maintenance"
	"github.com/practicelearn/course-portal/internal/metrics"
	"github.com/practicelearn/course-portal/internal/repository"
	"github.com/practicelearn/course-portal/internal/session"
	"github.com/practicelearn/course-portal/internal/token"
	httptransport "github.com/practicelearn/course-portal/internal/transport/http"
	"github.com/practicelearn/course-portal/internal/transport/http/handler"
	"github.com/practicelearn/course-portal/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, cfg.DatabaseURL); err != nil {
		stop()
		log.Fatalf("migrate: %v", err)
	}

	store, err := blob.NewResourceStore(ctx, blob.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		stop()
		log.Fatalf("blob store: %v", err)
	}

	// Missing or short SESSION_SECRET aborts here — authentication is never
	// silently disabled.
	codec, err := token.NewCodec([]byte(cfg.SessionSecret))
	if err != nil {
		stop()
		log.Fatalf("token codec: %v", err)
	}

	accountRepo := postgres.NewAccountRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	contentRepo := postgres.NewContentRepository(pool)

	var sessions session.Manager
	var sweepSessions repository.SessionRepository
	if cfg.SessionStrategy == "registry" {
		sessions = session.NewRegistry(sessionRepo, accountRepo)
		sweepSessions = sessionRepo
	} else {
		sessions = session.NewStateless(codec)
	}

	emailSender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	authUsecase := usecase.NewAuthUsecase(accountRepo, emailSender, cfg.MagicLinkBase)
	accountUsecase := usecase.NewAccountUsecase(accountRepo, authUsecase, logger)
	contentUsecase := usecase.NewContentUsecase(contentRepo, store)
	quizUsecase := usecase.NewQuizUsecase(contentRepo)

	authHandler := handler.NewAuthHandler(authUsecase, sessions, cfg.Env != "local", logger)
	contentHandler := handler.NewContentHandler(contentUsecase, logger)
	quizHandler := handler.NewQuizHandler(quizUsecase, logger)
	webhookHandler := handler.NewWebhookHandler(accountUsecase, []byte(cfg.WebhookSecret), logger)
	adminHandler := handler.NewAdminHandler(accountUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(map[string]health.Pinger{
		"postgres": pool,
		"blob":     store,
	}, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(
			logger,
			sessions,
			[]byte(cfg.AdminAPIKey),
			authHandler,
			contentHandler,
			quizHandler,
			webhookHandler,
			adminHandler,
		),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	sweeper := maintenance.NewSweeper(accountRepo, sweepSessions, logger)
	go func() {
		if err := sweeper.Start(ctx, cfg.SweepSchedule); err != nil {
			logger.Error("sweeper", "error", err)
		}
	}()

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
