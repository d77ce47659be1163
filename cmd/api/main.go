package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	_ "github.com/noah-isme/dojo-api/api/swagger"
	"github.com/noah-isme/dojo-api/internal/handler"
	"github.com/noah-isme/dojo-api/internal/middleware"
	"github.com/noah-isme/dojo-api/internal/repository"
	"github.com/noah-isme/dojo-api/internal/router"
	"github.com/noah-isme/dojo-api/internal/service"
	appValidator "github.com/noah-isme/dojo-api/internal/validator"
	"github.com/noah-isme/dojo-api/pkg/cache"
	"github.com/noah-isme/dojo-api/pkg/config"
	"github.com/noah-isme/dojo-api/pkg/database"
	"github.com/noah-isme/dojo-api/pkg/logger"
	"github.com/noah-isme/dojo-api/pkg/payments"
	"github.com/noah-isme/dojo-api/pkg/sessionstore"
)

// @title Dojo API
// @version 1.0.0
// @description Membership, scheduling, attendance and progress tracking for a martial arts school
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := database.MigrateUp(db); err != nil {
			logr.Sugar().Fatalw("migrations failed", "error", err)
		}
		logr.Info("migrations applied")
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("redis connection failed", "error", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	validate := appValidator.New()
	metrics := service.NewMetricsService()

	var (
		cacheRepo    service.CacheRepository
		loginLimiter *service.LoginLimiter
	)
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient)
		loginLimiter = service.NewLoginLimiter(repository.NewRateLimitRepository(redisClient), cfg.RateLimit.LoginAttempts, cfg.RateLimit.LoginWindow, logr, metrics)
	} else {
		logr.Warn("redis disabled: response cache and login rate limiting are off")
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	store := sessionstore.New(db, sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Session.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	}, []byte(cfg.Session.Secret))
	purgeCtx, cancelPurge := context.WithTimeout(context.Background(), 10*time.Second)
	if purged, err := store.DeleteExpired(purgeCtx); err != nil {
		logr.Sugar().Warnw("expired session purge failed", "error", err)
	} else if purged > 0 {
		logr.Sugar().Infow("expired sessions purged", "count", purged)
	}
	cancelPurge()

	var gateway service.PaymentGateway
	if cfg.Payments.StripeSecretKey != "" {
		stripeGateway, err := payments.NewStripeGateway(cfg.Payments.StripeSecretKey)
		if err != nil {
			logr.Sugar().Fatalw("stripe init failed", "error", err)
		}
		gateway = stripeGateway
	} else {
		logr.Warn("stripe key not set: payment endpoints will respond 503")
	}

	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	noteRepo := repository.NewProgressNoteRepository(db)
	techniqueRepo := repository.NewTechniqueRepository(db)
	eventRepo := repository.NewEventRepository(db)
	reportRepo := repository.NewReportRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, metrics, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	techniqueSvc := service.NewTechniqueService(techniqueRepo, validate, logr)

	checks := map[string]handler.Pinger{"database": handler.PingFunc(db.PingContext)}
	if redisClient != nil {
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	r := router.New(router.Options{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
	}, router.Dependencies{
		Logger:       logr,
		Metrics:      metrics,
		SessionAuth:  middleware.NewSessionManager(store, cfg.Session.Name),
		Audit:        userRepo,
		LoginLimiter: loginLimiter,
		Checks:       checks,

		Auth:       authSvc,
		Members:    service.NewMemberService(userRepo, cacheSvc, validate, logr, cfg.Members.DefaultPassword),
		Classes:    service.NewClassService(classRepo, userRepo, cacheSvc, validate, logr),
		Sessions:   service.NewSessionService(sessionRepo, classRepo, cacheSvc, validate, logr),
		Attendance: service.NewAttendanceService(attendanceRepo, sessionRepo, userRepo, cacheSvc, validate, logr),
		Progress:   service.NewProgressService(progressRepo, userRepo, cacheSvc, validate, logr),
		Notes:      service.NewProgressNoteService(noteRepo, userRepo, techniqueRepo, validate, logr),
		Techniques: techniqueSvc,
		Events:     service.NewEventService(eventRepo, userRepo, validate, logr),
		Reports:    service.NewReportService(reportRepo, cacheSvc, validate, logr),
		Payments:   service.NewPaymentService(gateway, userRepo, cfg.Payments.Currency, validate, logr),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logr.Sugar().Infow("shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
