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
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	_ "github.com/noah-isme/attendance-api/api/swagger"
	"github.com/noah-isme/attendance-api/internal/handler"
	"github.com/noah-isme/attendance-api/internal/repository"
	"github.com/noah-isme/attendance-api/internal/service"
	"github.com/noah-isme/attendance-api/pkg/cache"
	"github.com/noah-isme/attendance-api/pkg/config"
	"github.com/noah-isme/attendance-api/pkg/database"
	"github.com/noah-isme/attendance-api/pkg/export"
	"github.com/noah-isme/attendance-api/pkg/logger"
)

// @title Attendance API
// @version 1.0.0
// @description Student registry, attendance marking and attendance reports
// @BasePath /
// @schemes http

const shutdownTimeout = 10 * time.Second

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

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx := context.Background()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	cacheRepo := connectCache(ctx, cfg, logr)
	if cacheRepo != nil {
		defer func() {
			if err := cacheRepo.Close(); err != nil {
				logr.Warn("close report cache", zap.Error(err))
			}
		}()
	}

	router, err := buildRouter(ctx, cfg, logr, db, cacheRepo)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return err
	case sig := <-quit:
		logr.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// connectCache returns nil when report caching is disabled or Redis is unreachable.
func connectCache(ctx context.Context, cfg *config.Config, logr *zap.Logger) *repository.CacheRepository {
	if !cfg.Reports.CacheEnabled {
		return nil
	}
	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("report cache disabled, redis unavailable", zap.Error(err))
		return nil
	}
	return repository.NewCacheRepository(client)
}

func buildRouter(ctx context.Context, cfg *config.Config, logr *zap.Logger, db *sqlx.DB, redisCache *repository.CacheRepository) (*gin.Engine, error) {
	validate := validator.New()
	metrics := service.NewMetricsService()

	studentRepo := repository.NewStudentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	userRepo := repository.NewUserRepository(db)

	// A nil *CacheRepository must not become a non-nil interface.
	var cacheRepo service.CacheRepository
	if redisCache != nil {
		cacheRepo = redisCache
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Reports.CacheTTL, logr, redisCache != nil)

	studentSvc := service.NewStudentService(studentRepo, validate, metrics, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, studentRepo, cacheSvc, metrics, validate, logr)
	userSvc := service.NewUserService(userRepo, validate, logr)
	exportSvc := service.NewExportService(attendanceSvc, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	if cfg.Seed.TestUser {
		if err := userSvc.SeedTestUser(ctx, cfg.Seed.TestUserName, cfg.Seed.TestUserEmail); err != nil {
			return nil, fmt.Errorf("seed test user: %w", err)
		}
	}

	return handler.NewRouter(handler.RouterConfig{
		Logger:         logr,
		Metrics:        metrics,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
	}, handler.Handlers{
		Students:      handler.NewStudentHandler(studentSvc),
		Attendance:    handler.NewAttendanceHandler(attendanceSvc, exportSvc),
		Admins:        handler.NewAdminHandler(userSvc),
		Observability: handler.NewMetricsHandler(metrics, db),
	}), nil
}
