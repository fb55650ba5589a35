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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/collab-portal-api/api/swagger"
	"github.com/noah-isme/collab-portal-api/internal/handler"
	"github.com/noah-isme/collab-portal-api/internal/middleware"
	"github.com/noah-isme/collab-portal-api/internal/repository"
	"github.com/noah-isme/collab-portal-api/internal/service"
	"github.com/noah-isme/collab-portal-api/pkg/cache"
	"github.com/noah-isme/collab-portal-api/pkg/config"
	"github.com/noah-isme/collab-portal-api/pkg/database"
	"github.com/noah-isme/collab-portal-api/pkg/jobs"
	"github.com/noah-isme/collab-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/collab-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/collab-portal-api/pkg/middleware/requestid"
	"github.com/noah-isme/collab-portal-api/pkg/sanitize"
	"github.com/noah-isme/collab-portal-api/pkg/storage"
)

// @title Research Collaboration Portal API
// @version 1.0.0
// @description Student and professor research collaboration portal
// @BasePath /api/v1
// @schemes http https

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

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(database.URL(cfg.Database)); err != nil {
			return err
		}
		logr.Info("database migrations applied")
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, dashboard cache disabled", zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient)
	defer cacheRepo.Close() //nolint:errcheck

	students := repository.NewStudentRepository(db)
	professors := repository.NewProfessorRepository(db)
	projects := repository.NewProjectRepository(db)
	applications := repository.NewApplicationRepository(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	audit := service.NewAuditWriter(repository.NewAuditRepository(db), jobs.QueueConfig{
		Workers:    2,
		BufferSize: 256,
		MaxRetries: 2,
		Logger:     logr,
	})
	audit.Start(context.Background())
	defer audit.Stop()

	creds, err := service.NewCredentialStore(cfg.Credentials.BcryptCost)
	if err != nil {
		return err
	}
	codec, err := service.NewTokenCodec(tokenConfig(cfg.Session))
	if err != nil {
		return err
	}

	cleaner := sanitize.NewText()
	validate := service.NewValidator()
	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, cacheRepo.Enabled())
	merger := service.NewMerger(cleaner, validate)

	dashboards := service.NewDashboardService(applications, projects, students, cacheSvc, cfg.Dashboard.CacheTTL, logr)
	authSvc := service.NewAuthService(students, professors, creds, codec, audit, metrics, cleaner, validate, logr)
	projectSvc := service.NewProjectService(projects, merger, dashboards, audit, cleaner, validate, logr)
	applicationSvc := service.NewApplicationService(applications, projects, dashboards, audit, metrics, cleaner, validate, logr)
	profileSvc := service.NewProfileService(students, professors, applications, merger, dashboards, audit, logr)
	exportSvc := service.NewExportService(applications, logr)
	resolver := service.NewSessionResolver(codec, cfg.Session.CookieName, authSvc, cfg.Session.ReloadIdentity, logr)

	photos, err := storage.NewLocalStorage(cfg.Uploads)
	if err != nil {
		return err
	}

	authLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		PerMinute: cfg.RateLimit.AuthPerMinute,
		Burst:     cfg.RateLimit.AuthBurst,
	}, logr)
	defer authLimiter.Stop()

	r, err := newEngine(cfg)
	if err != nil {
		return err
	}
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.ClientInfo())
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Session(resolver))

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth:         handler.NewAuthHandler(authSvc, handler.CookieConfig{Name: cfg.Session.CookieName, Secure: cfg.Session.CookieSecure}),
		Projects:     handler.NewProjectHandler(projectSvc),
		Applications: handler.NewApplicationHandler(applicationSvc, exportSvc),
		Profiles:     handler.NewProfileHandler(profileSvc, photos, logr),
		Dashboards:   handler.NewDashboardHandler(dashboards),
		Metrics:      handler.NewMetricsHandler(metrics, db),
	}, authLimiter.Middleware())

	if cfg.Uploads.PublicPrefix != "" {
		r.Static(cfg.Uploads.PublicPrefix, cfg.Uploads.Dir)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", server.Addr), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func tokenConfig(cfg config.SessionConfig) service.TokenConfig {
	return service.TokenConfig{
		Secret: []byte(cfg.Secret),
		TTL:    cfg.Expiration,
		Issuer: cfg.Issuer,
	}
}

// newEngine returns a bare engine that only honours X-Forwarded-For from the
// configured proxies, so per-IP limits key on the real peer address.
func newEngine(cfg *config.Config) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	return r, nil
}
