package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pressly/goose/v3"

	"github.com/ktozkim/watchdog/internal/config"
	"github.com/ktozkim/watchdog/internal/handler"
	"github.com/ktozkim/watchdog/internal/migrations"
	"github.com/ktozkim/watchdog/internal/repository"
	"github.com/ktozkim/watchdog/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := sqlx.Connect("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := migrate(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	slog.Info("database ready")

	userRepo := repository.NewUserRepository(db)
	officialRepo := repository.NewOfficialRepository(db)
	reportRepo := repository.NewReportRepository(db)

	authSvc := service.NewAuthService(userRepo, service.AuthConfig{
		JWTSecret:          cfg.JWTSecret,
		GoogleClientID:     cfg.GoogleClientID,
		GoogleClientSecret: cfg.GoogleClientSecret,
		GoogleCallbackURL:  cfg.GoogleCallbackURL,
	})
	officialSvc := service.NewOfficialService(officialRepo)
	reportSvc := service.NewReportService(reportRepo)

	authHandler := handler.NewAuthHandler(authSvc, cfg.FrontendURL)
	officialHandler := handler.NewOfficialHandler(officialSvc)
	reportHandler := handler.NewReportHandler(reportSvc)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	e.Validator = handler.NewAppValidator()

	e.Use(echomw.RequestID())
	e.Use(handler.RequestLogger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentType},
		ExposeHeaders:    []string{echo.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/google", authHandler.GoogleRedirect)
	auth.GET("/google/callback", authHandler.GoogleCallback)
	auth.GET("/me", authHandler.Me, handler.RequireAuth(authSvc))

	api.GET("/officials", officialHandler.List)
	api.GET("/officials/:id", officialHandler.Get)

	api.GET("/reports", reportHandler.List, handler.OptionalAuth(authSvc))
	api.GET("/reports/:id", reportHandler.Get)
	api.POST("/reports", reportHandler.Create, handler.RequireAuth(authSvc))

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		errCh <- e.Start(fmt.Sprintf(":%d", cfg.Port))
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

func migrate(db *sqlx.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return goose.UpContext(ctx, db.DB, ".")
}
