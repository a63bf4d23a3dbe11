package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/google/uuid"

	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	"github.com/cantinatita/card_ledger_app/internal/core/ports/repositories"
	"github.com/cantinatita/card_ledger_app/internal/core/services"
	"github.com/cantinatita/card_ledger_app/internal/handlers"
	"github.com/cantinatita/card_ledger_app/internal/middleware"
	"github.com/cantinatita/card_ledger_app/internal/platform/config"
	"github.com/cantinatita/card_ledger_app/internal/repositories/database/pgsql"
	"github.com/cantinatita/card_ledger_app/internal/utils"
	"github.com/cantinatita/card_ledger_app/pkg/database"
)

// @title Cantina Card Ledger API
// @version 1.0
// @description Prepaid card balance ledger for the school cafeteria.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.FrontendBaseURL != "" {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = []string{cfg.FrontendBaseURL}
		corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
		r.Use(cors.New(corsConfig))
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos)

	if err := ensureBootstrapAdmin(context.Background(), logger, cfg, repos); err != nil {
		logger.Error("Failed to bootstrap administrator account", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, dbPool)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for interrupt, then drain in-flight requests.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shut down", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Server exited")
}

// ensureBootstrapAdmin creates an administrator account on an empty staff
// table so the first real accounts can be created through the API.
func ensureBootstrapAdmin(ctx context.Context, logger *slog.Logger, cfg *config.Config, repos *repositories.RepositoryProvider) error {
	if cfg.BootstrapAdminPassword == "" {
		return nil
	}

	existing, err := repos.StaffRepo.ListStaff(ctx, 1, 0)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	hash, err := utils.HashPassword(cfg.BootstrapAdminPassword)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	adminID := uuid.NewString()
	admin := domain.Staff{
		StaffID:      adminID,
		Username:     cfg.BootstrapAdminUsername,
		Name:         "Administrador",
		Email:        cfg.BootstrapAdminEmail,
		PasswordHash: hash,
		Role:         domain.RoleAdministrator,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     adminID,
			LastUpdatedAt: now,
			LastUpdatedBy: adminID,
		},
	}
	if err := repos.StaffRepo.SaveStaff(ctx, admin); err != nil {
		return err
	}

	logger.Info("Bootstrap administrator created", slog.String("username", admin.Username))
	return nil
}

// runMigrations applies all pending schema migrations using a temporary
// database/sql connection over the pgx stdlib driver.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply")
	} else {
		logger.Info("Database migrations applied successfully")
	}
	return nil
}
