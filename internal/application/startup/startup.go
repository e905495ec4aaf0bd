// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beaconworks/beacon-go/internal/application/container"
	"github.com/beaconworks/beacon-go/internal/infrastructure/email"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/performance"
	"github.com/beaconworks/beacon-go/internal/infrastructure/persistence/database"
	"github.com/beaconworks/beacon-go/internal/infrastructure/security"
	"github.com/beaconworks/beacon-go/internal/presentation/http/server"
	"github.com/beaconworks/beacon-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	log.Println("Initializing Beacon...")

	// Step 1: Structured logging
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	logger.Startup().Info("Channeled logging initialized")

	perfTracker := performance.NewTracker()

	// Step 2: Database connection
	logger.Startup().Info("Connecting to database...")
	db, err := database.Connect(logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Step 3: Schema and seed admin
	logger.Startup().Info("Ensuring database schema...")
	tableCreator := database.NewTableCreator()
	if err := tableCreator.CreateSchema(db.DB); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if config.AdminEmail != "" && config.AdminPassword != "" {
		if err := tableCreator.SeedAdmin(db.DB, config.AdminEmail, config.AdminPassword); err != nil {
			return fmt.Errorf("failed to seed admin account: %w", err)
		}
		logger.Startup().Info("Admin account ensured", "email", config.AdminEmail)
	} else {
		logger.Startup().Warn("ADMIN_EMAIL/ADMIN_PASSWORD not set; admin login unavailable")
	}

	// Step 4: JWT secret for admin sessions
	if config.JWTSecret == "" {
		secret, err := security.GenerateSecureKey(64)
		if err != nil {
			return fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		config.JWTSecret = secret
		logger.Startup().Warn("JWT_SECRET not set; using an ephemeral secret, admin sessions will not survive restarts")
	}

	// Step 5: Email notifications (optional)
	var emailService email.Service
	if os.Getenv("RESEND_API_KEY") != "" {
		emailService, err = email.NewService(logger)
		if err != nil {
			logger.Startup().Warn("Email service unavailable", "error", err.Error())
		} else {
			logger.Startup().Info("Email service initialized")
		}
	} else {
		logger.Startup().Info("RESEND_API_KEY not set; lead notifications disabled")
	}

	// Step 6: Dependency injection container
	logger.Startup().Info("Initializing dependency injection container...")
	appContainer := container.NewContainer(db, emailService, logger, perfTracker)
	logger.Startup().Info("Dependency injection container created with singleton services")

	// Step 7: Background idle session sweeper
	sweeperStop := make(chan struct{})
	appContainer.SessionService.StartSweeper(sweeperStop)
	logger.Startup().Info("Idle session sweeper started", "interval", config.SessionSweepInterval)

	// Step 8: HTTP server
	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()
	close(sweeperStop)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
}
