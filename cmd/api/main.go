// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetmaster/internal/config"
	"fleetmaster/internal/db"
	"fleetmaster/internal/db/migrations"
	"fleetmaster/internal/jobs"
	"fleetmaster/internal/logger"
	"fleetmaster/internal/repository"
	"fleetmaster/internal/routes"
	"fleetmaster/internal/scheduler"
	"fleetmaster/internal/services"
)

// @title                       FleetMaster API
// @version                     1.0
// @description                 Car rental fleet management: branches, cars, customers, rentals, statistics and accounts.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
func main() {
	rollback := flag.Int("rollback", 0, "revert the given number of migrations and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Initialize("info", "text")
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.Initialize(cfg.LogLevel, cfg.LogFormat)

	if *rollback > 0 {
		if err := revert(cfg, *rollback); err != nil {
			logger.Error("Rollback failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server exiting")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.CreateDatabaseIfNotExists(ctx, cfg.DatabaseURL); err != nil {
		return err
	}

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := migrations.Up(ctx, database.DB); err != nil {
		return err
	}

	deps := routes.Deps{}
	if deps.Mailer, err = services.NewEmailSender(cfg); err != nil {
		return err
	}

	if cfg.RedisAddr != "" {
		client, err := config.NewRedisClient(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		deps.Limiter = services.NewRedisResetLimiter(client, cfg.ResetRateLimit,
			time.Duration(cfg.ResetRateWindowSeconds)*time.Second)
		logger.Info("Reset rate limiting enabled", "limit", cfg.ResetRateLimit, "window_seconds", cfg.ResetRateWindowSeconds)
	}

	if cfg.S3Bucket != "" {
		s3Config, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return err
		}
		deps.Images = services.NewS3ImageStore(s3Config)
		logger.Info("Car image uploads enabled", "bucket", cfg.S3Bucket)
	}

	users := repository.NewUserRepository(database.DB)
	customers := repository.NewCustomerRepository(database.DB)
	resets := repository.NewPasswordResetRepository(database.DB)
	deps.Accounts = services.NewAccountService(users, customers, resets, deps.Mailer, deps.Limiter, cfg)
	if err := deps.Accounts.EnsureAdmin(ctx); err != nil {
		return err
	}

	sched, err := scheduler.NewScheduler(jobs.NewJobRunner(resets), cfg.TokenCleanupSchedule)
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRoutes(database.DB, cfg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment)
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
	logger.Info("Shutting down server...")

	// Give server 5 seconds to finish current requests
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func revert(cfg *config.Config, steps int) error {
	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()
	return migrations.Rollback(ctx, database.DB, steps)
}
