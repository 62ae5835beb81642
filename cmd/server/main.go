// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/perfume-storefront/internal/config"
	"github.com/javajoker/perfume-storefront/internal/database"
	"github.com/javajoker/perfume-storefront/internal/i18n"
	"github.com/javajoker/perfume-storefront/internal/router"
	"github.com/javajoker/perfume-storefront/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Initialize i18n
	if err := i18n.Initialize(cfg.I18n.DefaultLocale); err != nil {
		logger.WithError(err).Fatal("Failed to initialize i18n")
	}

	store, cleanup, err := openStore(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize state store")
	}
	defer cleanup()

	// Initialize router
	r, err := router.Initialize(cfg, store, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize router")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":    cfg.Server.Port,
			"backend": cfg.Backend.BaseURL,
			"state":   cfg.State.Driver,
		}).Info("Starting storefront server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

// openStore builds the visitor state store selected by STATE_DRIVER.
func openStore(cfg *config.Config, logger *logrus.Logger) (storage.Store, func(), error) {
	ttl := cfg.Redis.StateTTL()

	switch cfg.State.Driver {
	case "postgres":
		db, err := database.Initialize(cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(db, logger); err != nil {
			database.Close(db, logger)
			return nil, nil, err
		}

		stop := make(chan struct{})
		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if n, err := database.PurgeStale(db, ttl); err != nil {
						logger.WithError(err).Warn("State purge failed")
					} else if n > 0 {
						logger.WithField("rows", n).Debug("Purged stale visitor state")
					}
				case <-stop:
					return
				}
			}
		}()

		return storage.NewGormStore(db), func() {
			close(stop)
			database.Close(db, logger)
		}, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		store := storage.NewRedisStore(client, ttl)
		return store, func() { store.Close() }, nil

	default:
		logger.Warn("Using in-memory state store; visitor state is lost on restart")
		store := storage.NewMemoryStore(ttl)
		return store, func() { store.Close() }, nil
	}
}
