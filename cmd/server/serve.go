package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ndewijer/wealth-manager-backend/internal/address"
	"github.com/ndewijer/wealth-manager-backend/internal/api"
	"github.com/ndewijer/wealth-manager-backend/internal/cache"
	"github.com/ndewijer/wealth-manager-backend/internal/config"
	"github.com/ndewijer/wealth-manager-backend/internal/database"
	"github.com/ndewijer/wealth-manager-backend/internal/graphql"
	"github.com/ndewijer/wealth-manager-backend/internal/logger"
	"github.com/ndewijer/wealth-manager-backend/internal/repository"
	"github.com/ndewijer/wealth-manager-backend/internal/scheduler"
	"github.com/ndewijer/wealth-manager-backend/internal/secret"
	"github.com/ndewijer/wealth-manager-backend/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	log := logger.Get()

	backend, closeBackend, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer closeBackend()

	store := cache.New(cfg.Cache.TTL)

	sched := scheduler.New()
	if err := sched.AddCacheSweep(cfg.Cache.SweepSchedule, store); err != nil {
		return err
	}
	sched.Start()

	router := api.NewRouter(api.Services{
		System:     service.NewSystemService(backend, cfg.Backend.Kind),
		Session:    service.NewSessionService(backend, store),
		Wealth:     service.NewWealthService(backend, store, cfg.Backend.EnrichConcurrency),
		Asset:      service.NewAssetService(backend, store),
		Ownership:  service.NewOwnershipService(backend, store, cfg.Ownership.EnforceSum),
		Search:     service.NewSearchService(backend, store),
		Customer:   service.NewCustomerService(backend, store),
		Conformity: service.NewConformityService(backend, store),
		Address:    address.NewClient(cfg.Address.URL, nil),
	}, cfg)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infow("Starting server", "addr", cfg.Server.Addr, "backend", cfg.Backend.Kind)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal for graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sched.Stop(shutdownCtx)
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server exited")
	return nil
}

// openBackend returns the configured data source and its cleanup.
func openBackend(cfg *config.Config) (service.Backend, func(), error) {
	log := logger.Get()

	if cfg.Backend.Kind == config.BackendGraphQL {
		log.Infow("Using GraphQL backend", "endpoint", cfg.Backend.GraphQLEndpoint)
		client := graphql.NewClient(cfg.Backend.GraphQLEndpoint, nil)
		return graphql.NewBackend(client), func() {}, nil
	}

	db, err := openDatabase(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	box, err := lcbBox(cfg.Security.LCBKey)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	log.Infow("Connected to database", "path", cfg.Database.Path)
	return repository.NewStore(db, box), func() { db.Close() }, nil
}

func openDatabase(path string) (*sql.DB, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// lcbBox builds the questionnaire cipher. Without a configured key a
// throwaway one is generated: answers saved with it are unreadable after a
// restart.
func lcbBox(key string) (*secret.Box, error) {
	if key == "" {
		generated, err := secret.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate LCB key: %w", err)
		}
		logger.Get().Warn("LCB_ENCRYPTION_KEY is not set, using an ephemeral key")
		key = generated
	}
	box, err := secret.NewBox(key)
	if err != nil {
		return nil, fmt.Errorf("invalid LCB_ENCRYPTION_KEY: %w", err)
	}
	return box, nil
}
