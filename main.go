package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fundingnl/backend/config"
	"fundingnl/backend/database"
	"fundingnl/backend/handlers/funding"
	"fundingnl/backend/logging"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "fundingnl",
		Short:        "FundingNL backend API",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the optional YAML config file")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), configPath, runServer)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), configPath, func(ctx context.Context, a *app) error {
				return database.RunMigrations(a.db, a.cfg.MigrationsPath, a.logger)
			})
		},
	}

	seed := &cobra.Command{
		Use:   "seed [file]",
		Short: "Import funding opportunities from a YAML dataset (defaults to the built-in dataset)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), configPath, func(ctx context.Context, a *app) error {
				return runSeed(ctx, a, args)
			})
		},
	}

	root.AddCommand(serve, migrateCmd, seed)
	// serve is the default when no subcommand is given
	root.RunE = serve.RunE
	return root
}

// app carries the process-wide dependencies every command needs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sql.DB
}

func withApp(ctx context.Context, configPath string, run func(ctx context.Context, a *app) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Database unavailable", zap.Error(err))
		return err
	}
	defer db.Close()

	return run(ctx, &app{cfg: cfg, logger: logger, db: db})
}

func runSeed(ctx context.Context, a *app, args []string) error {
	var (
		entries []funding.SeedEntry
		err     error
	)
	if len(args) == 1 {
		f, openErr := os.Open(args[0])
		if openErr != nil {
			return openErr
		}
		defer f.Close()
		entries, err = funding.ParseSeed(f)
	} else {
		entries, err = funding.MockDataset()
	}
	if err != nil {
		return err
	}

	conn, err := pgx.Connect(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect for import: %w", err)
	}
	defer conn.Close(ctx)

	importer := funding.NewImporter(conn)
	redisClient, err := database.NewRedisClient(ctx, a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
	if err != nil {
		a.logger.Warn("Redis unavailable, cached catalog not invalidated", zap.Error(err))
	} else if redisClient != nil {
		defer redisClient.Close()
		importer.WithCache(funding.NewCachedCatalog(redisClient, funding.NewPostgresStore(a.db), a.cfg.Redis.CatalogTTL, a.logger))
	}

	n, err := importer.Import(ctx, entries)
	if err != nil {
		return err
	}
	a.logger.Info("Imported funding opportunities", zap.Int64("rows", n), zap.Int("entries", len(entries)))
	return nil
}

func runServer(ctx context.Context, a *app) error {
	if err := database.RunMigrations(a.db, a.cfg.MigrationsPath, a.logger); err != nil {
		return err
	}

	redisClient, err := database.NewRedisClient(ctx, a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
	if err != nil {
		// The catalog works without its cache.
		a.logger.Warn("Redis unavailable, catalog cache disabled", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	srv, err := newServer(a, redisClient)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.sessions.Start(ctx); err != nil {
		return err
	}
	defer srv.sessions.Stop()
	go srv.closeSocketsOnSignOut(ctx)

	httpServer := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           srv.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Server starting", zap.String("port", a.cfg.Port), zap.String("env", a.cfg.Env))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown.
	srv.hub.CloseAll()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
