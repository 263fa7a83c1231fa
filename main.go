// This is the main entry point of the campus portal.
// It's responsible for loading configuration, choosing the store driver,
// wiring services and handlers, setting up the HTTP router and middleware,
// and starting the HTTP server. It also handles graceful shutdown.
//
// Analogy to Nest.js: this file is similar to `main.ts`, where the application
// instance is created, modules are configured, and the app is bootstrapped.
//
// Commands:
//
//	campus-portal serve              start the HTTP API (default)
//	campus-portal migrate [up|down]  apply or roll back the schema
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// `godotenv` loads environment variables from a .env file, useful for development.
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/user/campus-portal-go/auth"
	"github.com/user/campus-portal-go/background"
	"github.com/user/campus-portal-go/config"
	"github.com/user/campus-portal-go/db"
	"github.com/user/campus-portal-go/seed"
)

func main() {
	if err := newCLI().Run(os.Args); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:           "campus-portal",
		Usage:          "campus issue reporting and anti-ragging portal API",
		DefaultCommand: "serve",
		Before: func(c *cli.Context) error {
			// In production, variables are usually set directly and no .env exists.
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("load .env: %w", err)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start the HTTP API server",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "port", Usage: "override PORT"},
				},
				Action: runServe,
			},
			{
				Name:      "migrate",
				Usage:     "apply (up) or roll back (down) the database schema",
				ArgsUsage: "[up|down]",
				Action:    runMigrate,
			},
		},
	}
}

// loadConfig loads configuration and builds the logger that every command uses.
func loadConfig() (*config.AppConfig, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(os.Stdout, cfg.LogLevel, cfg.IsProduction())
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}
	return cfg, logger, nil
}

func runMigrate(c *cli.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.StoreDriver != config.StoreDriverPostgres {
		return cli.Exit("migrate requires STORE_DRIVER=postgres", 2)
	}

	dir := db.Up
	switch arg := c.Args().First(); arg {
	case "", "up":
	case "down":
		dir = db.Down
	default:
		return cli.Exit(fmt.Sprintf("unknown direction %q (want up or down)", arg), 2)
	}
	return db.RunMigrations(cfg.Database.DSN(), dir, logger)
}

func runServe(c *cli.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if port := c.String("port"); port != "" {
		cfg.Server.Port = port
	}

	ctx := c.Context
	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	hasher := auth.NewScryptHasher()
	if err := seed.Run(ctx, st.users, st.issues, hasher, cfg.Seed, logger); err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}

	app := newApplication(cfg, logger, st, hasher)

	// The sweeper runs until `stopChan` is closed during shutdown.
	stopChan := make(chan struct{})
	sweeper := background.StartSessionSweeper(app.authService, cfg.Session.SweepInterval, logger, stopChan)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      app.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// The server is started in a separate goroutine so that this one can
	// listen for shutdown signals.
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", addr, "env", cfg.Env, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		logger.Info("server shutting down", "signal", sig.String())
	case err := <-serveErr:
		close(stopChan)
		sweeper.Wait()
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	close(stopChan)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	sweeper.Wait()
	logger.Info("server stopped gracefully")
	return nil
}
