package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/subtextlab/subtext/internal/api"
	"github.com/subtextlab/subtext/internal/auth"
	"github.com/subtextlab/subtext/internal/config"
	"github.com/subtextlab/subtext/internal/database"
)

var (
	serveConfigPath  string
	serveMigrateOnly bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the analysis API server",
	Long: `Start the HTTP API server.

Persistence and authentication are optional: without a database URL the
server analyzes without storing, and without an auth issuer the API runs
open. See the config file for details.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to YAML config file")
	serveCmd.Flags().BoolVar(&serveMigrateOnly, "migrate", false, "Run migrations and exit")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return err
	}

	apiCfg := api.Config{
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
	}

	if cfg.Database.URL != "" {
		fmt.Fprintln(os.Stderr, "Running database migrations...")
		if err := database.Migrate(cfg.Database.URL); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Fprintln(os.Stderr, "Migrations complete")

		if serveMigrateOnly {
			return nil
		}

		db, err := database.New(cmd.Context(), cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		apiCfg.DB = db
	} else if serveMigrateOnly {
		return fmt.Errorf("database URL is required to run migrations")
	}

	if cfg.Auth.Issuer != "" {
		verifier, err := auth.NewVerifier(auth.Config{
			Issuer:   cfg.Auth.Issuer,
			Audience: cfg.Auth.Audience,
		})
		if err != nil {
			return fmt.Errorf("failed to create auth verifier: %w", err)
		}
		apiCfg.AuthVerifier = verifier
	} else {
		fmt.Fprintln(os.Stderr, "Warning: no auth issuer configured, API is open")
	}

	apiServer := api.NewServer(apiCfg)
	defer apiServer.Close()

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      apiServer,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		fmt.Fprintln(os.Stderr, "\nShutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
	}()

	fmt.Fprintf(os.Stderr, "Listening on %s\n", cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
