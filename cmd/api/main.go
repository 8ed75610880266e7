package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/user94a/pratico-server/internal/config"
	"github.com/user94a/pratico-server/internal/db"
	"github.com/user94a/pratico-server/internal/repo"
	"github.com/user94a/pratico-server/internal/scheduler"
)

func main() {

	// Load configuration
	cfg := config.Load()
	setupLogger(cfg.LogFormat)

	if cfg.Env == "prod" && cfg.JWTSecret == "supersecretkey" {
		slog.Error("JWT_SECRET must be set in prod")
		os.Exit(1)
	}

	// Connect to database FIRST
	database, err := db.Connect(
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
	)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	database.SetMaxOpenConns(cfg.DBMaxOpenConns)
	database.SetMaxIdleConns(cfg.DBMaxIdleConns)

	slog.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	// Apply pending migrations
	if err := db.Run(db.URL(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	// Background overdue sweeper
	if cfg.OverdueSweepCron != "" {
		c, err := scheduler.Run(repo.NewDeadlineRepo(database), cfg.OverdueSweepCron, cfg.CallTimeout)
		if err != nil {
			slog.Error("invalid OVERDUE_SWEEP_CRON", "expr", cfg.OverdueSweepCron, "error", err)
			os.Exit(1)
		}
		defer c.Stop()
	}

	r := newRouter(database, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server LAST
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		slog.Info("starting server with TLS", "port", cfg.Port)
		err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
	} else {
		slog.Info("starting server", "port", cfg.Port)
		err = srv.ListenAndServe()
	}
	if err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// jwtTTL converts the configured token lifetime to a duration.
func jwtTTL(cfg config.Config) time.Duration {
	return time.Duration(cfg.JWTExpireHours) * time.Hour
}

// setupLogger configures slog with a text or JSON handler per config.
func setupLogger(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
