package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mx-styles/library-management-system/internal/auth"
	"github.com/mx-styles/library-management-system/internal/config"
	"github.com/mx-styles/library-management-system/internal/db"
	"github.com/mx-styles/library-management-system/internal/logger"
	"github.com/mx-styles/library-management-system/internal/metrics"
	"github.com/mx-styles/library-management-system/internal/repository/postgres"
	"github.com/mx-styles/library-management-system/internal/services"
	"github.com/mx-styles/library-management-system/internal/web"
	"github.com/mx-styles/library-management-system/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool); err != nil {
		log.Error("migrations", "err", err)
		os.Exit(1)
	}

	repos := postgres.NewRepositories(pool)
	if err := db.SeedBooks(ctx, repos.Books); err != nil {
		log.Error("seed", "err", err)
		os.Exit(1)
	}

	metrics.Init()
	wp := worker.NewPool(4)
	defer wp.Stop()

	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTSecret+":refresh", cfg.JWTIssuer, 15*time.Minute, 7*24*time.Hour)
	audit := services.NewAuditTrail(repos.AuditLogs, wp)

	userSvc := services.NewUserService(repos.Users, tm, audit)
	catalogSvc := services.NewCatalogService(repos.Books, repos.Borrows, audit)
	lendingSvc := services.NewLendingService(repos.Borrows, audit)

	sessions := web.NewSessionStore(cfg.SessionSecret)
	srvWeb, err := web.NewServer(userSvc, catalogSvc, lendingSvc, sessions)
	if err != nil {
		log.Error("templates", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.WebPort,
		Handler:           srvWeb.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("web server starting", "port", cfg.WebPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
