package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskify/internal/api"
	"taskify/internal/app/service"
	"taskify/internal/common/security"
	"taskify/internal/domain/repository"
	"taskify/internal/platform/config"
	"taskify/internal/platform/database"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("ERROR: invalid configuration: %v", err)
	}
	log.Println("INFO: configuration loaded")

	// 2. Initialize Database
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, dialect, err := database.Open(ctx, cfg.DSN(), cfg.DBMaxOpenConns)
	cancel()
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	defer db.Close()

	if cfg.DBAutoMigrate {
		if err := database.Migrate(context.Background(), db, dialect); err != nil {
			log.Fatalf("ERROR: migrate: %v", err)
		}
	}

	// 3. Initialize Security
	tokens, err := security.NewTokenService([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTTTL)
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	hasher := security.NewPasswordHasher(cfg.BcryptCost)

	// 4. Initialize Repositories
	userRepo := repository.NewSQLUserRepository(db)
	taskRepo := repository.NewSQLTaskRepository(db)

	// 5. Initialize Services
	authService := service.NewAuthService(userRepo, hasher, tokens)
	taskService := service.NewTaskService(taskRepo)

	// 6. Initialize Router & HTTP Server
	router := api.NewRouter(api.RouterConfig{
		Version:              cfg.AppVersion,
		RequestTimeout:       cfg.RequestTimeout,
		SlowRequestThreshold: cfg.SlowRequestThreshold,
	}, authService, taskService)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 7. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("INFO: server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ERROR: could not listen on %s: %v", cfg.APIPort, err)
		}
	}()

	<-stop

	log.Println("INFO: shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("ERROR: server shutdown failed: %v", err)
	}
	log.Println("INFO: server stopped gracefully")
}
