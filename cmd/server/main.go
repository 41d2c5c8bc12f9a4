package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/api"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/config"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/database"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/repository"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	transactionRepo := repository.NewTransactionRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	importService := service.NewImportService(transactionRepo)
	transactionService := service.NewTransactionService(transactionRepo)
	calculationService, err := service.NewCalculationService(transactionRepo, cfg.Tax)
	if err != nil {
		log.Fatalf("Failed to initialize calculation service: %v", err)
	}

	// Create router
	router := api.NewRouter(systemService, importService, transactionService, calculationService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
