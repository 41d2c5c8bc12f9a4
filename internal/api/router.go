package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/api/handlers"
	custommiddleware "github.com/Snax777/fullstack-crypto-tax-calculator/internal/api/middleware"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/config"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	importService *service.ImportService,
	transactionService *service.TransactionService,
	calculationService *service.CalculationService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/transactions", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(importService, transactionService)
			r.Post("/upload", transactionHandler.Upload)
			r.Get("/session/{sessionId}", transactionHandler.SessionTransactions)
			r.Delete("/session/{sessionId}", transactionHandler.DeleteSession)
			r.Get("/by-tax-year/{sessionId}", transactionHandler.ByTaxYear)
		})

		r.Route("/calculate", func(r chi.Router) {
			calculateHandler := handlers.NewCalculateHandler(calculationService)
			r.Post("/", calculateHandler.Calculate)
			r.Post("/simple", calculateHandler.CalculateSimple)
			r.Post("/download-pdf", calculateHandler.DownloadPDF)
		})
	})

	return r
}
