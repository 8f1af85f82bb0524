package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/swisscluster/bank-importer/internal/importer"
	"github.com/swisscluster/bank-importer/internal/repository"
)

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(importSvc *importer.Service, txnRepo *repository.BankTransactionRepo) http.Handler {
	h := &Handlers{
		importSvc: importSvc,
		txnRepo:   txnRepo,
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Route("/api/v1", func(r chi.Router) {
		// Import flow.
		r.Post("/import/preview", h.PreviewImport)
		r.Post("/import/commit", h.CommitImport)

		// Recorded transactions.
		r.Get("/transactions", h.ListTransactions)
	})

	return r
}
