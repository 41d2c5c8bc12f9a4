package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/api/response"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/apperrors"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/service"
)

// maxUploadSize caps CSV uploads at 10 MiB.
const maxUploadSize = 10 << 20

// TransactionHandler handles HTTP requests for transaction ingestion and
// session management. It serves as the HTTP layer adapter, parsing requests
// and delegating business logic to the services.
type TransactionHandler struct {
	importService      *service.ImportService
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependencies.
func NewTransactionHandler(importService *service.ImportService, transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		importService:      importService,
		transactionService: transactionService,
	}
}

// Upload handles POST requests to import a CSV of transactions into a new
// session. Rows that fail validation are reported individually; valid rows
// are stored.
//
// Endpoint: POST /api/transactions/upload (multipart field "file")
// Response: 201 Created with ImportResult (session id, count, row errors)
// Error: 400 Bad Request if the file is missing or unreadable
func (h *TransactionHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, _, err := r.FormFile("file")
	if err != nil {
		response.RespondFail(w, http.StatusBadRequest, "a CSV file is required in the \"file\" field", err.Error())
		return
	}
	defer file.Close()

	result, err := h.importService.ImportCSV(r.Context(), file)
	if err != nil {
		response.RespondFail(w, http.StatusBadRequest, "failed to import CSV", err.Error())
		return
	}

	response.RespondSuccess(w, http.StatusCreated, result)
}

// SessionTransactions handles GET requests to list a session's transactions
// in chronological order.
//
// Endpoint: GET /api/transactions/session/{sessionId}
// Response: 200 OK with array of Transaction
// Error: 404 Not Found if the session has no transactions
func (h *TransactionHandler) SessionTransactions(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	transactions, err := h.transactionService.GetSessionTransactions(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			response.RespondFail(w, http.StatusNotFound, err.Error(), nil)
			return
		}
		response.RespondFail(w, http.StatusInternalServerError, "failed to retrieve transactions", err.Error())
		return
	}

	response.RespondSuccess(w, http.StatusOK, transactions)
}

// ByTaxYear handles GET requests to list a session's transactions grouped by
// SARS tax year, most recent first.
//
// Endpoint: GET /api/transactions/by-tax-year/{sessionId}
// Response: 200 OK with array of TaxYearTransactions
// Error: 404 Not Found if the session has no transactions
func (h *TransactionHandler) ByTaxYear(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	grouped, err := h.transactionService.GroupedByTaxYear(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			response.RespondFail(w, http.StatusNotFound, err.Error(), nil)
			return
		}
		response.RespondFail(w, statusForError(err), "failed to group transactions", err.Error())
		return
	}

	response.RespondSuccess(w, http.StatusOK, grouped)
}

// DeleteSession handles DELETE requests to remove a session and all its
// transactions.
//
// Endpoint: DELETE /api/transactions/session/{sessionId}
// Response: 204 No Content on successful deletion
// Error: 404 Not Found if the session does not exist
func (h *TransactionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	if err := h.transactionService.DeleteSession(r.Context(), sessionID); err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			response.RespondFail(w, http.StatusNotFound, err.Error(), nil)
			return
		}
		response.RespondFail(w, http.StatusInternalServerError, "failed to delete session", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
