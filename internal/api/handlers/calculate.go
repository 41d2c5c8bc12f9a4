package handlers

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/api/request"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/api/response"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/model"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/report"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/service"
	"github.com/Snax777/fullstack-crypto-tax-calculator/internal/validation"
)

// CalculateHandler handles HTTP requests for the calculation endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the calculationService.
type CalculateHandler struct {
	calculationService *service.CalculationService
}

// NewCalculateHandler creates a new CalculateHandler with the provided service dependency.
func NewCalculateHandler(calculationService *service.CalculationService) *CalculateHandler {
	return &CalculateHandler{calculationService: calculationService}
}

// Calculate handles POST requests to compute per-tax-year capital gains with
// carry-forward, plus the SARS taxable-gain figures.
//
// Endpoint: POST /api/calculate
// Request Body: {"session_id": "...", "other_income": 500000}
// Response: 200 OK with a success envelope around CalculationResult
// Error: 400 Bad Request on validation failure, invalid dates or overselling
// Error: 404 Not Found when the session has no transactions
func (h *CalculateHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	_, result, err := h.runCalculation(r)
	if err != nil {
		respondCalculationError(w, err)
		return
	}

	response.RespondSuccess(w, http.StatusOK, result)
}

// CalculateSimple handles POST requests for the single-pass calculation with
// no tax-year grouping.
//
// Endpoint: POST /api/calculate/simple
func (h *CalculateHandler) CalculateSimple(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CalculateRequest](r)
	if err != nil {
		response.RespondFail(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCalculateRequest(req); err != nil {
		response.RespondFail(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.calculationService.CalculateCombined(r.Context(), req.SessionID)
	if err != nil {
		respondCalculationError(w, err)
		return
	}

	response.RespondSuccess(w, http.StatusOK, result)
}

// DownloadPDF handles POST requests to render the calculation as a PDF
// report.
//
// Endpoint: POST /api/calculate/download-pdf
// Response: 200 OK with application/pdf body
func (h *CalculateHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	req, result, err := h.runCalculation(r)
	if err != nil {
		respondCalculationError(w, err)
		return
	}

	pdf, err := report.Generate(result)
	if err != nil {
		response.RespondFail(w, http.StatusInternalServerError, "failed to render PDF report", err.Error())
		return
	}

	filename := fmt.Sprintf("crypto-tax-report-%s.pdf", req.SessionID)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		// Headers are gone at this point; nothing to do but log upstream.
		return
	}
}

func (h *CalculateHandler) runCalculation(r *http.Request) (request.CalculateRequest, *model.CalculationResult, error) {
	req, err := parseJSON[request.CalculateRequest](r)
	if err != nil {
		return req, nil, err
	}

	if err := validation.ValidateCalculateRequest(req); err != nil {
		return req, nil, err
	}

	var otherIncome *decimal.Decimal
	if req.OtherIncome != nil {
		d := decimal.NewFromFloat(*req.OtherIncome)
		otherIncome = &d
	}

	result, err := h.calculationService.CalculateByTaxYear(r.Context(), req.SessionID, otherIncome)
	if err != nil {
		return req, nil, err
	}

	return req, result, nil
}

func respondCalculationError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		response.RespondFail(w, status, "calculation failed", err.Error())
		return
	}
	response.RespondFail(w, status, err.Error(), nil)
}
