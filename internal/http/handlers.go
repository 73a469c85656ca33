package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"khata/internal/core"
	"khata/internal/export"
	"khata/internal/services"
	"khata/internal/storage"
)

type purchaseRequest struct {
	Date  string      `json:"date"`
	Items []core.Item `json:"items"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type ratesResponse struct {
	Item  string           `json:"item"`
	Rates []core.RateQuote `json:"rates"`
}

type spendingResponse struct {
	Months []core.MonthTotal `json:"months"`
	NoData bool              `json:"no_data"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeServiceError maps service failures onto HTTP statuses: validation
// problems are 422, unknown ids 404, storage failures 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, storage.ErrWrite):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to save purchase; nothing was changed"})
	case isValidationError(err):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrNoItems) ||
		errors.Is(err, core.ErrEmptyItemName) ||
		errors.Is(err, core.ErrInvalidQuantity) ||
		errors.Is(err, core.ErrInvalidRate) ||
		errors.Is(err, core.ErrInvalidDate)
}

func (s *Server) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	purchases := s.svc.List(r.Context(), r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, purchases)
}

func (s *Server) handleGetPurchase(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	p, err := s.svc.Create(r.Context(), req.Date, req.Items)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.ratesCache.Purge()
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdatePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	p, err := s.svc.Update(r.Context(), core.Purchase{
		ID:    r.PathValue("id"),
		Date:  req.Date,
		Items: req.Items,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.ratesCache.Purge()
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePurchase(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	s.ratesCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePreviousRates(w http.ResponseWriter, r *http.Request) {
	item := strings.TrimSpace(r.URL.Query().Get("item"))
	if item == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing 'item' query parameter"})
		return
	}

	cacheKey := strings.ToLower(item)
	if rates, ok := s.ratesCache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, ratesResponse{Item: item, Rates: rates})
		return
	}

	rates := s.svc.PreviousRates(r.Context(), item)
	s.ratesCache.Set(cacheKey, rates)
	writeJSON(w, http.StatusOK, ratesResponse{Item: item, Rates: rates})
}

func (s *Server) handleMonthlySpending(w http.ResponseWriter, r *http.Request) {
	months, err := s.svc.MonthlySpending(r.Context())
	if err != nil {
		if errors.Is(err, core.ErrNoData) {
			writeJSON(w, http.StatusOK, spendingResponse{Months: []core.MonthTotal{}, NoData: true})
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spendingResponse{Months: months})
}

// exportSelection resolves the optional ?id= filter shared by both export
// endpoints.
func (s *Server) exportSelection(w http.ResponseWriter, r *http.Request) ([]core.Purchase, bool) {
	if id := r.URL.Query().Get("id"); id != "" {
		p, err := s.svc.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return nil, false
		}
		return []core.Purchase{p}, true
	}
	return s.svc.List(r.Context(), ""), true
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	purchases, ok := s.exportSelection(w, r)
	if !ok {
		return
	}

	name := export.CSVFileName(purchases, time.Now().UnixMilli())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write([]byte(export.CSV(purchases)))
}

func (s *Server) handleExportDocument(w http.ResponseWriter, r *http.Request) {
	purchases, ok := s.exportSelection(w, r)
	if !ok {
		return
	}

	doc, err := export.Document(purchases)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	name := export.DocumentFileName(purchases, time.Now().UnixMilli())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write([]byte(doc))
}
