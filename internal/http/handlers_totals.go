package http

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"networth/internal/core"
	"networth/internal/log"
)

func (s *Server) handleLatestTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := s.queries.LatestTotals(r.Context())
	if err != nil {
		writeError(w, r, log.OpList, fmt.Errorf("latest totals: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"totals": totals})
}

func (s *Server) handleTotalsHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := ParseLimit(r)
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	history, err := s.queries.TotalsHistory(r.Context(), limit)
	if err != nil {
		writeError(w, r, log.OpList, fmt.Errorf("totals history: %w", err))
		return
	}
	if history == nil {
		history = []core.DatedTotals{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": history})
}

type exchangeRatesRequest struct {
	Date   *core.Date       `json:"date"`
	GbpAud *decimal.Decimal `json:"gbpAud"`
	UsdAud *decimal.Decimal `json:"usdAud"`
}

func (s *Server) handleExchangeRates(w http.ResponseWriter, r *http.Request) {
	var req exchangeRatesRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpRates, err)
		return
	}
	if req.Date == nil {
		writeError(w, r, log.OpRates, fmt.Errorf("%w: date is required", errBadRequest))
		return
	}
	updated, err := s.mutations.UpdateExchangeRates(r.Context(), *req.Date, req.GbpAud, req.UsdAud)
	if err != nil {
		writeError(w, r, log.OpRates, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": *req.Date, "updated": updated})
}
