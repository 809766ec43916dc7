package http

import (
	"net/http"
	"strings"

	"networth/internal/core"
	"networth/internal/log"
)

// handleListCryptoTransactions lists the ledger, optionally filtered by the
// "platform" query parameter.
func (s *Server) handleListCryptoTransactions(w http.ResponseWriter, r *http.Request) {
	platform := core.Platform(strings.TrimSpace(r.URL.Query().Get("platform")))
	txs, err := s.queries.ListCryptoTransactions(r.Context(), platform)
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	if txs == nil {
		txs = []core.CryptoTransaction{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": txs})
}

func (s *Server) handleCreateCryptoTransaction(w http.ResponseWriter, r *http.Request) {
	var tx core.CryptoTransaction
	if err := DecodeJSON(w, r, &tx); err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	tx.ID = 0
	saved, err := s.mutations.AddCryptoTransaction(r.Context(), tx)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleDeleteCryptoTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r, "id")
	if err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	if err := s.mutations.DeleteCryptoTransaction(r.Context(), id); err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCryptoSummaries(w http.ResponseWriter, r *http.Request) {
	rows, err := s.queries.ListCryptoSummaries(r.Context())
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": rows})
}

func (s *Server) handleCreateCryptoSummary(w http.ResponseWriter, r *http.Request) {
	var cs core.CryptoSummary
	if err := DecodeJSON(w, r, &cs); err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	cs.ID = 0
	saved, err := s.mutations.AddCryptoSummary(r.Context(), cs)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved.View())
}

func (s *Server) handleUpdateCryptoSummary(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r, "id")
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	var patch core.CryptoSummaryPatch
	if err := DecodeJSON(w, r, &patch); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	saved, err := s.mutations.UpdateCryptoSummary(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, saved.View())
}
