package http

import (
	"context"
	"net/http"

	"networth/internal/core"
	"networth/internal/log"
	"networth/internal/services"
)

// registerCategory mounts list, create, patch and delete routes for one
// snapshot table under /api/snapshots/<category>.
func registerCategory[T core.Raw, P core.Patch[T], V any](
	s *Server,
	mux *http.ServeMux,
	svc *services.CategoryService[T, P],
	list func(ctx context.Context, limit int) ([]V, error),
) {
	base := "/api/snapshots/" + svc.Category().String()
	mux.HandleFunc("GET "+base, func(w http.ResponseWriter, r *http.Request) {
		limit, err := ParseLimit(r)
		if err != nil {
			writeError(w, r, log.OpList, err)
			return
		}
		rows, err := list(r.Context(), limit)
		if err != nil {
			writeError(w, r, log.OpList, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": rows})
	})

	mux.HandleFunc("POST "+base, func(w http.ResponseWriter, r *http.Request) {
		date, raw, err := DecodeDated[T](w, r)
		if err != nil {
			writeError(w, r, log.OpCreate, err)
			return
		}
		snap, err := svc.Create(r.Context(), date, raw)
		if err != nil {
			writeError(w, r, log.OpCreate, err)
			return
		}
		writeJSON(w, http.StatusCreated, snap)
	})

	mux.HandleFunc("PATCH "+base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := ParseID(r, "id")
		if err != nil {
			writeError(w, r, log.OpUpdate, err)
			return
		}
		var patch P
		if err := DecodeJSON(w, r, &patch); err != nil {
			writeError(w, r, log.OpUpdate, err)
			return
		}
		snap, err := svc.Update(r.Context(), id, patch)
		if err != nil {
			writeError(w, r, log.OpUpdate, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	})

	mux.HandleFunc("DELETE "+base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := ParseID(r, "id")
		if err != nil {
			writeError(w, r, log.OpDelete, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			writeError(w, r, log.OpDelete, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func (s *Server) handleCurrentByDate(w http.ResponseWriter, r *http.Request) {
	date, err := ParseDatePath(r, "date")
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	view, err := s.queries.CurrentAccountByDate(r.Context(), date)
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	if view == nil {
		ErrorResponse(r, http.StatusNotFound, "no current accounts snapshot on "+date.String()).Write(w)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAddSnapshot(w http.ResponseWriter, r *http.Request) {
	var row services.SnapshotRow
	if err := DecodeJSON(w, r, &row); err != nil {
		writeError(w, r, log.OpAddSnapshot, err)
		return
	}
	res, err := s.mutations.AddSnapshot(r.Context(), row)
	if err != nil {
		writeError(w, r, log.OpAddSnapshot, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
