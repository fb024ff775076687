package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// handleReady pings the database; /db-test is served by the same handler.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.opts.ReadyTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error(r.Context(), "Readiness check failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Service not ready")
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ready"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, versionResponse{Version: s.opts.Version})
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "item_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "item_id: value is not a valid integer")
		return
	}
	writeJSON(w, http.StatusOK, itemResponse{ID: id, Name: fmt.Sprintf("Item %d", id)})
}

// handleEcho returns the posted JSON object unchanged.
func (s *Server) handleEcho(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil || payload == nil {
		writeError(w, http.StatusUnprocessableEntity, "body must be a JSON object")
		return
	}
	writeJSON(w, http.StatusOK, payload)
}
