package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/yourhelpa/helpa/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

// ProfileHandler is the ops surface for visitor Profiles: inspect a
// stored record or reset a stuck conversation by deleting it.
type ProfileHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewProfileHandler(store storage.Storage, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		storage: store,
		logger:  logger,
	}
}

func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	visitorID := strings.TrimPrefix(r.URL.Path, "/v1/profiles/")
	if visitorID == "" || strings.Contains(visitorID, "/") {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, h.logger, errorResponse{Error: "Expected /v1/profiles/{visitor_id}"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, visitorID)
	case http.MethodDelete:
		h.delete(w, r, visitorID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		writeJSON(w, h.logger, errorResponse{Error: "Method not allowed."})
	}
}

func (h *ProfileHandler) get(w http.ResponseWriter, r *http.Request, visitorID string) {
	p, err := h.storage.LoadProfile(r.Context(), visitorID)
	if err != nil {
		h.logger.Error("Failed to load profile", "visitor_id", visitorID, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(w, h.logger, errorResponse{Error: "Failed to load profile."})
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		h.logger.Error("Error encoding profile response", "error", err)
	}
}

func (h *ProfileHandler) delete(w http.ResponseWriter, r *http.Request, visitorID string) {
	if err := h.storage.DeleteProfile(r.Context(), visitorID); err != nil {
		h.logger.Error("Failed to delete profile", "visitor_id", visitorID, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(w, h.logger, errorResponse{Error: "Failed to delete profile."})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
