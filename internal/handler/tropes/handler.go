// Package tropes serves the dashboard's trope cards and selection.
package tropes

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-labs/tropelens/backend/internal/middleware"
	"github.com/inkwell-labs/tropelens/backend/internal/service/session"
	"github.com/inkwell-labs/tropelens/backend/pkg/utils"
)

// Handler reads trope state from the session gate.
type Handler struct {
	gate *session.Gate
}

// New creates the tropes handler.
func New(gate *session.Gate) *Handler {
	return &Handler{gate: gate}
}

// RegisterRoutes mounts the trope endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/tropes", h.handleList)
	r.Post("/tropes/select", h.handleSelect)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	state := h.gate.Snapshot(userID)
	utils.RespondJSON(w, http.StatusOK, state.Tropes)
}

// handleSelect marks a trope as the active discussion topic and hands back
// the chat path for it.
func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Name == "" {
		utils.RespondError(w, http.StatusBadRequest, "name is required")
		return
	}

	state := h.gate.Snapshot(userID)
	known := false
	for _, t := range state.Tropes {
		if t.Name == payload.Name {
			known = true
			break
		}
	}
	if !known {
		utils.RespondError(w, http.StatusNotFound, "trope not found")
		return
	}

	if err := h.gate.SetActiveTrope(userID, payload.Name); err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"activeTrope": payload.Name,
		"chatPath":    "/chat/" + url.PathEscape(payload.Name),
	})
}
