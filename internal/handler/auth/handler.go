// Package auth exposes sign-up, sign-in and session management endpoints.
package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-labs/tropelens/backend/internal/middleware"
	"github.com/inkwell-labs/tropelens/backend/internal/service/chat"
	"github.com/inkwell-labs/tropelens/backend/internal/service/onboarding"
	"github.com/inkwell-labs/tropelens/backend/internal/service/session"
	"github.com/inkwell-labs/tropelens/backend/pkg/utils"
)

// Handler wires the session gate to HTTP.
type Handler struct {
	gate          *session.Gate
	onboardingSvc *onboarding.Service
	chatSvc       *chat.Service
}

// New creates the auth handler. The onboarding and chat services are needed
// so sign-out can discard their per-user state too.
func New(gate *session.Gate, onboardingSvc *onboarding.Service, chatSvc *chat.Service) *Handler {
	return &Handler{gate: gate, onboardingSvc: onboardingSvc, chatSvc: chatSvc}
}

// RegisterRoutes mounts the auth endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/signup", h.handleSignUp)
	r.Post("/auth/signin", h.handleSignIn)
	r.Post("/auth/restore", h.handleRestore)
	r.Post("/auth/signout", h.handleSignOut)
	r.Get("/me", h.handleMe)
}

type credentials struct {
	Email string `json:"email"`
}

type sessionResponse struct {
	Token string        `json:"token"`
	State session.State `json:"state"`
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var payload credentials
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, state, err := h.gate.SignUp(r.Context(), payload.Email)
	if err != nil {
		// Auth failures surface verbatim as inline form errors.
		utils.RespondError(w, statusForAuthError(err), err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, sessionResponse{Token: token, State: state})
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var payload credentials
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, state, err := h.gate.SignIn(r.Context(), payload.Email)
	if err != nil {
		utils.RespondError(w, statusForAuthError(err), err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, sessionResponse{Token: token, State: state})
}

func (h *Handler) handleRestore(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.gate.Restore(r.Context(), payload.Token)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, sessionResponse{Token: payload.Token, State: state})
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	h.gate.SignOut(userID)
	h.onboardingSvc.Discard(userID)
	h.chatSvc.EndSessionsFor(userID)

	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	utils.RespondJSON(w, http.StatusOK, h.gate.Snapshot(userID))
}

func statusForAuthError(err error) int {
	switch {
	case errors.Is(err, session.ErrEmailRequired):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrAccountExists):
		return http.StatusConflict
	default:
		return http.StatusUnauthorized
	}
}
