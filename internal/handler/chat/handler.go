// Package chat exposes the trope conversation endpoints.
package chat

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-labs/tropelens/backend/internal/middleware"
	modelchat "github.com/inkwell-labs/tropelens/backend/internal/model/chat"
	"github.com/inkwell-labs/tropelens/backend/internal/model/sheet"
	chatService "github.com/inkwell-labs/tropelens/backend/internal/service/chat"
	"github.com/inkwell-labs/tropelens/backend/internal/service/session"
	"github.com/inkwell-labs/tropelens/backend/pkg/utils"
)

// Handler drives trope conversations for the authenticated user.
type Handler struct {
	chatSvc *chatService.Service
	gate    *session.Gate
}

// New creates the chat handler.
func New(chatSvc *chatService.Service, gate *session.Gate) *Handler {
	return &Handler{chatSvc: chatSvc, gate: gate}
}

// RegisterRoutes mounts the chat endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/session", h.handleCreateSession)
	r.Get("/chat/session/{sessionID}", h.handleTranscript)
	r.Post("/chat/send", h.handleSend)
	r.Get("/chat/stream", h.handleStream)
}

// handleCreateSession opens a fresh conversation about the active trope.
// Entering chat without a prior dashboard selection bounces to the
// dashboard.
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	state := h.gate.Snapshot(userID)
	if state.ActiveTrope == "" {
		utils.RespondJSON(w, http.StatusConflict, map[string]string{
			"error":    "no trope selected",
			"redirect": "/dashboard",
		})
		return
	}

	sess, greeting, err := h.chatSvc.StartSession(r.Context(), userID, state.ActiveTrope)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"session":  sess,
		"messages": []modelchat.Message{greeting},
	})
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.authorizeSession(r, sessionID); err != nil {
		respondSessionError(w, err)
		return
	}

	messages, err := h.chatSvc.Transcript(r.Context(), sessionID)
	if err != nil {
		respondSessionError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, messages)
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	var payload struct {
		SessionID string `json:"sessionId"`
		Content   string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Content == "" {
		utils.RespondError(w, http.StatusBadRequest, "content is required")
		return
	}

	if err := h.authorizeSession(r, payload.SessionID); err != nil {
		respondSessionError(w, err)
		return
	}

	state := h.gate.Snapshot(userID)
	aiMsg, updated, err := h.chatSvc.SendTurn(r.Context(), payload.SessionID, state.Sheet, payload.Content)
	if err != nil {
		respondSessionError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, sendResponse(aiMsg, updated))
}

// handleStream delivers one conversation turn over SSE so the client can
// show progress while the model works.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	message := r.URL.Query().Get("message")
	if message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}
	if err := h.authorizeSession(r, sessionID); err != nil {
		respondSessionError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)
	utils.SendSSEEvent(w, flusher, "start", map[string]string{"sessionId": sessionID})

	state := h.gate.Snapshot(userID)
	aiMsg, updated, err := h.chatSvc.SendTurn(r.Context(), sessionID, state.Sheet, message)
	if err != nil {
		utils.SendSSEEvent(w, flusher, "error", map[string]string{"error": err.Error()})
		return
	}

	utils.SendSSEEvent(w, flusher, "turn", sendResponse(aiMsg, updated))
	utils.SendSSEEvent(w, flusher, "done", map[string]bool{"finished": true})
}

func sendResponse(aiMsg modelchat.Message, updated *sheet.CharacterSheet) map[string]any {
	resp := map[string]any{"message": aiMsg}
	if updated != nil {
		// The model volunteered a sheet revision. Surfaced to the client but
		// not applied server-side; see the updatedCharacterSheet note in
		// DESIGN.md.
		log.Printf("[chat] model proposed a character sheet update for session=%s", aiMsg.SessionID)
		resp["updatedCharacterSheet"] = updated
	}
	return resp
}

func (h *Handler) authorizeSession(r *http.Request, sessionID string) error {
	sess, err := h.chatSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		return err
	}
	if sess.UserID != middleware.UserID(r.Context()) {
		return chatService.ErrSessionNotFound
	}
	return nil
}

func respondSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, chatService.ErrSessionNotFound) {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondError(w, http.StatusInternalServerError, err.Error())
}
