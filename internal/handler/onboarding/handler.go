// Package onboarding exposes the character sheet builder over HTTP.
package onboarding

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-labs/tropelens/backend/internal/middleware"
	"github.com/inkwell-labs/tropelens/backend/internal/model/sheet"
	"github.com/inkwell-labs/tropelens/backend/internal/service/onboarding"
	"github.com/inkwell-labs/tropelens/backend/internal/service/session"
	"github.com/inkwell-labs/tropelens/backend/internal/symbol"
	"github.com/inkwell-labs/tropelens/backend/pkg/utils"
)

// Handler drives the onboarding walk for the authenticated user.
type Handler struct {
	svc  *onboarding.Service
	gate *session.Gate
}

// New creates the onboarding handler.
func New(svc *onboarding.Service, gate *session.Gate) *Handler {
	return &Handler{svc: svc, gate: gate}
}

// RegisterRoutes mounts the onboarding endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/onboarding", h.handleState)
	r.Post("/onboarding/answer", h.handleAnswer)
	r.Post("/onboarding/option", h.handleOption)
	r.Post("/onboarding/next", h.handleNext)
	r.Post("/onboarding/back", h.handleBack)
	r.Post("/onboarding/submit", h.handleSubmit)
}

// stateResponse decorates the builder with everything the client renders:
// the chapter, the pending question with per-option glyphs, and gating.
type stateResponse struct {
	Builder     onboarding.Builder `json:"builder"`
	Chapter     sheet.Chapter      `json:"chapter"`
	Question    *questionView      `json:"question,omitempty"`
	CanProceed  bool               `json:"canProceed"`
	IsLastStep  bool               `json:"isLastStep"`
	TotalSteps  int                `json:"totalSteps"`
	CurrentStep int                `json:"currentStep"`
}

type questionView struct {
	Prompt  string       `json:"prompt"`
	Prefix  string       `json:"prefix"`
	Options []optionView `json:"options"`
}

type optionView struct {
	Label  string `json:"label"`
	Symbol string `json:"symbol"`
}

func buildState(b onboarding.Builder) stateResponse {
	resp := stateResponse{
		Builder:     b,
		Chapter:     b.Chapter(),
		CanProceed:  b.CanProceed(),
		IsLastStep:  b.IsLastChapter(),
		TotalSteps:  len(sheet.Chapters),
		CurrentStep: b.ChapterIndex + 1,
	}

	if q, ok := b.CurrentQuestion(); ok {
		view := &questionView{Prompt: q.Prompt, Prefix: q.Prefix}
		for _, option := range q.Options {
			view.Options = append(view.Options, optionView{Label: option, Symbol: symbol.ForText(option)})
		}
		resp.Question = view
	}
	return resp
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	// Resume from a previously loaded sheet so edits continue in place.
	var seed *sheet.CharacterSheet
	if snapshot := h.gate.Snapshot(userID); !snapshot.Sheet.IsEmpty() {
		seed = &snapshot.Sheet
	}

	utils.RespondJSON(w, http.StatusOK, buildState(h.svc.Start(userID, seed)))
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	var payload struct {
		Key  string `json:"key"`
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.svc.RecordAnswer(userID, payload.Key, payload.Text)
	if err != nil {
		utils.RespondError(w, statusForBuilderError(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, buildState(b))
}

func (h *Handler) handleOption(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	var payload struct {
		Option string `json:"option"`
		Prefix string `json:"prefix"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Option == "" {
		utils.RespondError(w, http.StatusBadRequest, "option is required")
		return
	}

	b, err := h.svc.SelectOption(userID, payload.Option, payload.Prefix)
	if err != nil {
		utils.RespondError(w, statusForBuilderError(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, buildState(b))
}

func (h *Handler) handleNext(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.svc.Advance)
}

func (h *Handler) handleBack(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.svc.Retreat)
}

func (h *Handler) move(w http.ResponseWriter, r *http.Request, step func(string) (onboarding.Builder, error)) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	b, err := step(userID)
	if err != nil {
		utils.RespondError(w, statusForBuilderError(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, buildState(b))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	saved, tropes, err := h.svc.Submit(r.Context(), userID)
	if err != nil {
		utils.RespondError(w, statusForBuilderError(err), err.Error())
		return
	}

	// Mirror the persisted results into the session state before the client
	// re-resolves its route.
	if err := h.gate.ApplySheet(userID, saved); err == nil {
		_ = h.gate.ApplyTropes(userID, tropes)
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sheet":    saved,
		"tropes":   tropes,
		"redirect": "/dashboard",
	})
}

func statusForBuilderError(err error) int {
	switch {
	case errors.Is(err, onboarding.ErrNoSession):
		return http.StatusNotFound
	case errors.Is(err, onboarding.ErrChapterLocked):
		return http.StatusConflict
	case errors.Is(err, onboarding.ErrUnknownChapter):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
