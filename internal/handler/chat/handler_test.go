package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-labs/tropelens/backend/internal/config"
	middlewarePkg "github.com/inkwell-labs/tropelens/backend/internal/middleware"
	modelchat "github.com/inkwell-labs/tropelens/backend/internal/model/chat"
	"github.com/inkwell-labs/tropelens/backend/internal/model/sheet"
	"github.com/inkwell-labs/tropelens/backend/internal/model/trope"
	"github.com/inkwell-labs/tropelens/backend/internal/service/ai"
	chatService "github.com/inkwell-labs/tropelens/backend/internal/service/chat"
	"github.com/inkwell-labs/tropelens/backend/internal/service/session"
	"github.com/inkwell-labs/tropelens/backend/internal/store/memory"
)

type stubEngine struct {
	turn ai.Turn
}

func (e *stubEngine) SendTurn(context.Context, sheet.CharacterSheet, string, []modelchat.Message) (ai.Turn, error) {
	return e.turn, nil
}

func setupRouter(t *testing.T) (*chi.Mux, *session.Gate, string) {
	t.Helper()

	st := memory.New()
	gate := session.New(st, config.SessionConfig{Secret: "test-secret", TTLMinutes: 60})
	chatSvc := chatService.NewService(&stubEngine{turn: ai.Turn{
		Question: "What keeps you going?",
		Choices:  []string{"📚 Curiosity", "🏆 Ambition"},
	}})

	token, _, err := gate.SignIn(context.Background(), "reader@example.com")
	if err != nil {
		t.Fatalf("SignIn err: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middlewarePkg.Auth(gate))
	New(chatSvc, gate).RegisterRoutes(r)

	return r, gate, token
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestCreateSessionRequiresAuth(t *testing.T) {
	r, _, _ := setupRouter(t)

	resp := doJSON(t, r, http.MethodPost, "/chat/session", "", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestCreateSessionWithoutActiveTropeRedirects(t *testing.T) {
	r, _, token := setupRouter(t)

	resp := doJSON(t, r, http.MethodPost, "/chat/session", token, nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["redirect"] != "/dashboard" {
		t.Errorf("redirect = %q, want /dashboard", body["redirect"])
	}
}

func TestCreateSessionSeedsGreeting(t *testing.T) {
	r, gate, token := setupRouter(t)
	userID, err := gate.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken err: %v", err)
	}
	if err := gate.ApplyTropes(userID, []trope.Trope{{Name: "🎭 The Reluctant Hero"}}); err != nil {
		t.Fatalf("ApplyTropes err: %v", err)
	}
	if err := gate.SetActiveTrope(userID, "🎭 The Reluctant Hero"); err != nil {
		t.Fatalf("SetActiveTrope err: %v", err)
	}

	resp := doJSON(t, r, http.MethodPost, "/chat/session", token, nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		Session  modelchat.Session   `json:"session"`
		Messages []modelchat.Message `json:"messages"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Messages) != 1 || body.Messages[0].Role != modelchat.RoleAI {
		t.Fatalf("messages = %+v", body.Messages)
	}
	if !strings.Contains(body.Messages[0].Content, "🎭 The Reluctant Hero") {
		t.Errorf("greeting %q does not reference the trope", body.Messages[0].Content)
	}
}

func TestSendTurnFlow(t *testing.T) {
	r, gate, token := setupRouter(t)
	userID, _ := gate.VerifyToken(token)
	_ = gate.ApplyTropes(userID, []trope.Trope{{Name: "🎭 The Reluctant Hero"}})
	_ = gate.SetActiveTrope(userID, "🎭 The Reluctant Hero")

	created := doJSON(t, r, http.MethodPost, "/chat/session", token, nil)
	var createdBody struct {
		Session modelchat.Session `json:"session"`
	}
	if err := json.Unmarshal(created.Body.Bytes(), &createdBody); err != nil {
		t.Fatalf("decode created: %v", err)
	}

	resp := doJSON(t, r, http.MethodPost, "/chat/send", token, map[string]string{
		"sessionId": createdBody.Session.ID,
		"content":   "I keep avoiding the big decision.",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		Message modelchat.Message `json:"message"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Message.Content != "What keeps you going?" || len(body.Message.Choices) != 2 {
		t.Errorf("ai message = %+v", body.Message)
	}
}

func TestSendTurnUnknownSession(t *testing.T) {
	r, _, token := setupRouter(t)

	resp := doJSON(t, r, http.MethodPost, "/chat/send", token, map[string]string{
		"sessionId": "missing",
		"content":   "hello",
	})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
