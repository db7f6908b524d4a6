package chat

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-labs/tropelens/backend/internal/model/chat"
	"github.com/inkwell-labs/tropelens/backend/internal/model/sheet"
	"github.com/inkwell-labs/tropelens/backend/internal/service/ai"
)

var (
	ErrTropeRequired   = errors.New("trope name is required")
	ErrSessionNotFound = errors.New("session not found")
)

// errorBubble is appended when the model transport fails, so the transcript
// still advances.
const errorBubble = "Sorry, I encountered an error. Please try again."

// TurnSender is the model-backed side of a conversation turn.
type TurnSender interface {
	SendTurn(ctx context.Context, cs sheet.CharacterSheet, tropeName string, transcript []chat.Message) (ai.Turn, error)
}

// Service holds per-trope conversation transcripts. Transcripts are memory
// only; entering a trope chat always starts a fresh one.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]chat.Session
	messages map[string][]chat.Message

	engine TurnSender
}

// NewService bootstraps the in-memory chat service.
func NewService(engine TurnSender) *Service {
	return &Service{
		sessions: make(map[string]chat.Session),
		messages: make(map[string][]chat.Message),
		engine:   engine,
	}
}

// StartSession provisions a fresh conversation about the given trope and
// seeds it with the locally synthesized greeting.
func (s *Service) StartSession(_ context.Context, userID, tropeName string) (chat.Session, chat.Message, error) {
	if tropeName == "" {
		return chat.Session{}, chat.Message{}, ErrTropeRequired
	}

	session := chat.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		TropeName: tropeName,
		CreatedAt: time.Now().UTC(),
	}

	greeting := chat.Message{
		ID:        uuid.NewString(),
		SessionID: session.ID,
		Role:      chat.RoleAI,
		Content:   ai.Greeting(tropeName),
		CreatedAt: session.CreatedAt,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.messages[session.ID] = []chat.Message{greeting}
	s.mu.Unlock()

	return session, greeting, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// Transcript returns a copy of the session's messages in order.
func (s *Service) Transcript(_ context.Context, sessionID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages, ok := s.messages[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Message, len(messages))
	copy(copied, messages)
	return copied, nil
}

// SendTurn appends the user message, runs one model call with the session's
// trope and transcript, and appends the resulting AI question. Selecting a
// choice is the same as submitting its label as text. A transport failure
// degrades to a generic error bubble; the transcript always advances. The
// returned sheet pointer is non-nil only when the model volunteered a
// character sheet update.
func (s *Service) SendTurn(ctx context.Context, sessionID string, cs sheet.CharacterSheet, userText string) (chat.Message, *sheet.CharacterSheet, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return chat.Message{}, nil, err
	}

	now := time.Now().UTC()
	userMsg := chat.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      chat.RoleUser,
		Content:   userText,
		CreatedAt: now,
	}

	s.mu.Lock()
	s.messages[sessionID] = append(s.messages[sessionID], userMsg)
	transcript := append([]chat.Message(nil), s.messages[sessionID]...)
	s.mu.Unlock()

	aiMsg := chat.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      chat.RoleAI,
		CreatedAt: time.Now().UTC(),
	}

	var updated *sheet.CharacterSheet
	turn, err := s.engine.SendTurn(ctx, cs, session.TropeName, transcript)
	if err != nil {
		log.Printf("[chat] turn failed for session=%s: %v", sessionID, err)
		aiMsg.Content = errorBubble
	} else {
		aiMsg.Content = turn.Question
		aiMsg.Choices = turn.Choices
		updated = turn.UpdatedSheet
	}

	s.mu.Lock()
	s.messages[sessionID] = append(s.messages[sessionID], aiMsg)
	s.mu.Unlock()

	return aiMsg, updated, nil
}

// EndSessionsFor discards every session and transcript owned by the user,
// called on sign-out and when leaving a chat view.
func (s *Service) EndSessionsFor(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, id)
			delete(s.messages, id)
		}
	}
}
