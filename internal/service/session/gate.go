// Package session is the auth gate: it tracks who is signed in, owns the
// per-user in-memory sheet/trope state every view reads, and broadcasts
// session-changed events.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-labs/tropelens/backend/internal/config"
	"github.com/inkwell-labs/tropelens/backend/internal/model/sheet"
	"github.com/inkwell-labs/tropelens/backend/internal/model/trope"
	"github.com/inkwell-labs/tropelens/backend/internal/model/user"
	"github.com/inkwell-labs/tropelens/backend/internal/store"
)

var (
	ErrEmailRequired = errors.New("email is required")
	ErrAccountExists = errors.New("an account with this email already exists")
	ErrNotSignedIn   = errors.New("not signed in")
)

// EventType tags session-changed events.
type EventType string

const (
	EventSignedIn  EventType = "signed-in"
	EventSignedOut EventType = "signed-out"
	EventReloaded  EventType = "data-reloaded"
)

// Event is published on every session transition.
type Event struct {
	Type   EventType
	UserID string
}

// State is the snapshot a view reads: identity plus the loaded user data.
// For an anonymous user every field holds its initial/empty value.
type State struct {
	Authenticated bool                 `json:"authenticated"`
	Profile       user.Profile         `json:"profile"`
	Sheet         sheet.CharacterSheet `json:"sheet"`
	Tropes        []trope.Trope        `json:"tropes"`
	ActiveTrope   string               `json:"activeTrope"`
}

// Gate owns authenticated session state. It is the single writer; views only
// read snapshots.
type Gate struct {
	mu     sync.RWMutex
	states map[string]State

	store  store.Store
	tokens TokenConfig

	subMu       sync.Mutex
	subscribers []chan Event
}

// New builds the gate over the persistence gateway.
func New(st store.Store, cfg config.SessionConfig) *Gate {
	return &Gate{
		states: make(map[string]State),
		store:  st,
		tokens: TokenConfig{
			Secret: []byte(cfg.Secret),
			TTL:    time.Duration(cfg.TTLMinutes) * time.Minute,
		},
	}
}

// userIDForEmail derives a stable identity from the email, so repeated
// sign-ins reach the same rows without an email index.
func userIDForEmail(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.ToLower(email))).String()
}

// SignUp creates a new account and signs it in.
func (g *Gate) SignUp(ctx context.Context, email string) (string, State, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", State{}, ErrEmailRequired
	}

	userID := userIDForEmail(email)
	if _, err := g.store.GetProfile(ctx, userID); err == nil {
		return "", State{}, ErrAccountExists
	}

	return g.establish(ctx, userID, email)
}

// SignIn authenticates an existing or new email and loads its data. The
// ensure-profile step is idempotent: a missing profile is created.
func (g *Gate) SignIn(ctx context.Context, email string) (string, State, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", State{}, ErrEmailRequired
	}

	return g.establish(ctx, userIDForEmail(email), email)
}

// Restore validates a previously issued token and reloads the user's data,
// covering the restored-session transition.
func (g *Gate) Restore(ctx context.Context, token string) (State, error) {
	userID, err := parseToken(token, g.tokens)
	if err != nil {
		return State{}, fmt.Errorf("invalid session: %w", err)
	}

	profile, err := g.store.GetProfile(ctx, userID)
	if err != nil {
		return State{}, fmt.Errorf("session profile missing: %w", err)
	}

	state := g.reload(ctx, profile)
	g.publish(Event{Type: EventSignedIn, UserID: userID})
	return state, nil
}

// VerifyToken resolves a token to its user id without touching state, used
// by the auth middleware.
func (g *Gate) VerifyToken(token string) (string, error) {
	return parseToken(token, g.tokens)
}

// SignOut clears the user's in-memory state back to initial values. No
// stale sheet or trope data may survive into the next account.
func (g *Gate) SignOut(userID string) {
	g.mu.Lock()
	delete(g.states, userID)
	g.mu.Unlock()

	g.publish(Event{Type: EventSignedOut, UserID: userID})
	log.Printf("[session] user=%s signed out", userID)
}

// Snapshot returns the current state for the user; anonymous users get the
// initial empty state.
func (g *Gate) Snapshot(userID string) State {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if state, ok := g.states[userID]; ok {
		return state
	}
	return State{Sheet: sheet.New()}
}

// SetActiveTrope records the trope selected on the dashboard. An empty name
// clears the selection.
func (g *Gate) SetActiveTrope(userID, name string) error {
	return g.update(userID, func(s *State) {
		s.ActiveTrope = name
	})
}

// ApplySheet replaces the in-memory sheet after onboarding or a chat-driven
// update.
func (g *Gate) ApplySheet(userID string, cs sheet.CharacterSheet) error {
	return g.update(userID, func(s *State) {
		s.Sheet = cs
	})
}

// ApplyTropes replaces the in-memory trope list after analysis.
func (g *Gate) ApplyTropes(userID string, tropes []trope.Trope) error {
	return g.update(userID, func(s *State) {
		s.Tropes = tropes
	})
}

// Reload re-fetches profile, sheet and tropes from the store.
func (g *Gate) Reload(ctx context.Context, userID string) (State, error) {
	profile, err := g.store.GetProfile(ctx, userID)
	if err != nil {
		return State{}, ErrNotSignedIn
	}

	state := g.reload(ctx, profile)
	g.publish(Event{Type: EventReloaded, UserID: userID})
	return state, nil
}

// Subscribe returns a channel of session-changed events. Slow consumers
// drop events rather than block the gate.
func (g *Gate) Subscribe() <-chan Event {
	ch := make(chan Event, 8)
	g.subMu.Lock()
	g.subscribers = append(g.subscribers, ch)
	g.subMu.Unlock()
	return ch
}

func (g *Gate) establish(ctx context.Context, userID, email string) (string, State, error) {
	profile, err := g.store.GetProfile(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		profile, err = g.store.CreateProfile(ctx, userID, email)
	case err == nil && profile.Email != email:
		// Same identity, different casing; keep the last-seen spelling.
		profile, err = g.store.UpdateProfileEmail(ctx, userID, email)
	}
	if err != nil {
		return "", State{}, fmt.Errorf("failed to establish profile: %w", err)
	}

	token, err := generateToken(userID, g.tokens)
	if err != nil {
		return "", State{}, fmt.Errorf("failed to issue session token: %w", err)
	}

	state := g.reload(ctx, profile)
	g.publish(Event{Type: EventSignedIn, UserID: userID})
	log.Printf("[session] user=%s signed in", userID)
	return token, state, nil
}

// reload performs the full data load: profile -> latest sheet -> tropes.
// Store absence is not an error; it just means the user still needs
// onboarding.
func (g *Gate) reload(ctx context.Context, profile user.Profile) State {
	state := State{
		Authenticated: true,
		Profile:       profile,
		Sheet:         sheet.New(),
	}

	cs, err := g.store.GetLatestSheet(ctx, profile.ID)
	if err == nil {
		state.Sheet = cs
		if tropes, terr := g.store.ListTropes(ctx, cs.ID); terr == nil {
			state.Tropes = tropes
		} else {
			log.Printf("[session] failed to load tropes for user=%s: %v", profile.ID, terr)
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Printf("[session] failed to load sheet for user=%s: %v", profile.ID, err)
	}

	g.mu.Lock()
	g.states[profile.ID] = state
	g.mu.Unlock()
	return state
}

func (g *Gate) update(userID string, fn func(*State)) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	state, ok := g.states[userID]
	if !ok {
		return ErrNotSignedIn
	}
	fn(&state)
	g.states[userID] = state
	return nil
}

func (g *Gate) publish(event Event) {
	g.subMu.Lock()
	defer g.subMu.Unlock()

	for _, ch := range g.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
