package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/inkwell-labs/tropelens/backend/internal/config"
	"github.com/inkwell-labs/tropelens/backend/internal/model/sheet"
	"github.com/inkwell-labs/tropelens/backend/internal/model/trope"
	"github.com/inkwell-labs/tropelens/backend/internal/service/session"
	"github.com/inkwell-labs/tropelens/backend/internal/store/memory"
)

func newGate() (*session.Gate, *memory.Store) {
	st := memory.New()
	return session.New(st, config.SessionConfig{Secret: "test-secret", TTLMinutes: 60}), st
}

func TestSignInCreatesProfileIdempotently(t *testing.T) {
	gate, _ := newGate()
	ctx := context.Background()

	token, state, err := gate.SignIn(ctx, "reader@example.com")
	if err != nil {
		t.Fatalf("SignIn err: %v", err)
	}
	if !state.Authenticated || state.Profile.Email != "reader@example.com" {
		t.Errorf("state = %+v", state)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}

	// A second sign-in reuses the same identity.
	_, again, err := gate.SignIn(ctx, "reader@example.com")
	if err != nil {
		t.Fatalf("second SignIn err: %v", err)
	}
	if again.Profile.ID != state.Profile.ID {
		t.Errorf("sign-in changed identity: %s vs %s", again.Profile.ID, state.Profile.ID)
	}
}

func TestSignInRefreshesEmailSpelling(t *testing.T) {
	gate, _ := newGate()
	ctx := context.Background()

	_, first, err := gate.SignIn(ctx, "Reader@Example.com")
	if err != nil {
		t.Fatalf("SignIn err: %v", err)
	}

	// Different casing resolves to the same identity and keeps the
	// last-seen spelling.
	_, second, err := gate.SignIn(ctx, "reader@example.com")
	if err != nil {
		t.Fatalf("second SignIn err: %v", err)
	}
	if second.Profile.ID != first.Profile.ID {
		t.Errorf("casing changed identity: %s vs %s", second.Profile.ID, first.Profile.ID)
	}
	if second.Profile.Email != "reader@example.com" {
		t.Errorf("email = %q, want last-seen spelling", second.Profile.Email)
	}
}

func TestSignUpRejectsExistingAccount(t *testing.T) {
	gate, _ := newGate()
	ctx := context.Background()

	if _, _, err := gate.SignUp(ctx, "reader@example.com"); err != nil {
		t.Fatalf("SignUp err: %v", err)
	}
	if _, _, err := gate.SignUp(ctx, "reader@example.com"); !errors.Is(err, session.ErrAccountExists) {
		t.Fatalf("duplicate SignUp: got %v, want ErrAccountExists", err)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	gate, _ := newGate()
	ctx := context.Background()

	token, state, err := gate.SignIn(ctx, "reader@example.com")
	if err != nil {
		t.Fatalf("SignIn err: %v", err)
	}

	restored, err := gate.Restore(ctx, token)
	if err != nil {
		t.Fatalf("Restore err: %v", err)
	}
	if restored.Profile.ID != state.Profile.ID {
		t.Errorf("restored identity %s, want %s", restored.Profile.ID, state.Profile.ID)
	}

	if _, err := gate.Restore(ctx, "garbage.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestSignOutResetsState(t *testing.T) {
	gate, st := newGate()
	ctx := context.Background()

	_, state, err := gate.SignIn(ctx, "reader@example.com")
	if err != nil {
		t.Fatalf("SignIn err: %v", err)
	}
	userID := state.Profile.ID

	cs, err := st.CreateSheet(ctx, userID, sheet.CharacterSheet{Context: "I am a college student."})
	if err != nil {
		t.Fatalf("CreateSheet err: %v", err)
	}
	if _, err := st.CreateTropes(ctx, cs.ID, []trope.Trope{{Name: "🎓 Scholar"}}); err != nil {
		t.Fatalf("CreateTropes err: %v", err)
	}
	if _, err := gate.Reload(ctx, userID); err != nil {
		t.Fatalf("Reload err: %v", err)
	}
	if err := gate.SetActiveTrope(userID, "🎓 Scholar"); err != nil {
		t.Fatalf("SetActiveTrope err: %v", err)
	}

	gate.SignOut(userID)

	snap := gate.Snapshot(userID)
	if snap.Authenticated {
		t.Error("snapshot still authenticated after sign-out")
	}
	if !snap.Sheet.IsEmpty() || snap.Sheet != sheet.New() {
		t.Errorf("sheet not reset: %+v", snap.Sheet)
	}
	if len(snap.Tropes) != 0 {
		t.Errorf("tropes not cleared: %+v", snap.Tropes)
	}
	if snap.ActiveTrope != "" {
		t.Errorf("active trope not cleared: %q", snap.ActiveTrope)
	}
}

func TestReloadPullsSheetAndTropes(t *testing.T) {
	gate, st := newGate()
	ctx := context.Background()

	_, state, err := gate.SignIn(ctx, "reader@example.com")
	if err != nil {
		t.Fatalf("SignIn err: %v", err)
	}
	userID := state.Profile.ID

	cs, err := st.CreateSheet(ctx, userID, sheet.CharacterSheet{Context: "I am a college student."})
	if err != nil {
		t.Fatalf("CreateSheet err: %v", err)
	}
	if _, err := st.CreateTropes(ctx, cs.ID, []trope.Trope{
		{Name: "🎓 Scholar", Description: "one"},
		{Name: "🌙 Introvert", Description: "two"},
	}); err != nil {
		t.Fatalf("CreateTropes err: %v", err)
	}

	reloaded, err := gate.Reload(ctx, userID)
	if err != nil {
		t.Fatalf("Reload err: %v", err)
	}
	if reloaded.Sheet.ID != cs.ID {
		t.Errorf("reloaded sheet id = %s, want %s", reloaded.Sheet.ID, cs.ID)
	}
	if len(reloaded.Tropes) != 2 {
		t.Errorf("reloaded %d tropes, want 2", len(reloaded.Tropes))
	}
}

func TestEventsPublished(t *testing.T) {
	gate, _ := newGate()
	ctx := context.Background()
	events := gate.Subscribe()

	_, state, err := gate.SignIn(ctx, "reader@example.com")
	if err != nil {
		t.Fatalf("SignIn err: %v", err)
	}
	gate.SignOut(state.Profile.ID)

	first := <-events
	if first.Type != session.EventSignedIn || first.UserID != state.Profile.ID {
		t.Errorf("first event = %+v", first)
	}
	second := <-events
	if second.Type != session.EventSignedOut {
		t.Errorf("second event = %+v", second)
	}
}
