// Package memory implements the persistence gateway with in-process maps,
// used by tests and keyless local runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-labs/tropelens/backend/internal/model/sheet"
	"github.com/inkwell-labs/tropelens/backend/internal/model/trope"
	"github.com/inkwell-labs/tropelens/backend/internal/model/user"
	"github.com/inkwell-labs/tropelens/backend/internal/store"
)

// Store keeps all rows in memory guarded by a single RWMutex.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]user.Profile
	sheets   map[string]sheet.CharacterSheet
	tropes   map[string][]trope.Trope
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		profiles: make(map[string]user.Profile),
		sheets:   make(map[string]sheet.CharacterSheet),
		tropes:   make(map[string][]trope.Trope),
	}
}

func (s *Store) CreateProfile(_ context.Context, userID, email string) (user.Profile, error) {
	if userID == "" {
		return user.Profile{}, store.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	profile := user.Profile{ID: userID, Email: email, CreatedAt: now, UpdatedAt: now}
	s.profiles[userID] = profile
	return profile, nil
}

func (s *Store) GetProfile(_ context.Context, userID string) (user.Profile, error) {
	if userID == "" {
		return user.Profile{}, store.ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return user.Profile{}, store.ErrNotFound
	}
	return profile, nil
}

func (s *Store) UpdateProfileEmail(_ context.Context, userID, email string) (user.Profile, error) {
	if userID == "" {
		return user.Profile{}, store.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return user.Profile{}, store.ErrNotFound
	}
	profile.Email = email
	profile.UpdatedAt = time.Now().UTC()
	s.profiles[userID] = profile
	return profile, nil
}

func (s *Store) CreateSheet(_ context.Context, userID string, cs sheet.CharacterSheet) (sheet.CharacterSheet, error) {
	if userID == "" {
		return sheet.CharacterSheet{}, store.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	cs.ID = uuid.NewString()
	cs.UserID = userID
	cs.CreatedAt = now
	cs.UpdatedAt = now
	s.sheets[cs.ID] = cs
	return cs, nil
}

func (s *Store) GetLatestSheet(_ context.Context, userID string) (sheet.CharacterSheet, error) {
	if userID == "" {
		return sheet.CharacterSheet{}, store.ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest sheet.CharacterSheet
	found := false
	for _, cs := range s.sheets {
		if cs.UserID != userID {
			continue
		}
		if !found || cs.CreatedAt.After(latest.CreatedAt) {
			latest = cs
			found = true
		}
	}
	if !found {
		return sheet.CharacterSheet{}, store.ErrNotFound
	}
	return latest, nil
}

func (s *Store) UpdateSheet(_ context.Context, cs sheet.CharacterSheet) (sheet.CharacterSheet, error) {
	if cs.ID == "" {
		return sheet.CharacterSheet{}, store.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.sheets[cs.ID]
	if !ok {
		return sheet.CharacterSheet{}, store.ErrNotFound
	}
	cs.UserID = existing.UserID
	cs.CreatedAt = existing.CreatedAt
	cs.UpdatedAt = time.Now().UTC()
	s.sheets[cs.ID] = cs
	return cs, nil
}

func (s *Store) CreateTropes(_ context.Context, sheetID string, tropes []trope.Trope) ([]trope.Trope, error) {
	if sheetID == "" {
		return nil, store.ErrNotFound
	}
	if len(tropes) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	saved := make([]trope.Trope, 0, len(tropes))
	for i, t := range tropes {
		t.ID = uuid.NewString()
		t.CharacterSheetID = sheetID
		t.CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
		saved = append(saved, t)
	}
	s.tropes[sheetID] = append(s.tropes[sheetID], saved...)
	return saved, nil
}

func (s *Store) ListTropes(_ context.Context, sheetID string) ([]trope.Trope, error) {
	if sheetID == "" {
		return nil, store.ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	tropes := append([]trope.Trope(nil), s.tropes[sheetID]...)
	sort.SliceStable(tropes, func(i, j int) bool {
		return tropes[i].CreatedAt.Before(tropes[j].CreatedAt)
	})
	return tropes, nil
}
