package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/inkwell-labs/tropelens/backend/internal/model/sheet"
	"github.com/inkwell-labs/tropelens/backend/internal/model/trope"
	"github.com/inkwell-labs/tropelens/backend/internal/store"
	"github.com/inkwell-labs/tropelens/backend/internal/store/memory"
)

func TestMissingIdentityYieldsNotFound(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	if _, err := s.GetProfile(ctx, ""); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetProfile with empty id: got %v, want ErrNotFound", err)
	}
	if _, err := s.CreateSheet(ctx, "", sheet.New()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("CreateSheet with empty id: got %v, want ErrNotFound", err)
	}
	if _, err := s.ListTropes(ctx, ""); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("ListTropes with empty id: got %v, want ErrNotFound", err)
	}
}

func TestGetLatestSheetPicksNewest(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	first, err := s.CreateSheet(ctx, "user-1", sheet.CharacterSheet{Context: "old"})
	if err != nil {
		t.Fatalf("CreateSheet err: %v", err)
	}
	second, err := s.CreateSheet(ctx, "user-1", sheet.CharacterSheet{Context: "new"})
	if err != nil {
		t.Fatalf("CreateSheet err: %v", err)
	}
	if second.CreatedAt.Before(first.CreatedAt) {
		t.Skip("clock did not advance between inserts")
	}

	latest, err := s.GetLatestSheet(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetLatestSheet err: %v", err)
	}
	if latest.ID != second.ID {
		t.Errorf("latest sheet = %s, want %s", latest.ID, second.ID)
	}
}

func TestTropesKeepAnalyzerOrder(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	cs, err := s.CreateSheet(ctx, "user-1", sheet.New())
	if err != nil {
		t.Fatalf("CreateSheet err: %v", err)
	}

	input := []trope.Trope{
		{Name: "🎓 The Determined Scholar", Description: "first"},
		{Name: "🌙 The Thoughtful Introvert", Description: "second"},
		{Name: "🎮 The Digital Native", Description: "third"},
	}
	if _, err := s.CreateTropes(ctx, cs.ID, input); err != nil {
		t.Fatalf("CreateTropes err: %v", err)
	}

	listed, err := s.ListTropes(ctx, cs.ID)
	if err != nil {
		t.Fatalf("ListTropes err: %v", err)
	}
	if len(listed) != len(input) {
		t.Fatalf("listed %d tropes, want %d", len(listed), len(input))
	}
	for i := range input {
		if listed[i].Name != input[i].Name {
			t.Errorf("trope %d = %s, want %s", i, listed[i].Name, input[i].Name)
		}
	}
}

func TestUpdateSheetPreservesOwnership(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	cs, err := s.CreateSheet(ctx, "user-1", sheet.CharacterSheet{Context: "before"})
	if err != nil {
		t.Fatalf("CreateSheet err: %v", err)
	}

	cs.Context = "after"
	cs.UserID = "someone-else"
	updated, err := s.UpdateSheet(ctx, cs)
	if err != nil {
		t.Fatalf("UpdateSheet err: %v", err)
	}
	if updated.UserID != "user-1" {
		t.Errorf("UpdateSheet changed owner to %s", updated.UserID)
	}
	if updated.Context != "after" {
		t.Errorf("UpdateSheet lost new text: %s", updated.Context)
	}
}
