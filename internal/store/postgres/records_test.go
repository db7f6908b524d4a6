package postgres

import (
	"testing"
	"time"

	"github.com/inkwell-labs/tropelens/backend/internal/model/sheet"
	"github.com/inkwell-labs/tropelens/backend/internal/model/trope"
	"github.com/inkwell-labs/tropelens/backend/internal/model/user"
)

func TestSheetRecordRoundTrip(t *testing.T) {
	now := time.Now().UTC()
	domain := sheet.CharacterSheet{
		ID:            "sheet-1",
		UserID:        "user-1",
		Context:       "I am a college student. My main focus is improving my grades.",
		Academics:     "My strengths lie In STEM subjects.",
		FamilialNotes: "My family life is A bit complicated right now.",
		SocialNotes:   "I have A few very close friends.",
		PassionNotes:  "I am passionate about Video games and digital worlds.",
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if got := fromSheetRecord(toSheetRecord(domain)); got != domain {
		t.Errorf("sheet round trip mismatch:\n got %+v\nwant %+v", got, domain)
	}

	record := sheetRecord{
		ID:            "sheet-2",
		UserID:        "user-2",
		Context:       "ctx",
		Academics:     "",
		FamilialNotes: "notes",
		SocialNotes:   "",
		PassionNotes:  "fire",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if got := toSheetRecord(fromSheetRecord(record)); got != record {
		t.Errorf("sheet record round trip mismatch:\n got %+v\nwant %+v", got, record)
	}
}

func TestTropeRecordRoundTrip(t *testing.T) {
	now := time.Now().UTC()
	domain := trope.Trope{
		ID:               "trope-1",
		CharacterSheetID: "sheet-1",
		Name:             "📚 The Academic Overachiever",
		Description:      "You push yourself to excel at every scholarly pursuit.",
		CreatedAt:        now,
	}
	if got := fromTropeRecord(toTropeRecord(domain)); got != domain {
		t.Errorf("trope round trip mismatch:\n got %+v\nwant %+v", got, domain)
	}
}

func TestProfileRecordRoundTrip(t *testing.T) {
	now := time.Now().UTC()
	domain := user.Profile{ID: "user-1", Email: "reader@example.com", CreatedAt: now, UpdatedAt: now}
	if got := fromProfileRecord(toProfileRecord(domain)); got != domain {
		t.Errorf("profile round trip mismatch:\n got %+v\nwant %+v", got, domain)
	}
}
