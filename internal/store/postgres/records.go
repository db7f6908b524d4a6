package postgres

import (
	"time"

	"github.com/inkwell-labs/tropelens/backend/internal/model/sheet"
	"github.com/inkwell-labs/tropelens/backend/internal/model/trope"
	"github.com/inkwell-labs/tropelens/backend/internal/model/user"
)

// Database rows use snake_case columns while the domain types marshal as
// camelCase. The record conversions below are total and invertible; the
// round-trip property is covered by tests.

type profileRecord struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Email     string    `gorm:"column:email"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (profileRecord) TableName() string { return "user_profiles" }

func toProfileRecord(p user.Profile) profileRecord {
	return profileRecord{
		ID:        p.ID,
		Email:     p.Email,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func fromProfileRecord(r profileRecord) user.Profile {
	return user.Profile{
		ID:        r.ID,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type sheetRecord struct {
	ID            string    `gorm:"column:id;primaryKey"`
	UserID        string    `gorm:"column:user_id;index"`
	Context       string    `gorm:"column:context"`
	Academics     string    `gorm:"column:academics"`
	FamilialNotes string    `gorm:"column:familial_notes"`
	SocialNotes   string    `gorm:"column:social_notes"`
	PassionNotes  string    `gorm:"column:passion_notes"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (sheetRecord) TableName() string { return "character_sheets" }

func toSheetRecord(s sheet.CharacterSheet) sheetRecord {
	return sheetRecord{
		ID:            s.ID,
		UserID:        s.UserID,
		Context:       s.Context,
		Academics:     s.Academics,
		FamilialNotes: s.FamilialNotes,
		SocialNotes:   s.SocialNotes,
		PassionNotes:  s.PassionNotes,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func fromSheetRecord(r sheetRecord) sheet.CharacterSheet {
	return sheet.CharacterSheet{
		ID:            r.ID,
		UserID:        r.UserID,
		Context:       r.Context,
		Academics:     r.Academics,
		FamilialNotes: r.FamilialNotes,
		SocialNotes:   r.SocialNotes,
		PassionNotes:  r.PassionNotes,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

type tropeRecord struct {
	ID               string    `gorm:"column:id;primaryKey"`
	CharacterSheetID string    `gorm:"column:character_sheet_id;index"`
	Name             string    `gorm:"column:name"`
	Description      string    `gorm:"column:description"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (tropeRecord) TableName() string { return "tropes" }

func toTropeRecord(t trope.Trope) tropeRecord {
	return tropeRecord{
		ID:               t.ID,
		CharacterSheetID: t.CharacterSheetID,
		Name:             t.Name,
		Description:      t.Description,
		CreatedAt:        t.CreatedAt,
	}
}

func fromTropeRecord(r tropeRecord) trope.Trope {
	return trope.Trope{
		ID:               r.ID,
		CharacterSheetID: r.CharacterSheetID,
		Name:             r.Name,
		Description:      r.Description,
		CreatedAt:        r.CreatedAt,
	}
}
