package sheet

import (
	"strings"
	"time"
)

// CharacterSheet is the structured free-text profile collected during
// onboarding. All five chapter fields are present from creation, possibly
// empty; identity fields are assigned once the sheet is persisted.
type CharacterSheet struct {
	ID            string    `json:"id,omitempty"`
	UserID        string    `json:"userId,omitempty"`
	Context       string    `json:"context"`
	Academics     string    `json:"academics"`
	FamilialNotes string    `json:"familialNotes"`
	SocialNotes   string    `json:"socialNotes"`
	PassionNotes  string    `json:"passionNotes"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt,omitempty"`
}

// New returns the all-empty initial sheet.
func New() CharacterSheet {
	return CharacterSheet{}
}

// IsEmpty reports whether the sheet has no opening chapter content; the
// presentation shell uses this to route back into onboarding.
func (c CharacterSheet) IsEmpty() bool {
	return strings.TrimSpace(c.Context) == ""
}

// Field returns the chapter text for the given chapter key.
func (c CharacterSheet) Field(key string) (string, bool) {
	switch key {
	case KeyContext:
		return c.Context, true
	case KeyAcademics:
		return c.Academics, true
	case KeyFamilialNotes:
		return c.FamilialNotes, true
	case KeySocialNotes:
		return c.SocialNotes, true
	case KeyPassionNotes:
		return c.PassionNotes, true
	}
	return "", false
}

// SetField overwrites the chapter text for the given chapter key.
func (c *CharacterSheet) SetField(key, text string) bool {
	switch key {
	case KeyContext:
		c.Context = text
	case KeyAcademics:
		c.Academics = text
	case KeySocialNotes:
		c.SocialNotes = text
	case KeyFamilialNotes:
		c.FamilialNotes = text
	case KeyPassionNotes:
		c.PassionNotes = text
	default:
		return false
	}
	return true
}
