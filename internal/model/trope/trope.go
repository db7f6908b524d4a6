package trope

import "time"

// Trope is a narrative pattern the analyzer identified in a character sheet.
// The name may embed a decorative glyph. Tropes are immutable once created.
type Trope struct {
	ID               string    `json:"id,omitempty"`
	CharacterSheetID string    `json:"characterSheetId,omitempty"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	CreatedAt        time.Time `json:"createdAt,omitempty"`
}
