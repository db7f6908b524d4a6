// Package store defines the persistence gateway between in-memory domain
// types and the backing database.
package store

import (
	"context"
	"errors"

	"github.com/inkwell-labs/tropelens/backend/internal/model/sheet"
	"github.com/inkwell-labs/tropelens/backend/internal/model/trope"
	"github.com/inkwell-labs/tropelens/backend/internal/model/user"
)

// ErrNotFound is returned for reads that matched no row, including every
// operation invoked without an owning identity.
var ErrNotFound = errors.New("not found")

// Store is the persistence gateway. All operations are scoped to the owning
// user (or owning sheet for tropes); an empty identity yields ErrNotFound
// rather than a hard failure.
type Store interface {
	CreateProfile(ctx context.Context, userID, email string) (user.Profile, error)
	GetProfile(ctx context.Context, userID string) (user.Profile, error)
	UpdateProfileEmail(ctx context.Context, userID, email string) (user.Profile, error)

	CreateSheet(ctx context.Context, userID string, s sheet.CharacterSheet) (sheet.CharacterSheet, error)
	// GetLatestSheet returns the most recently created sheet for the user;
	// the store does not enforce one sheet per user, the read does.
	GetLatestSheet(ctx context.Context, userID string) (sheet.CharacterSheet, error)
	UpdateSheet(ctx context.Context, s sheet.CharacterSheet) (sheet.CharacterSheet, error)

	CreateTropes(ctx context.Context, sheetID string, tropes []trope.Trope) ([]trope.Trope, error)
	// ListTropes returns tropes ordered by creation time ascending, matching
	// analyzer output order when persisted promptly.
	ListTropes(ctx context.Context, sheetID string) ([]trope.Trope, error)
}
