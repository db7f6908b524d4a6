// Package postgres implements the persistence gateway on PostgreSQL via gorm.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/inkwell-labs/tropelens/backend/internal/model/sheet"
	"github.com/inkwell-labs/tropelens/backend/internal/model/trope"
	"github.com/inkwell-labs/tropelens/backend/internal/model/user"
	"github.com/inkwell-labs/tropelens/backend/internal/store"
)

// Store holds the gorm pool behind the store.Store interface.
type Store struct {
	db *gorm.DB
}

// New opens the PostgreSQL pool, verifies connectivity and runs the schema
// migration for the three tables.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&profileRecord{}, &sheetRecord{}, &tropeRecord{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	if s.db == nil {
		return
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return
	}
	_ = sqlDB.Close()
}

func (s *Store) CreateProfile(ctx context.Context, userID, email string) (user.Profile, error) {
	if userID == "" {
		return user.Profile{}, store.ErrNotFound
	}

	now := time.Now().UTC()
	record := profileRecord{ID: userID, Email: email, CreatedAt: now, UpdatedAt: now}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return user.Profile{}, fmt.Errorf("failed to create user profile: %w", err)
	}
	return fromProfileRecord(record), nil
}

func (s *Store) GetProfile(ctx context.Context, userID string) (user.Profile, error) {
	if userID == "" {
		return user.Profile{}, store.ErrNotFound
	}

	var record profileRecord
	err := s.db.WithContext(ctx).First(&record, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user.Profile{}, store.ErrNotFound
	}
	if err != nil {
		return user.Profile{}, fmt.Errorf("failed to get user profile: %w", err)
	}
	return fromProfileRecord(record), nil
}

func (s *Store) UpdateProfileEmail(ctx context.Context, userID, email string) (user.Profile, error) {
	if userID == "" {
		return user.Profile{}, store.ErrNotFound
	}

	err := s.db.WithContext(ctx).Model(&profileRecord{}).
		Where("id = ?", userID).
		Updates(map[string]any{"email": email, "updated_at": time.Now().UTC()}).Error
	if err != nil {
		return user.Profile{}, fmt.Errorf("failed to update user profile: %w", err)
	}
	return s.GetProfile(ctx, userID)
}

func (s *Store) CreateSheet(ctx context.Context, userID string, cs sheet.CharacterSheet) (sheet.CharacterSheet, error) {
	if userID == "" {
		return sheet.CharacterSheet{}, store.ErrNotFound
	}

	now := time.Now().UTC()
	cs.ID = uuid.NewString()
	cs.UserID = userID
	cs.CreatedAt = now
	cs.UpdatedAt = now

	record := toSheetRecord(cs)
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return sheet.CharacterSheet{}, fmt.Errorf("failed to create character sheet: %w", err)
	}
	return fromSheetRecord(record), nil
}

func (s *Store) GetLatestSheet(ctx context.Context, userID string) (sheet.CharacterSheet, error) {
	if userID == "" {
		return sheet.CharacterSheet{}, store.ErrNotFound
	}

	var record sheetRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sheet.CharacterSheet{}, store.ErrNotFound
	}
	if err != nil {
		return sheet.CharacterSheet{}, fmt.Errorf("failed to get character sheet: %w", err)
	}
	return fromSheetRecord(record), nil
}

func (s *Store) UpdateSheet(ctx context.Context, cs sheet.CharacterSheet) (sheet.CharacterSheet, error) {
	if cs.ID == "" {
		return sheet.CharacterSheet{}, store.ErrNotFound
	}

	cs.UpdatedAt = time.Now().UTC()
	err := s.db.WithContext(ctx).Model(&sheetRecord{}).
		Where("id = ?", cs.ID).
		Updates(map[string]any{
			"context":        cs.Context,
			"academics":      cs.Academics,
			"familial_notes": cs.FamilialNotes,
			"social_notes":   cs.SocialNotes,
			"passion_notes":  cs.PassionNotes,
			"updated_at":     cs.UpdatedAt,
		}).Error
	if err != nil {
		return sheet.CharacterSheet{}, fmt.Errorf("failed to update character sheet: %w", err)
	}
	return cs, nil
}

func (s *Store) CreateTropes(ctx context.Context, sheetID string, tropes []trope.Trope) ([]trope.Trope, error) {
	if sheetID == "" {
		return nil, store.ErrNotFound
	}
	if len(tropes) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	records := make([]tropeRecord, 0, len(tropes))
	for i, t := range tropes {
		t.ID = uuid.NewString()
		t.CharacterSheetID = sheetID
		// Preserve analyzer order under a created_at ASC read.
		t.CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
		records = append(records, toTropeRecord(t))
	}

	if err := s.db.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to save tropes: %w", err)
	}

	saved := make([]trope.Trope, 0, len(records))
	for _, r := range records {
		saved = append(saved, fromTropeRecord(r))
	}
	return saved, nil
}

func (s *Store) ListTropes(ctx context.Context, sheetID string) ([]trope.Trope, error) {
	if sheetID == "" {
		return nil, store.ErrNotFound
	}

	var records []tropeRecord
	err := s.db.WithContext(ctx).
		Where("character_sheet_id = ?", sheetID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tropes: %w", err)
	}

	tropes := make([]trope.Trope, 0, len(records))
	for _, r := range records {
		tropes = append(tropes, fromTropeRecord(r))
	}
	return tropes, nil
}
