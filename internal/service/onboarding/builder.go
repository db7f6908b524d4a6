// Package onboarding walks a user through the character sheet chapters.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/inkwell-labs/tropelens/backend/internal/model/sheet"
	"github.com/inkwell-labs/tropelens/backend/internal/model/trope"
	"github.com/inkwell-labs/tropelens/backend/internal/store"
)

var (
	ErrNoSession      = errors.New("no onboarding session")
	ErrChapterLocked  = errors.New("chapter needs more detail before moving on")
	ErrUnknownChapter = errors.New("unknown chapter key")
)

// minChapterLength is the minimum-content gate: a chapter unlocks once its
// trimmed text exceeds this many characters. It is not semantic validation.
const minChapterLength = 10

// Builder is the per-user walk state over the question bank.
type Builder struct {
	Sheet         sheet.CharacterSheet `json:"sheet"`
	ChapterIndex  int                  `json:"chapterIndex"`
	QuestionIndex int                  `json:"questionIndex"`
}

// Chapter returns the chapter the builder currently sits on.
func (b Builder) Chapter() sheet.Chapter {
	return sheet.Chapters[b.ChapterIndex]
}

// CurrentQuestion returns the pending question, or false once every question
// in the chapter has been answered.
func (b Builder) CurrentQuestion() (sheet.Question, bool) {
	chapter := b.Chapter()
	if b.QuestionIndex >= len(chapter.Questions) {
		return sheet.Question{}, false
	}
	return chapter.Questions[b.QuestionIndex], true
}

// CanProceed reports whether the current chapter passes the content gate.
func (b Builder) CanProceed() bool {
	text, _ := b.Sheet.Field(b.Chapter().Key)
	return len(strings.TrimSpace(text)) > minChapterLength
}

// IsLastChapter reports whether the builder sits on the final chapter.
func (b Builder) IsLastChapter() bool {
	return b.ChapterIndex == len(sheet.Chapters)-1
}

// Analyzer is the model-backed classification step run on submission.
type Analyzer interface {
	Analyze(ctx context.Context, cs sheet.CharacterSheet) ([]trope.Trope, error)
}

// Service tracks in-flight onboarding walks per user.
type Service struct {
	mu       sync.RWMutex
	builders map[string]Builder

	store    store.Store
	analyzer Analyzer
}

// NewService bootstraps the onboarding service.
func NewService(st store.Store, analyzer Analyzer) *Service {
	return &Service{
		builders: make(map[string]Builder),
		store:    st,
		analyzer: analyzer,
	}
}

// Start returns the user's in-flight builder, creating an empty one if none
// exists. The optional seed lets a reloaded sheet resume editing.
func (s *Service) Start(userID string, seed *sheet.CharacterSheet) Builder {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.builders[userID]; ok {
		return b
	}

	b := Builder{Sheet: sheet.New()}
	if seed != nil {
		b.Sheet = *seed
	}
	s.builders[userID] = b
	return b
}

// State returns the user's current builder.
func (s *Service) State(userID string) (Builder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.builders[userID]
	if !ok {
		return Builder{}, ErrNoSession
	}
	return b, nil
}

// Advance moves to the next chapter when the content gate allows it,
// clamped to the final chapter, and resets the question cursor.
func (s *Service) Advance(userID string) (Builder, error) {
	return s.mutate(userID, func(b *Builder) error {
		if !b.CanProceed() {
			return ErrChapterLocked
		}
		if b.ChapterIndex < len(sheet.Chapters)-1 {
			b.ChapterIndex++
			b.QuestionIndex = 0
		}
		return nil
	})
}

// Retreat moves to the previous chapter, clamped to the first, and resets
// the question cursor. Going back is never gated.
func (s *Service) Retreat(userID string) (Builder, error) {
	return s.mutate(userID, func(b *Builder) error {
		if b.ChapterIndex > 0 {
			b.ChapterIndex--
			b.QuestionIndex = 0
		}
		return nil
	})
}

// RecordAnswer overwrites the free-text field for the given chapter key.
func (s *Service) RecordAnswer(userID, key, text string) (Builder, error) {
	return s.mutate(userID, func(b *Builder) error {
		if !b.Sheet.SetField(key, text) {
			return ErrUnknownChapter
		}
		return nil
	})
}

// SelectOption appends the formatted sentence prefix+option+"." to the
// current chapter text, separated by a single space from prior content, and
// advances to the chapter's next question.
func (s *Service) SelectOption(userID, option, prefix string) (Builder, error) {
	return s.mutate(userID, func(b *Builder) error {
		key := b.Chapter().Key
		current, _ := b.Sheet.Field(key)

		sentence := prefix + option + "."
		if trimmed := strings.TrimSpace(current); trimmed != "" {
			sentence = trimmed + " " + sentence
		}
		b.Sheet.SetField(key, sentence)
		b.QuestionIndex++
		return nil
	})
}

// Submit persists the completed sheet, runs the analyzer, and persists the
// resulting tropes, in that order. Any failure is returned as a recoverable
// error and the builder (with all entered text) survives for retry.
func (s *Service) Submit(ctx context.Context, userID string) (sheet.CharacterSheet, []trope.Trope, error) {
	b, err := s.State(userID)
	if err != nil {
		return sheet.CharacterSheet{}, nil, err
	}
	if !b.CanProceed() {
		return sheet.CharacterSheet{}, nil, ErrChapterLocked
	}

	saved, err := s.store.CreateSheet(ctx, userID, b.Sheet)
	if err != nil {
		return sheet.CharacterSheet{}, nil, fmt.Errorf("failed to save character sheet: %w", err)
	}

	analyzed, err := s.analyzer.Analyze(ctx, saved)
	if err != nil {
		return sheet.CharacterSheet{}, nil, fmt.Errorf("failed to analyze character sheet: %w", err)
	}

	tropes, err := s.store.CreateTropes(ctx, saved.ID, analyzed)
	if err != nil {
		return sheet.CharacterSheet{}, nil, fmt.Errorf("failed to save tropes: %w", err)
	}

	s.mu.Lock()
	delete(s.builders, userID)
	s.mu.Unlock()

	log.Printf("[onboarding] user=%s submitted sheet=%s tropes=%d", userID, saved.ID, len(tropes))
	return saved, tropes, nil
}

// Discard drops any in-flight builder, used on sign-out.
func (s *Service) Discard(userID string) {
	s.mu.Lock()
	delete(s.builders, userID)
	s.mu.Unlock()
}

func (s *Service) mutate(userID string, fn func(*Builder) error) (Builder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.builders[userID]
	if !ok {
		return Builder{}, ErrNoSession
	}
	if err := fn(&b); err != nil {
		return Builder{}, err
	}
	s.builders[userID] = b
	return b, nil
}
