package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pklenglish/study-api/internal/domain/mastery"
)

// Common validation errors for Flashcard
var (
	ErrEmptyFlashcardID      = errors.New("flashcard ID cannot be empty")
	ErrEmptyFlashcardUserID  = errors.New("flashcard user ID cannot be empty")
	ErrEmptyFlashcardVocabID = errors.New("flashcard vocabulary ID cannot be empty")
	ErrInvalidFlashcardLevel = errors.New("flashcard mastery level out of range")
)

// Flashcard is the per-user mastery record for one vocabulary item.
// At most one flashcard exists per (user, vocabulary) pair; the store
// enforces this with a unique index, which makes the selection engine's
// sync step idempotent.
type Flashcard struct {
	ID           uuid.UUID     `json:"id"`
	UserID       uuid.UUID     `json:"user_id"`
	VocabularyID uuid.UUID     `json:"vocabulary_id"`
	MasteryLevel mastery.Level `json:"mastery_level"`
	LastReviewed *time.Time    `json:"last_reviewed,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewFlashcard creates a fresh flashcard at level 0 with no review history.
// Returns an error if validation fails.
func NewFlashcard(userID, vocabularyID uuid.UUID) (*Flashcard, error) {
	now := time.Now().UTC()
	card := &Flashcard{
		ID:           uuid.New(),
		UserID:       userID,
		VocabularyID: vocabularyID,
		MasteryLevel: mastery.MinLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Flashcard has valid data.
func (f *Flashcard) Validate() error {
	if f.ID == uuid.Nil {
		return ErrEmptyFlashcardID
	}

	if f.UserID == uuid.Nil {
		return ErrEmptyFlashcardUserID
	}

	if f.VocabularyID == uuid.Nil {
		return ErrEmptyFlashcardVocabID
	}

	if !f.MasteryLevel.Valid() {
		return ErrInvalidFlashcardLevel
	}

	return nil
}

// Mastered reports whether the card has reached the top mastery level
// and should no longer be offered in study sittings.
func (f *Flashcard) Mastered() bool {
	return f.MasteryLevel == mastery.MaxLevel
}
