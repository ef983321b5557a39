package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for NotebookEntry
var (
	ErrEmptyNotebookEntryID      = errors.New("notebook entry ID cannot be empty")
	ErrEmptyNotebookEntryUserID  = errors.New("notebook entry user ID cannot be empty")
	ErrEmptyNotebookEntryVocabID = errors.New("notebook entry vocabulary ID cannot be empty")
)

// NotebookEntry is a vocabulary item a user saved for free-form review,
// optionally annotated with a personal note. At most one entry exists per
// (user, vocabulary) pair. Notebook review is not tracked by mastery levels.
type NotebookEntry struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	VocabularyID uuid.UUID `json:"vocabulary_id"`
	Note         string    `json:"note"`
	AddedAt      time.Time `json:"added_at"`
}

// NewNotebookEntry saves a vocabulary item into the user's notebook.
// Returns an error if validation fails.
func NewNotebookEntry(userID, vocabularyID uuid.UUID, note string) (*NotebookEntry, error) {
	entry := &NotebookEntry{
		ID:           uuid.New(),
		UserID:       userID,
		VocabularyID: vocabularyID,
		Note:         note,
		AddedAt:      time.Now().UTC(),
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the NotebookEntry has valid data.
func (e *NotebookEntry) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEmptyNotebookEntryID
	}

	if e.UserID == uuid.Nil {
		return ErrEmptyNotebookEntryUserID
	}

	if e.VocabularyID == uuid.Nil {
		return ErrEmptyNotebookEntryVocabID
	}

	return nil
}
