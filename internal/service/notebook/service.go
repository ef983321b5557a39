// Package notebook implements the notebook review engine: free practice
// over the vocabulary a user has saved, with multiple-choice listening
// questions and fill-blank questions. Notebook review is untracked: it
// touches no mastery levels and writes no study logs.
package notebook

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pklenglish/study-api/internal/service/study"
	"github.com/pklenglish/study-api/internal/store"
)

// Common error types for the notebook service.
var (
	// ErrNotebookTooSmall indicates the notebook holds fewer than the two
	// distinct words needed to build plausible wrong answers. Surfaced as
	// a user-facing message, not a failure.
	ErrNotebookTooSmall = errors.New("notebook needs at least 2 words for review")

	// ErrReviewComplete indicates every notebook word was already shown
	// this sitting. A normal terminal state.
	ErrReviewComplete = errors.New("notebook review complete")

	// ErrVocabularyNotFound indicates the referenced vocabulary item does
	// not exist.
	ErrVocabularyNotFound = errors.New("vocabulary not found")

	// ErrEntryNotFound indicates the user has no notebook entry for the
	// vocabulary item.
	ErrEntryNotFound = errors.New("notebook entry not found")

	// ErrAlreadySaved indicates the word is already in the user's notebook.
	ErrAlreadySaved = errors.New("word already saved in notebook")
)

// maxDistractors is how many wrong options a listening question carries
// at most, alongside the single correct one.
const maxDistractors = 3

// ReviewOption is one choice in a listening question's option list.
// Exactly one option per question has IsCorrect set.
type ReviewOption struct {
	VocabularyID uuid.UUID `json:"vocabulary_id"`
	Word         string    `json:"word"`
	IsCorrect    bool      `json:"is_correct"`
}

// ReviewQuestion is one notebook practice question.
type ReviewQuestion struct {
	VocabularyID uuid.UUID          `json:"vocabulary_id"`
	Type         study.QuestionType `json:"type"`
	Word         string             `json:"word"`
	Phonetic     string             `json:"phonetic"`
	Definition   string             `json:"definition"`
	Meaning      string             `json:"meaning"`
	AudioRef     string             `json:"audio_ref"`
	Instruction  string             `json:"instruction"`
	Content      string             `json:"content,omitempty"`
	Options      []ReviewOption     `json:"options,omitempty"`
}

// Service manages a user's notebook and generates review questions from it.
type Service interface {
	// Add saves a vocabulary item into the user's notebook.
	// Returns ErrAlreadySaved if it is already there and
	// ErrVocabularyNotFound if the item does not exist.
	Add(ctx context.Context, userID, vocabularyID uuid.UUID, note string) error

	// Remove deletes the user's entry for the vocabulary item.
	// Returns ErrEntryNotFound if there is none.
	Remove(ctx context.Context, userID, vocabularyID uuid.UUID) error

	// UpdateNote replaces the personal note on an entry.
	// Returns ErrEntryNotFound if there is none.
	UpdateNote(ctx context.Context, userID, vocabularyID uuid.UUID, note string) error

	// List returns the user's notebook, newest first.
	List(ctx context.Context, userID uuid.UUID) ([]store.NotebookItem, error)

	// NextQuestion generates the next review question, skipping the
	// already-shown excludedVocabIDs.
	// Returns ErrNotebookTooSmall with fewer than 2 saved words and
	// ErrReviewComplete when the sitting is exhausted.
	NextQuestion(ctx context.Context, userID uuid.UUID, excludedVocabIDs []uuid.UUID) (*ReviewQuestion, error)

	// CheckFillBlank grades a typed answer for the vocabulary item.
	// Returns ErrVocabularyNotFound if the item does not exist.
	CheckFillBlank(ctx context.Context, vocabularyID uuid.UUID, rawAnswer string) (bool, error)
}

// CheckListening grades a multiple-choice selection. Pure equality; no
// lookup is needed because the option list already carries the IDs.
func CheckListening(correctVocabID, selectedVocabID uuid.UUID) bool {
	return correctVocabID == selectedVocabID
}
