package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for StudyLog
var (
	ErrEmptyStudyLogID      = errors.New("study log ID cannot be empty")
	ErrEmptyStudyLogUserID  = errors.New("study log user ID cannot be empty")
	ErrEmptyStudyLogVocabID = errors.New("study log vocabulary ID cannot be empty")
)

// StudyLog is one answer submission. Logs are append-only: the statistics
// calculator aggregates them but nothing ever mutates or deletes them.
type StudyLog struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	VocabularyID uuid.UUID `json:"vocabulary_id"`
	IsCorrect    bool      `json:"is_correct"`
	AnsweredAt   time.Time `json:"answered_at"`
}

// NewStudyLog records an answer for the given user and vocabulary item.
// Returns an error if validation fails.
func NewStudyLog(userID, vocabularyID uuid.UUID, isCorrect bool) (*StudyLog, error) {
	log := &StudyLog{
		ID:           uuid.New(),
		UserID:       userID,
		VocabularyID: vocabularyID,
		IsCorrect:    isCorrect,
		AnsweredAt:   time.Now().UTC(),
	}

	if err := log.Validate(); err != nil {
		return nil, err
	}

	return log, nil
}

// Validate checks if the StudyLog has valid data.
func (l *StudyLog) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEmptyStudyLogID
	}

	if l.UserID == uuid.Nil {
		return ErrEmptyStudyLogUserID
	}

	if l.VocabularyID == uuid.Nil {
		return ErrEmptyStudyLogVocabID
	}

	return nil
}
