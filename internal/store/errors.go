package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. Entity-specific variants below wrap it so callers can match
	// either the generic or the specific error.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation or
	// references a row that does not exist (foreign key violation).
	ErrInvalidEntity = errors.New("invalid entity")

	// Entity-specific "not found" errors

	ErrUserNotFound          = fmt.Errorf("%w: user", ErrNotFound)
	ErrTopicNotFound         = fmt.Errorf("%w: topic", ErrNotFound)
	ErrVocabularyNotFound    = fmt.Errorf("%w: vocabulary", ErrNotFound)
	ErrFlashcardNotFound     = fmt.Errorf("%w: flashcard", ErrNotFound)
	ErrNotebookEntryNotFound = fmt.Errorf("%w: notebook entry", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrEmailExists indicates a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrNotebookEntryExists indicates the vocabulary item is already in
	// the user's notebook.
	ErrNotebookEntryExists = fmt.Errorf("%w: notebook entry", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
