package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/pklenglish/study-api/internal/domain"
)

// NotebookItem is a notebook entry joined with its vocabulary item and
// the owning topic's title, as the notebook listing shows all three.
type NotebookItem struct {
	Entry      domain.NotebookEntry
	Vocabulary domain.Vocabulary
	TopicTitle string
}

// NotebookStore defines the interface for notebook entry persistence.
type NotebookStore interface {
	// Add saves a new notebook entry.
	// Returns ErrNotebookEntryExists if the user already saved this word.
	// Returns ErrInvalidEntity if the vocabulary does not exist.
	Add(ctx context.Context, entry *domain.NotebookEntry) error

	// Remove deletes the user's entry for the given vocabulary item.
	// Returns ErrNotebookEntryNotFound if no such entry exists.
	Remove(ctx context.Context, userID, vocabularyID uuid.UUID) error

	// UpdateNote replaces the personal note on an existing entry.
	// Returns ErrNotebookEntryNotFound if no such entry exists.
	UpdateNote(ctx context.Context, userID, vocabularyID uuid.UUID, note string) error

	// List returns the user's notebook, newest first.
	List(ctx context.Context, userID uuid.UUID) ([]NotebookItem, error)

	// ListVocabulary returns the vocabulary items referenced by the user's
	// notebook. The review engine partitions and samples this set.
	ListVocabulary(ctx context.Context, userID uuid.UUID) ([]*domain.Vocabulary, error)

	// WithTx returns a NotebookStore bound to the given transaction.
	WithTx(tx *sql.Tx) NotebookStore
}
