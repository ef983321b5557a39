package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/pklenglish/study-api/internal/domain"
)

// VocabularyStore defines the interface for vocabulary data persistence.
type VocabularyStore interface {
	// Create saves a new vocabulary item.
	// Returns ErrInvalidEntity if the topic does not exist.
	Create(ctx context.Context, vocab *domain.Vocabulary) error

	// GetByID retrieves a vocabulary item by its ID.
	// Returns ErrVocabularyNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vocabulary, error)

	// ListByTopic returns all vocabulary under a topic, ordered by creation.
	ListByTopic(ctx context.Context, topicID uuid.UUID) ([]*domain.Vocabulary, error)

	// ListIDsByTopic returns the IDs of all vocabulary under a topic.
	// The selection engine diffs this set against the user's flashcards.
	ListIDsByTopic(ctx context.Context, topicID uuid.UUID) ([]uuid.UUID, error)

	// Update modifies an existing vocabulary item.
	// Returns ErrVocabularyNotFound if it does not exist.
	Update(ctx context.Context, vocab *domain.Vocabulary) error

	// Delete removes a vocabulary item. Flashcards, study logs and
	// notebook entries that reference it are removed by the database's
	// cascade rules.
	// Returns ErrVocabularyNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a VocabularyStore bound to the given transaction.
	WithTx(tx *sql.Tx) VocabularyStore
}
