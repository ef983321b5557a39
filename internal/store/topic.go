package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/pklenglish/study-api/internal/domain"
)

// TopicStore defines the interface for topic data persistence.
type TopicStore interface {
	// Create saves a new topic.
	Create(ctx context.Context, topic *domain.Topic) error

	// GetByID retrieves a topic by its ID.
	// Returns ErrTopicNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Topic, error)

	// ListPublic returns all system-owned public topics, newest first.
	ListPublic(ctx context.Context) ([]*domain.Topic, error)

	// ListByOwner returns all private topics owned by the user, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Topic, error)

	// Update modifies an existing topic's title, description and image.
	// Returns ErrTopicNotFound if it does not exist.
	Update(ctx context.Context, topic *domain.Topic) error

	// Delete removes a topic and, through cascade rules, its vocabulary.
	// Returns ErrTopicNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountVocabulary returns the number of vocabulary items under a topic.
	CountVocabulary(ctx context.Context, topicID uuid.UUID) (int, error)

	// WithTx returns a TopicStore bound to the given transaction.
	WithTx(tx *sql.Tx) TopicStore
}
