// Package catalog manages the study material itself: public system topics,
// user-owned private topics, and the vocabulary items under them. It
// enforces ownership; the study engines consume the catalog read-only.
package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pklenglish/study-api/internal/domain"
)

// Common error types for the catalog service.
var (
	// ErrTopicNotFound indicates the topic does not exist.
	ErrTopicNotFound = errors.New("topic not found")

	// ErrVocabularyNotFound indicates the vocabulary item does not exist.
	ErrVocabularyNotFound = errors.New("vocabulary not found")

	// ErrNotOwner indicates the user tried to modify a topic they do not
	// own. System topics are never modifiable through this service.
	ErrNotOwner = errors.New("not the topic owner")

	// ErrTopicNotVisible indicates the topic is private to another user.
	ErrTopicNotVisible = errors.New("topic not visible")
)

// TopicInput carries the user-editable topic fields.
type TopicInput struct {
	Title       string
	Description string
	ImageRef    string
}

// VocabularyInput carries the user-editable vocabulary fields. Media
// references are opaque strings.
type VocabularyInput struct {
	Word            string
	Phonetic        string
	Definition      string
	ExampleSentence string
	MeaningSentence string
	AudioRef        string
}

// Service manages topics and their vocabulary.
type Service interface {
	// ListTopics returns the public topics followed by the user's own
	// private topics.
	ListTopics(ctx context.Context, userID uuid.UUID) ([]*domain.Topic, error)

	// GetTopic returns a topic the user may see.
	// Returns ErrTopicNotFound or ErrTopicNotVisible.
	GetTopic(ctx context.Context, userID, topicID uuid.UUID) (*domain.Topic, error)

	// CreateTopic creates a private topic owned by the user.
	CreateTopic(ctx context.Context, userID uuid.UUID, input TopicInput) (*domain.Topic, error)

	// UpdateTopic modifies a topic the user owns.
	// Returns ErrNotOwner for system topics and other users' topics.
	UpdateTopic(ctx context.Context, userID, topicID uuid.UUID, input TopicInput) (*domain.Topic, error)

	// DeleteTopic removes a topic the user owns along with its vocabulary.
	DeleteTopic(ctx context.Context, userID, topicID uuid.UUID) error

	// ListVocabulary returns the vocabulary under a topic the user may see.
	ListVocabulary(ctx context.Context, userID, topicID uuid.UUID) ([]*domain.Vocabulary, error)

	// CreateVocabulary adds a vocabulary item to a topic the user owns.
	CreateVocabulary(ctx context.Context, userID, topicID uuid.UUID, input VocabularyInput) (*domain.Vocabulary, error)

	// UpdateVocabulary modifies a vocabulary item under a topic the user owns.
	UpdateVocabulary(ctx context.Context, userID, vocabularyID uuid.UUID, input VocabularyInput) (*domain.Vocabulary, error)

	// DeleteVocabulary removes a vocabulary item under a topic the user
	// owns. Flashcards, logs and notebook entries referencing it are
	// removed by cascade.
	DeleteVocabulary(ctx context.Context, userID, vocabularyID uuid.UUID) error
}
