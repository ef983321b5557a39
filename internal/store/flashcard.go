package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/pklenglish/study-api/internal/domain/mastery"
)

// CardRow is a flashcard joined with its vocabulary item and the owning
// topic's image reference, as the selection engine needs all three to
// build a drill without further round trips.
type CardRow struct {
	CardID          uuid.UUID
	MasteryLevel    mastery.Level
	LastReviewed    *time.Time
	VocabularyID    uuid.UUID
	Word            string
	Phonetic        string
	Definition      string
	ExampleSentence string
	MeaningSentence string
	AudioRef        string
	TopicImageRef   string
}

// FlashcardStore defines the interface for flashcard data persistence.
type FlashcardStore interface {
	// ListVocabIDs returns the IDs of the vocabulary items under topicID
	// for which the user already has a flashcard.
	ListVocabIDs(ctx context.Context, userID, topicID uuid.UUID) ([]uuid.UUID, error)

	// CreateMissing inserts level-0 flashcards for the given vocabulary
	// IDs. Inserts that would violate the unique (user, vocabulary)
	// constraint are silently skipped, which makes the selection engine's
	// sync step idempotent and safe against concurrent sittings.
	CreateMissing(ctx context.Context, userID uuid.UUID, vocabIDs []uuid.UUID) error

	// NextCandidate returns one flashcard under topicID with mastery level
	// below MaxLevel whose ID is not in excludeIDs, preferring never-reviewed
	// cards, then the longest-unreviewed, with a random tie-break.
	// Returns ErrFlashcardNotFound when no candidate remains.
	NextCandidate(ctx context.Context, userID, topicID uuid.UUID, excludeIDs []uuid.UUID) (*CardRow, error)

	// Get returns the flashcard with cardID if it belongs to userID.
	// Returns ErrFlashcardNotFound otherwise.
	Get(ctx context.Context, userID, cardID uuid.UUID) (*CardRow, error)

	// UpdateReview persists a new mastery level and review timestamp.
	// Returns ErrFlashcardNotFound if the card does not exist.
	UpdateReview(ctx context.Context, cardID uuid.UUID, level mastery.Level, reviewedAt time.Time) error

	// CountBelowLevel counts the user's flashcards under topicID with
	// mastery level strictly below the threshold.
	CountBelowLevel(ctx context.Context, userID, topicID uuid.UUID, threshold mastery.Level) (int, error)

	// CountAtLevel counts the user's flashcards under topicID at exactly
	// the given level.
	CountAtLevel(ctx context.Context, userID, topicID uuid.UUID, level mastery.Level) (int, error)

	// ResetTopic sets every flashcard of the user under topicID back to
	// level 0 with no review timestamp.
	ResetTopic(ctx context.Context, userID, topicID uuid.UUID) error

	// CountByLevel returns, for each mastery level, how many flashcards
	// the user holds at that level across all topics. Levels with no
	// cards are absent from the map; callers fill the zero buckets.
	CountByLevel(ctx context.Context, userID uuid.UUID) (map[mastery.Level]int, error)

	// CountAll returns the user's total flashcard count across all topics.
	CountAll(ctx context.Context, userID uuid.UUID) (int, error)

	// WithTx returns a FlashcardStore bound to the given transaction.
	WithTx(tx *sql.Tx) FlashcardStore
}
