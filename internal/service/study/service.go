// Package study implements the card selection engine: it decides which
// flashcard a learner sees next, synthesizes the practice question, and
// applies answers to long-term mastery state.
package study

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/pklenglish/study-api/internal/domain/mastery"
)

// Common error types for the study service.
var (
	// ErrNoCardsRemaining indicates the topic is exhausted for this
	// sitting: every card is either mastered or already shown. A normal
	// terminal state, not a failure.
	ErrNoCardsRemaining = errors.New("no cards remaining to study")

	// ErrCardNotFound indicates the flashcard does not exist or does not
	// belong to the user.
	ErrCardNotFound = errors.New("flashcard not found")
)

// AnswerResult is the outcome of one answer submission.
type AnswerResult struct {
	IsCorrect bool          `json:"is_correct"`
	NewLevel  mastery.Level `json:"new_level"`
	Word      string        `json:"word"`
	Phonetic  string        `json:"phonetic"`
	Meaning   string        `json:"meaning"`
	AudioRef  string        `json:"audio_ref"`
}

// Rand is the source of randomness for question-type coin flips and
// shuffles. *rand.Rand satisfies it, so tests inject a seeded generator
// for deterministic drills.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// DefaultRand returns the shared, concurrency-safe process randomness.
func DefaultRand() Rand {
	return defaultRand{}
}

type defaultRand struct{}

func (defaultRand) IntN(n int) int { return rand.IntN(n) }

func (defaultRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// Service chooses cards, builds drills and applies answers.
type Service interface {
	// NextCard returns the next drill for the user under the topic,
	// skipping the already-shown excludedCardIDs. Before selecting it
	// creates missing flashcards for any vocabulary the user has not
	// encountered yet, so freshly added words join the rotation without
	// a migration step.
	// Returns ErrNoCardsRemaining when the sitting is exhausted.
	NextCard(ctx context.Context, userID, topicID uuid.UUID, excludedCardIDs []uuid.UUID) (*Drill, error)

	// SubmitAnswer grades rawAnswer against the card's word, advances the
	// mastery level, stamps the review time, and appends a study log.
	// Returns ErrCardNotFound if the card doesn't belong to the user.
	SubmitAnswer(ctx context.Context, userID, cardID uuid.UUID, rawAnswer string) (*AnswerResult, error)

	// Progress reports sitting completion as a percentage: how many of
	// the topic's still-learnable cards have been shown. Returns 0 when
	// the topic has nothing left to learn.
	Progress(ctx context.Context, userID, topicID uuid.UUID, excludedCount int) (int, error)

	// ResetTopic puts every flashcard of the user under the topic back to
	// level 0 with no review history. No study logs are written.
	ResetTopic(ctx context.Context, userID, topicID uuid.UUID) error
}
