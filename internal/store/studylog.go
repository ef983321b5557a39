package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// AnswerTotals is the all-time answer count split used for accuracy.
type AnswerTotals struct {
	Total   int
	Correct int
}

// DailyBucket is one calendar day's worth of answers.
type DailyBucket struct {
	Date    time.Time
	Total   int
	Correct int
}

// WrongCount ranks a vocabulary item by how often the user missed it.
type WrongCount struct {
	VocabularyID    uuid.UUID
	Word            string
	MeaningSentence string
	TotalAttempts   int
	WrongCount      int
}

// StudyLogStore defines the interface for the append-only answer log and
// the aggregate queries the statistics calculator runs over it.
type StudyLogStore interface {
	// Append records one answer submission.
	// Returns ErrInvalidEntity if the user or vocabulary does not exist.
	Append(ctx context.Context, userID, vocabularyID uuid.UUID, isCorrect bool) error

	// Totals returns the user's all-time answer counts.
	Totals(ctx context.Context, userID uuid.UUID) (AnswerTotals, error)

	// DailyBuckets groups the user's answers since the given day by
	// calendar date, ascending.
	DailyBuckets(ctx context.Context, userID uuid.UUID, since time.Time) ([]DailyBucket, error)

	// MostWrong returns up to limit vocabulary items the user answered
	// incorrectly at least once, ordered by wrong count descending with
	// vocabulary ID as a deterministic tie-break.
	MostWrong(ctx context.Context, userID uuid.UUID, limit int) ([]WrongCount, error)

	// DistinctAnswerDates returns the distinct calendar dates on which the
	// user answered at least once, descending. The streak walk consumes
	// this list.
	DistinctAnswerDates(ctx context.Context, userID uuid.UUID) ([]time.Time, error)

	// WithTx returns a StudyLogStore bound to the given transaction.
	WithTx(tx *sql.Tx) StudyLogStore
}
